package handler

type ContextKey string

var (
	RoleCtxKey ContextKey = "role"
	SubCtxKey  ContextKey = "sub"
	OrgCtxKey  ContextKey = "orgId"
	ShiftCtx   ContextKey = "shift"
)
