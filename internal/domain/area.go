package domain

type Area struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	LocationID string `json:"locationId"`
	OrgID      string `json:"orgId"`
}

// 岗位角色，例如 Barista、Cashier，与账号角色 UserRole 无关
type Role struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	OrgID string `json:"orgId"`
}

type StaffingRequirement struct {
	ID         string `json:"id"`
	AreaID     string `json:"areaId"`
	DayOfWeek  string `json:"dayOfWeek"` // monday ~ sunday
	RoleID     string `json:"roleId"`
	Count      int    `json:"count"`
	LocationID string `json:"locationId"`
	OrgID      string `json:"orgId"`
}
