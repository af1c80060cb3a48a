package domain

// 查询条件中的空字符串表示不限制该字段
type ShiftFilter struct {
	OrgID      string
	LocationID string
	AreaID     string
	From       string // 包含
	To         string // 包含
}

type TimeOffFilter struct {
	OrgID      string
	EmployeeID string
	Date       string
	Status     TimeOffStatus
}
