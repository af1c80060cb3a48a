package domain

// Shift 中的 Date 为 yyyy-MM-dd，StartTime/EndTime 为 24 小时制 HH:MM。
// EndTime 小于 StartTime 时表示跨越午夜。
type Shift struct {
	ID         string `json:"id"`
	AreaID     string `json:"areaId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	LocationID string `json:"locationId"`
	OrgID      string `json:"orgId"`
}

// 每个班次最多只有一个 Assignment
type Assignment struct {
	ID         string `json:"id"`
	ShiftID    string `json:"shiftId"`
	EmployeeID string `json:"employeeId"`
	RoleID     string `json:"roleId,omitempty"`
}

type ShiftWithAssignment struct {
	Shift
	Assignment *Assignment `json:"assignment"`
}
