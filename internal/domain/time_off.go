package domain

type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffRejected TimeOffStatus = "rejected"
)

// 非全天请假时 StartTime 和 EndTime 才有值
type TimeOffRequest struct {
	ID         string        `json:"id"`
	EmployeeID string        `json:"employeeId"`
	Date       string        `json:"date"`
	IsFullDay  bool          `json:"isFullDay"`
	StartTime  string        `json:"startTime,omitempty"`
	EndTime    string        `json:"endTime,omitempty"`
	Reason     string        `json:"reason"`
	Status     TimeOffStatus `json:"status"`
	OrgID      string        `json:"orgId"`
}

type TimeOffRequestWithEmployee struct {
	TimeOffRequest
	EmployeeName  string `json:"employeeName"`
	EmployeeEmail string `json:"employeeEmail"`
}
