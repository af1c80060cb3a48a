package domain

type CoverageItem struct {
	RoleID   string `json:"roleId"`
	RoleName string `json:"roleName"`
	Required int    `json:"required"`
	Assigned int    `json:"assigned"`
	Met      bool   `json:"met"`
}

// 没有任何需求时 HasRequirements 为 false，Met 为 true
type Coverage struct {
	AreaID          string         `json:"areaId"`
	Date            string         `json:"date"`
	DayOfWeek       string         `json:"dayOfWeek"`
	Items           []CoverageItem `json:"items"`
	Met             bool           `json:"met"`
	HasRequirements bool           `json:"hasRequirements"`
}

type LoadStatus string

const (
	LoadOK   LoadStatus = "ok"
	LoadNear LoadStatus = "near"
	LoadOver LoadStatus = "over"
)

type EmployeeWorkload struct {
	EmployeeID   string     `json:"employeeId"`
	Name         string     `json:"name"`
	CurrentHours float64    `json:"currentHours"`
	Limit        float64    `json:"limit"`
	Status       LoadStatus `json:"status"`
	Skipped      int        `json:"skipped"`
}

type OvertimeRisk struct {
	EmployeeID   string  `json:"employeeId"`
	Name         string  `json:"name"`
	CurrentHours float64 `json:"currentHours"`
	Limit        float64 `json:"limit"`
}

type TodaysStats struct {
	TotalShifts      int `json:"totalShifts"`
	UnassignedShifts int `json:"unassignedShifts"`
}

type DashboardSummary struct {
	PendingTimeOffCount int            `json:"pendingTimeOffCount"`
	OvertimeRisks       []OvertimeRisk `json:"overtimeRisks"`
	TodaysStats         TodaysStats    `json:"todaysStats"`
}

type TimeOffConflict struct {
	RequestID string `json:"requestId"`
	IsFullDay bool   `json:"isFullDay"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Reason    string `json:"reason"`
}

type Lane struct {
	LaneIndex int `json:"laneIndex"`
	LaneCount int `json:"laneCount"`
}

type Unavailability struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Reason     string `json:"reason"`
}

type DailyHours struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type MySchedule struct {
	Shifts     []ShiftWithAssignment `json:"shifts"`
	Daily      []DailyHours          `json:"daily"`
	TotalHours float64               `json:"totalHours"`
}

type CoverageGrid struct {
	Cells            []Coverage `json:"cells"`
	UnderstaffedDays []string   `json:"understaffedDays"`
}
