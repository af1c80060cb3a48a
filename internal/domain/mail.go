package domain

const (
	MailTypeTimeOffDecision    = "time_off_decision"
	MailTypeAssignmentConflict = "assignment_conflict"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type TimeOffDecisionMailData struct {
	Name      string        `json:"name"`
	Date      string        `json:"date"`
	IsFullDay bool          `json:"isFullDay"`
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
	Status    TimeOffStatus `json:"status"`
}

type AssignmentConflictMailData struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}
