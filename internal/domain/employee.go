package domain

const RuleTypeMaxHours = "MAX_HOURS"

type Rule struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value int    `json:"value"`
	OrgID string `json:"orgId"`
}

// Employee 中的 Name 和 Email 来自关联的用户，RuleValue 来自关联的规则
type Employee struct {
	ID               string   `json:"id"`
	UserID           string   `json:"userId"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	OrgID            string   `json:"orgId"`
	LocationID       string   `json:"locationId"`
	RoleIDs          []string `json:"roleIds"`
	WeeklyHoursLimit *int     `json:"weeklyHoursLimit"`
	RuleID           string   `json:"ruleId,omitempty"`
	RuleValue        *int     `json:"ruleValue,omitempty"`
}
