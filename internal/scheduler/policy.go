package scheduler

import "github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"

const (
	DefaultWeeklyHoursLimit = 40
	DefaultRiskRatio        = 0.9
)

// 工时上限策略
type Policy struct {
	DefaultWeeklyHoursLimit float64 // 员工和规则都没有给出有效上限时使用
	RiskRatio               float64 // 达到上限的该比例即视为加班风险
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultWeeklyHoursLimit: DefaultWeeklyHoursLimit,
		RiskRatio:               DefaultRiskRatio,
	}
}

func (p Policy) normalized() Policy {
	if p.DefaultWeeklyHoursLimit <= 0 {
		p.DefaultWeeklyHoursLimit = DefaultWeeklyHoursLimit
	}
	if p.RiskRatio <= 0 || p.RiskRatio > 1 {
		p.RiskRatio = DefaultRiskRatio
	}
	return p
}

// Limit 依次取员工自身上限、关联规则的值，非正数视为未设置
func (p Policy) Limit(e domain.Employee) float64 {
	if e.WeeklyHoursLimit != nil && *e.WeeklyHoursLimit > 0 {
		return float64(*e.WeeklyHoursLimit)
	}
	if e.RuleValue != nil && *e.RuleValue > 0 {
		return float64(*e.RuleValue)
	}
	return p.normalized().DefaultWeeklyHoursLimit
}

func (p Policy) Threshold(limit float64) float64 {
	return limit * p.normalized().RiskRatio
}

// Status 用于排班侧栏的工时显示：超过上限为 over，超过阈值为 near
func (p Policy) Status(hours, limit float64) domain.LoadStatus {
	switch {
	case hours > limit:
		return domain.LoadOver
	case hours > p.Threshold(limit):
		return domain.LoadNear
	default:
		return domain.LoadOK
	}
}
