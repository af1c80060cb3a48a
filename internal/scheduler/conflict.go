package scheduler

import (
	"fmt"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

// DetectConflict 查找该员工在该日期已批准的请假，没有则返回 nil。
// 结果仅作提示，是否继续排班由调用方决定。
func DetectConflict(employeeID, date string, requests []domain.TimeOffRequest) *domain.TimeOffConflict {
	for _, r := range requests {
		if r.EmployeeID != employeeID || r.Date != date || r.Status != domain.TimeOffApproved {
			continue
		}

		conflict := &domain.TimeOffConflict{
			RequestID: r.ID,
			IsFullDay: r.IsFullDay,
			Reason:    r.Reason,
		}
		if !r.IsFullDay {
			conflict.StartTime = r.StartTime
			conflict.EndTime = r.EndTime
		}
		return conflict
	}

	return nil
}

// DayAvailability 列出当天因已批准请假而不可排班的员工
func DayAvailability(date string, employees []domain.Employee, requests []domain.TimeOffRequest) []domain.Unavailability {
	result := []domain.Unavailability{}
	for _, e := range employees {
		conflict := DetectConflict(e.ID, date, requests)
		if conflict == nil {
			continue
		}

		reason := "Full Day Off"
		if !conflict.IsFullDay {
			reason = fmt.Sprintf("Off: %s-%s", conflict.StartTime, conflict.EndTime)
		}
		result = append(result, domain.Unavailability{
			EmployeeID: e.ID,
			Name:       displayName(e.Name),
			Reason:     reason,
		})
	}
	return result
}
