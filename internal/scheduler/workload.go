package scheduler

import (
	"log/slog"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

type WorkloadInput struct {
	From        string // yyyy-MM-dd，包含
	To          string // yyyy-MM-dd，包含
	Employees   []domain.Employee
	Shifts      []domain.Shift
	Assignments []domain.Assignment
}

// AggregateHours 按输入顺序返回每个员工在时间窗口内的累计工时。
// 时间格式错误或找不到班次的记录会被跳过，不影响其他记录的统计。
func AggregateHours(p Policy, in WorkloadInput) []domain.EmployeeWorkload {
	shifts := make(map[string]domain.Shift, len(in.Shifts))
	for _, shift := range in.Shifts {
		shifts[shift.ID] = shift
	}

	hours := make(map[string]float64, len(in.Employees))
	skipped := make(map[string]int)
	for _, a := range in.Assignments {
		shift, ok := shifts[a.ShiftID]
		if !ok {
			skipped[a.EmployeeID]++
			continue
		}
		if !inWindow(shift.Date, in.From, in.To) {
			continue
		}

		d, err := Duration(shift.StartTime, shift.EndTime)
		if err != nil {
			slog.Debug("跳过时间格式错误的班次", "shiftID", shift.ID, "error", err)
			skipped[a.EmployeeID]++
			continue
		}
		hours[a.EmployeeID] += d
	}

	result := make([]domain.EmployeeWorkload, 0, len(in.Employees))
	for _, e := range in.Employees {
		limit := p.Limit(e)
		total := hours[e.ID]
		result = append(result, domain.EmployeeWorkload{
			EmployeeID:   e.ID,
			Name:         displayName(e.Name),
			CurrentHours: total,
			Limit:        limit,
			Status:       p.Status(total, limit),
			Skipped:      skipped[e.ID],
		})
	}

	return result
}

// OvertimeRisks 只返回累计工时达到阈值的员工
func OvertimeRisks(p Policy, in WorkloadInput) []domain.OvertimeRisk {
	risks := []domain.OvertimeRisk{}
	for _, w := range AggregateHours(p, in) {
		if w.CurrentHours < p.Threshold(w.Limit) {
			continue
		}
		risks = append(risks, domain.OvertimeRisk{
			EmployeeID:   w.EmployeeID,
			Name:         w.Name,
			CurrentHours: w.CurrentHours,
			Limit:        w.Limit,
		})
	}
	return risks
}

func displayName(name string) string {
	if name == "" {
		return unknownName
	}
	return name
}

// DailyTotals 按日期汇总已分配班次的工时，日期顺序与班次首次出现的顺序一致
func DailyTotals(shifts []domain.ShiftWithAssignment) ([]domain.DailyHours, float64) {
	daily := []domain.DailyHours{}
	index := make(map[string]int)
	total := 0.0

	for _, s := range shifts {
		d, err := Duration(s.StartTime, s.EndTime)
		if err != nil {
			slog.Debug("跳过时间格式错误的班次", "shiftID", s.ID, "error", err)
			continue
		}

		i, ok := index[s.Date]
		if !ok {
			i = len(daily)
			index[s.Date] = i
			daily = append(daily, domain.DailyHours{Date: s.Date})
		}
		daily[i].Hours += d
		total += d
	}

	return daily, total
}
