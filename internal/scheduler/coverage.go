package scheduler

import (
	"slices"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

const unknownName = "Unknown"

type CoverageInput struct {
	Date         string
	AreaID       string
	Shifts       []domain.Shift
	Assignments  []domain.Assignment
	Employees    []domain.Employee
	Requirements []domain.StaffingRequirement
	Roles        []domain.Role
}

// ComputeCoverage 对比某个区域某天的各岗位需求人数与已安排人数。
// 输入可以包含其他区域或日期的数据，这里会自行过滤。
func ComputeCoverage(in CoverageInput) domain.Coverage {
	dayOfWeek, _ := Weekday(in.Date)

	coverage := domain.Coverage{
		AreaID:    in.AreaID,
		Date:      in.Date,
		DayOfWeek: dayOfWeek,
		Items:     []domain.CoverageItem{},
		Met:       true,
	}

	// 日期无法解析时得不到星期，也就不会匹配任何需求
	if dayOfWeek == "" {
		return coverage
	}

	roleNames := make(map[string]string, len(in.Roles))
	for _, role := range in.Roles {
		roleNames[role.ID] = role.Name
	}

	employees := make(map[string]domain.Employee, len(in.Employees))
	for _, employee := range in.Employees {
		employees[employee.ID] = employee
	}

	assignments := assignmentsByShift(in.Assignments)

	// 每个班次最多一个人，因此直接记录每个班次的分配
	var dayAssignments []domain.Assignment
	for _, shift := range in.Shifts {
		if shift.AreaID != in.AreaID || shift.Date != in.Date {
			continue
		}
		if a, ok := assignments[shift.ID]; ok {
			dayAssignments = append(dayAssignments, a)
		}
	}

	for _, req := range in.Requirements {
		if req.AreaID != in.AreaID || req.DayOfWeek != dayOfWeek {
			continue
		}

		assigned := 0
		for _, a := range dayAssignments {
			if coversRole(a, employees, req.RoleID) {
				assigned++
			}
		}

		name, ok := roleNames[req.RoleID]
		if !ok {
			name = unknownName
		}

		item := domain.CoverageItem{
			RoleID:   req.RoleID,
			RoleName: name,
			Required: req.Count,
			Assigned: assigned,
			Met:      assigned >= req.Count,
		}
		coverage.Items = append(coverage.Items, item)
		coverage.HasRequirements = true
		if !item.Met {
			coverage.Met = false
		}
	}

	return coverage
}

// coversRole 优先使用分配上显式记录的岗位，否则回退到员工持有的岗位集合
func coversRole(a domain.Assignment, employees map[string]domain.Employee, roleID string) bool {
	if a.RoleID != "" {
		return a.RoleID == roleID
	}

	employee, ok := employees[a.EmployeeID]
	if !ok {
		return false
	}
	return slices.Contains(employee.RoleIDs, roleID)
}

// assignmentsByShift 以班次 ID 建立索引，同一班次出现多条记录时保留第一条
func assignmentsByShift(assignments []domain.Assignment) map[string]domain.Assignment {
	m := make(map[string]domain.Assignment, len(assignments))
	for _, a := range assignments {
		if _, exists := m[a.ShiftID]; exists {
			continue
		}
		m[a.ShiftID] = a
	}
	return m
}

// UnderstaffedDays 返回存在未满足需求的日期，按首次出现的顺序且不重复
func UnderstaffedDays(grid []domain.Coverage) []string {
	days := []string{}
	for _, c := range grid {
		if !c.Met && !slices.Contains(days, c.Date) {
			days = append(days, c.Date)
		}
	}
	return days
}
