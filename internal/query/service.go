package query

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/clock"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/scheduler"
)

const MaxGridDays = 62

var ErrRangeTooLarge = errors.New("查询的日期范围过大")

type Service struct {
	source   Source
	clock    clock.Clock
	policy   scheduler.Policy
	location *time.Location
	tracer   trace.Tracer
}

func NewService(source Source, clk clock.Clock, policy scheduler.Policy, location *time.Location) *Service {
	if location == nil {
		location = time.Local
	}

	return &Service{
		source:   source,
		clock:    clk,
		policy:   policy,
		location: location,
		tracer:   otel.Tracer("github.com/sysu-ecnc-dev/qwikshifts/backend/internal/query"),
	}
}

func (s *Service) Today() string {
	return s.clock.Now().In(s.location).Format(time.DateOnly)
}

func (s *Service) WeekView(ctx context.Context, orgID, locationID, from, to string) ([]domain.ShiftWithAssignment, error) {
	ctx, span := s.tracer.Start(ctx, "query.WeekView", trace.WithAttributes(
		attribute.String("org_id", orgID),
		attribute.String("location_id", locationID),
		attribute.String("from", from),
		attribute.String("to", to),
	))
	defer span.End()

	shifts, err := s.source.ShiftsFor(ctx, domain.ShiftFilter{OrgID: orgID, LocationID: locationID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("获取班次失败: %w", err)
	}

	assignments, err := s.assignmentsOf(ctx, shifts)
	if err != nil {
		return nil, err
	}

	byShift := make(map[string]domain.Assignment, len(assignments))
	for _, a := range assignments {
		if _, exists := byShift[a.ShiftID]; !exists {
			byShift[a.ShiftID] = a
		}
	}

	result := make([]domain.ShiftWithAssignment, 0, len(shifts))
	for _, shift := range shifts {
		item := domain.ShiftWithAssignment{Shift: shift}
		if a, ok := byShift[shift.ID]; ok {
			item.Assignment = &a
		}
		result = append(result, item)
	}

	return result, nil
}

// DayCoverage 只在调用方需要时计算某区域某天的覆盖情况
func (s *Service) DayCoverage(ctx context.Context, orgID, areaID, date string) (domain.Coverage, error) {
	ctx, span := s.tracer.Start(ctx, "query.DayCoverage", trace.WithAttributes(
		attribute.String("org_id", orgID),
		attribute.String("area_id", areaID),
		attribute.String("date", date),
	))
	defer span.End()

	if _, err := scheduler.ParseDate(date); err != nil {
		return domain.Coverage{}, err
	}

	shifts, err := s.source.ShiftsFor(ctx, domain.ShiftFilter{OrgID: orgID, AreaID: areaID, From: date, To: date})
	if err != nil {
		return domain.Coverage{}, fmt.Errorf("获取班次失败: %w", err)
	}

	ws, err := s.coverageWorkingSet(ctx, orgID, "", areaID, shifts)
	if err != nil {
		return domain.Coverage{}, err
	}

	return scheduler.ComputeCoverage(ws.input(areaID, date)), nil
}

// CoverageGrid 计算地点下每个区域在日期范围内每一天的覆盖情况，供周视图和月视图使用
func (s *Service) CoverageGrid(ctx context.Context, orgID, locationID, from, to string) (domain.CoverageGrid, error) {
	ctx, span := s.tracer.Start(ctx, "query.CoverageGrid", trace.WithAttributes(
		attribute.String("org_id", orgID),
		attribute.String("location_id", locationID),
		attribute.String("from", from),
		attribute.String("to", to),
	))
	defer span.End()

	dates, err := scheduler.DatesBetween(from, to)
	if err != nil {
		return domain.CoverageGrid{}, err
	}
	if len(dates) > MaxGridDays {
		return domain.CoverageGrid{}, ErrRangeTooLarge
	}

	areas, err := s.source.AreasFor(ctx, orgID, locationID)
	if err != nil {
		return domain.CoverageGrid{}, fmt.Errorf("获取区域失败: %w", err)
	}

	shifts, err := s.source.ShiftsFor(ctx, domain.ShiftFilter{OrgID: orgID, LocationID: locationID, From: from, To: to})
	if err != nil {
		return domain.CoverageGrid{}, fmt.Errorf("获取班次失败: %w", err)
	}

	ws, err := s.coverageWorkingSet(ctx, orgID, locationID, "", shifts)
	if err != nil {
		return domain.CoverageGrid{}, err
	}

	grid := domain.CoverageGrid{Cells: make([]domain.Coverage, 0, len(dates)*len(areas))}
	for _, date := range dates {
		for _, area := range areas {
			grid.Cells = append(grid.Cells, scheduler.ComputeCoverage(ws.input(area.ID, date)))
		}
	}
	grid.UnderstaffedDays = scheduler.UnderstaffedDays(grid.Cells)

	return grid, nil
}

// DashboardSummary 汇总本周（周一开始）的加班风险、今天的班次情况和待审批的请假数量。
// 没有组织时不做任何统计。
func (s *Service) DashboardSummary(ctx context.Context, orgID string) (domain.DashboardSummary, error) {
	ctx, span := s.tracer.Start(ctx, "query.DashboardSummary", trace.WithAttributes(attribute.String("org_id", orgID)))
	defer span.End()

	summary := domain.DashboardSummary{OvertimeRisks: []domain.OvertimeRisk{}}
	if orgID == "" {
		return summary, nil
	}

	pending, err := s.source.PendingTimeOffCount(ctx, orgID)
	if err != nil {
		return summary, fmt.Errorf("获取待审批请假数量失败: %w", err)
	}
	summary.PendingTimeOffCount = pending

	now := s.clock.Now().In(s.location)
	weekFrom, weekTo := clock.WeekBounds(now)
	today := now.Format(time.DateOnly)

	employees, err := s.source.EmployeesFor(ctx, orgID, "")
	if err != nil {
		return summary, fmt.Errorf("获取员工失败: %w", err)
	}

	shifts, err := s.source.ShiftsFor(ctx, domain.ShiftFilter{OrgID: orgID, From: weekFrom, To: weekTo})
	if err != nil {
		return summary, fmt.Errorf("获取班次失败: %w", err)
	}

	assignments, err := s.assignmentsOf(ctx, shifts)
	if err != nil {
		return summary, err
	}

	summary.OvertimeRisks = scheduler.OvertimeRisks(s.policy, scheduler.WorkloadInput{
		From:        weekFrom,
		To:          weekTo,
		Employees:   employees,
		Shifts:      shifts,
		Assignments: assignments,
	})

	assigned := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		assigned[a.ShiftID] = true
	}
	for _, shift := range shifts {
		if shift.Date != today {
			continue
		}
		summary.TodaysStats.TotalShifts++
		if !assigned[shift.ID] {
			summary.TodaysStats.UnassignedShifts++
		}
	}

	return summary, nil
}

// CheckAssignmentConflict 在保存排班前检查员工当天是否有已批准的请假，没有冲突时返回 nil
func (s *Service) CheckAssignmentConflict(ctx context.Context, orgID, employeeID, date string) (*domain.TimeOffConflict, error) {
	ctx, span := s.tracer.Start(ctx, "query.CheckAssignmentConflict", trace.WithAttributes(
		attribute.String("employee_id", employeeID),
		attribute.String("date", date),
	))
	defer span.End()

	requests, err := s.source.TimeOffFor(ctx, domain.TimeOffFilter{
		OrgID:      orgID,
		EmployeeID: employeeID,
		Date:       date,
		Status:     domain.TimeOffApproved,
	})
	if err != nil {
		return nil, fmt.Errorf("获取请假记录失败: %w", err)
	}

	return scheduler.DetectConflict(employeeID, date, requests), nil
}

func (s *Service) LayoutDay(ctx context.Context, orgID, areaID, date string) (map[string]domain.Lane, error) {
	ctx, span := s.tracer.Start(ctx, "query.LayoutDay", trace.WithAttributes(
		attribute.String("area_id", areaID),
		attribute.String("date", date),
	))
	defer span.End()

	shifts, err := s.source.ShiftsFor(ctx, domain.ShiftFilter{OrgID: orgID, AreaID: areaID, From: date, To: date})
	if err != nil {
		return nil, fmt.Errorf("获取班次失败: %w", err)
	}

	return scheduler.LayoutShifts(shifts), nil
}

// EmployeeHours 返回地点下每个员工在日期范围内的工时，工时统计包含该员工在组织内所有地点的班次
func (s *Service) EmployeeHours(ctx context.Context, orgID, locationID, from, to string) ([]domain.EmployeeWorkload, error) {
	ctx, span := s.tracer.Start(ctx, "query.EmployeeHours", trace.WithAttributes(
		attribute.String("org_id", orgID),
		attribute.String("location_id", locationID),
	))
	defer span.End()

	employees, err := s.source.EmployeesFor(ctx, orgID, locationID)
	if err != nil {
		return nil, fmt.Errorf("获取员工失败: %w", err)
	}

	shifts, err := s.source.ShiftsFor(ctx, domain.ShiftFilter{OrgID: orgID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("获取班次失败: %w", err)
	}

	assignments, err := s.assignmentsOf(ctx, shifts)
	if err != nil {
		return nil, err
	}

	return scheduler.AggregateHours(s.policy, scheduler.WorkloadInput{
		From:        from,
		To:          to,
		Employees:   employees,
		Shifts:      shifts,
		Assignments: assignments,
	}), nil
}

// DayAvailability 列出地点下当天有已批准请假的员工
func (s *Service) DayAvailability(ctx context.Context, orgID, locationID, date string) ([]domain.Unavailability, error) {
	ctx, span := s.tracer.Start(ctx, "query.DayAvailability", trace.WithAttributes(
		attribute.String("location_id", locationID),
		attribute.String("date", date),
	))
	defer span.End()

	employees, err := s.source.EmployeesFor(ctx, orgID, locationID)
	if err != nil {
		return nil, fmt.Errorf("获取员工失败: %w", err)
	}

	requests, err := s.source.TimeOffFor(ctx, domain.TimeOffFilter{OrgID: orgID, Date: date, Status: domain.TimeOffApproved})
	if err != nil {
		return nil, fmt.Errorf("获取请假记录失败: %w", err)
	}

	return scheduler.DayAvailability(date, employees, requests), nil
}

// MySchedule 只统计调用者在当前组织下的员工档案
func (s *Service) MySchedule(ctx context.Context, orgID, userID, from, to string) (domain.MySchedule, error) {
	ctx, span := s.tracer.Start(ctx, "query.MySchedule", trace.WithAttributes(attribute.String("user_id", userID)))
	defer span.End()

	result := domain.MySchedule{Shifts: []domain.ShiftWithAssignment{}, Daily: []domain.DailyHours{}}

	employees, err := s.source.EmployeesForUser(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("获取员工失败: %w", err)
	}
	employees = slices.DeleteFunc(employees, func(e domain.Employee) bool { return e.OrgID != orgID })
	if len(employees) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}

	shifts, err := s.source.AssignedShiftsFor(ctx, ids, from, to)
	if err != nil {
		return result, fmt.Errorf("获取班次失败: %w", err)
	}

	result.Shifts = shifts
	result.Daily, result.TotalHours = scheduler.DailyTotals(shifts)
	return result, nil
}

func (s *Service) assignmentsOf(ctx context.Context, shifts []domain.Shift) ([]domain.Assignment, error) {
	if len(shifts) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(shifts))
	for _, shift := range shifts {
		ids = append(ids, shift.ID)
	}

	assignments, err := s.source.AssignmentsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("获取排班分配失败: %w", err)
	}
	return assignments, nil
}

// coverageSet 是计算覆盖情况所需的一份数据快照
type coverageSet struct {
	shifts       []domain.Shift
	assignments  []domain.Assignment
	employees    []domain.Employee
	requirements []domain.StaffingRequirement
	roles        []domain.Role
}

func (ws coverageSet) input(areaID, date string) scheduler.CoverageInput {
	return scheduler.CoverageInput{
		Date:         date,
		AreaID:       areaID,
		Shifts:       ws.shifts,
		Assignments:  ws.assignments,
		Employees:    ws.employees,
		Requirements: ws.requirements,
		Roles:        ws.roles,
	}
}

func (s *Service) coverageWorkingSet(ctx context.Context, orgID, locationID, areaID string, shifts []domain.Shift) (coverageSet, error) {
	ws := coverageSet{shifts: shifts}

	var err error
	if ws.assignments, err = s.assignmentsOf(ctx, shifts); err != nil {
		return ws, err
	}
	if ws.employees, err = s.source.EmployeesFor(ctx, orgID, ""); err != nil {
		return ws, fmt.Errorf("获取员工失败: %w", err)
	}
	if ws.requirements, err = s.source.RequirementsFor(ctx, orgID, locationID, areaID); err != nil {
		return ws, fmt.Errorf("获取人员需求失败: %w", err)
	}
	if ws.roles, err = s.source.RolesFor(ctx, orgID); err != nil {
		return ws, fmt.Errorf("获取岗位失败: %w", err)
	}

	return ws, nil
}
