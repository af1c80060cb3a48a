package query

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/clock"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/scheduler"
)

type fakeSource struct {
	shiftsFn       func(ctx context.Context, f domain.ShiftFilter) ([]domain.Shift, error)
	assignmentsFn  func(ctx context.Context, shiftIDs []string) ([]domain.Assignment, error)
	requirementsFn func(ctx context.Context, orgID, locationID, areaID string) ([]domain.StaffingRequirement, error)
	employeesFn    func(ctx context.Context, orgID, locationID string) ([]domain.Employee, error)
	userEmpFn      func(ctx context.Context, userID string) ([]domain.Employee, error)
	rolesFn        func(ctx context.Context, orgID string) ([]domain.Role, error)
	areasFn        func(ctx context.Context, orgID, locationID string) ([]domain.Area, error)
	timeOffFn      func(ctx context.Context, f domain.TimeOffFilter) ([]domain.TimeOffRequest, error)
	pendingFn      func(ctx context.Context, orgID string) (int, error)
	assignedFn     func(ctx context.Context, employeeIDs []string, from, to string) ([]domain.ShiftWithAssignment, error)
}

func (f fakeSource) ShiftsFor(ctx context.Context, filter domain.ShiftFilter) ([]domain.Shift, error) {
	if f.shiftsFn == nil {
		return nil, nil
	}
	return f.shiftsFn(ctx, filter)
}

func (f fakeSource) AssignmentsFor(ctx context.Context, shiftIDs []string) ([]domain.Assignment, error) {
	if f.assignmentsFn == nil {
		return nil, nil
	}
	return f.assignmentsFn(ctx, shiftIDs)
}

func (f fakeSource) RequirementsFor(ctx context.Context, orgID, locationID, areaID string) ([]domain.StaffingRequirement, error) {
	if f.requirementsFn == nil {
		return nil, nil
	}
	return f.requirementsFn(ctx, orgID, locationID, areaID)
}

func (f fakeSource) EmployeesFor(ctx context.Context, orgID, locationID string) ([]domain.Employee, error) {
	if f.employeesFn == nil {
		return nil, nil
	}
	return f.employeesFn(ctx, orgID, locationID)
}

func (f fakeSource) EmployeesForUser(ctx context.Context, userID string) ([]domain.Employee, error) {
	if f.userEmpFn == nil {
		return nil, nil
	}
	return f.userEmpFn(ctx, userID)
}

func (f fakeSource) RolesFor(ctx context.Context, orgID string) ([]domain.Role, error) {
	if f.rolesFn == nil {
		return nil, nil
	}
	return f.rolesFn(ctx, orgID)
}

func (f fakeSource) AreasFor(ctx context.Context, orgID, locationID string) ([]domain.Area, error) {
	if f.areasFn == nil {
		return nil, nil
	}
	return f.areasFn(ctx, orgID, locationID)
}

func (f fakeSource) TimeOffFor(ctx context.Context, filter domain.TimeOffFilter) ([]domain.TimeOffRequest, error) {
	if f.timeOffFn == nil {
		return nil, nil
	}
	return f.timeOffFn(ctx, filter)
}

func (f fakeSource) PendingTimeOffCount(ctx context.Context, orgID string) (int, error) {
	if f.pendingFn == nil {
		return 0, nil
	}
	return f.pendingFn(ctx, orgID)
}

func (f fakeSource) AssignedShiftsFor(ctx context.Context, employeeIDs []string, from, to string) ([]domain.ShiftWithAssignment, error) {
	if f.assignedFn == nil {
		return nil, nil
	}
	return f.assignedFn(ctx, employeeIDs, from, to)
}

// 2025-06-12 是星期四，本周为 2025-06-09 ~ 2025-06-15
var fixedNow = time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)

func newTestService(src Source) *Service {
	return NewService(src, clock.Fake(fixedNow), scheduler.DefaultPolicy(), time.UTC)
}

func intPtr(v int) *int { return &v }

// memorySource 在内存中按过滤条件返回数据，用于需要组合多个查询的测试
func memorySource() fakeSource {
	shifts := []domain.Shift{
		{ID: "s1", AreaID: "front", Date: "2025-06-09", StartTime: "09:00", EndTime: "17:00", LocationID: "loc-1", OrgID: "org-1"},
		{ID: "s2", AreaID: "front", Date: "2025-06-10", StartTime: "09:00", EndTime: "17:00", LocationID: "loc-1", OrgID: "org-1"},
		{ID: "s3", AreaID: "front", Date: "2025-06-11", StartTime: "09:00", EndTime: "17:00", LocationID: "loc-1", OrgID: "org-1"},
		{ID: "s4", AreaID: "front", Date: "2025-06-12", StartTime: "09:00", EndTime: "17:00", LocationID: "loc-1", OrgID: "org-1"},
		{ID: "s5", AreaID: "front", Date: "2025-06-12", StartTime: "12:00", EndTime: "20:00", LocationID: "loc-1", OrgID: "org-1"},
		{ID: "s6", AreaID: "back", Date: "2025-06-12", StartTime: "22:00", EndTime: "08:00", LocationID: "loc-1", OrgID: "org-1"},
		{ID: "s7", AreaID: "front", Date: "2025-06-16", StartTime: "09:00", EndTime: "17:00", LocationID: "loc-1", OrgID: "org-1"},
	}
	assignments := []domain.Assignment{
		{ID: "a1", ShiftID: "s1", EmployeeID: "e1"},
		{ID: "a2", ShiftID: "s2", EmployeeID: "e1"},
		{ID: "a3", ShiftID: "s3", EmployeeID: "e1"},
		{ID: "a4", ShiftID: "s4", EmployeeID: "e1"},
		{ID: "a6", ShiftID: "s6", EmployeeID: "e2", RoleID: "cook"},
		{ID: "a7", ShiftID: "s7", EmployeeID: "e1"},
	}
	employees := []domain.Employee{
		{ID: "e1", UserID: "u1", OrgID: "org-1", Name: "Alice", LocationID: "loc-1", RoleIDs: []string{"cashier"}, WeeklyHoursLimit: intPtr(35)},
		{ID: "e2", UserID: "u2", OrgID: "org-1", Name: "Bob", LocationID: "loc-1", RoleIDs: []string{"cook"}},
	}

	return fakeSource{
		shiftsFn: func(ctx context.Context, f domain.ShiftFilter) ([]domain.Shift, error) {
			var result []domain.Shift
			for _, s := range shifts {
				if f.OrgID != "" && s.OrgID != f.OrgID {
					continue
				}
				if f.LocationID != "" && s.LocationID != f.LocationID {
					continue
				}
				if f.AreaID != "" && s.AreaID != f.AreaID {
					continue
				}
				if (f.From != "" && s.Date < f.From) || (f.To != "" && s.Date > f.To) {
					continue
				}
				result = append(result, s)
			}
			return result, nil
		},
		assignmentsFn: func(ctx context.Context, shiftIDs []string) ([]domain.Assignment, error) {
			var result []domain.Assignment
			for _, a := range assignments {
				for _, id := range shiftIDs {
					if a.ShiftID == id {
						result = append(result, a)
					}
				}
			}
			return result, nil
		},
		employeesFn: func(ctx context.Context, orgID, locationID string) ([]domain.Employee, error) {
			return employees, nil
		},
		userEmpFn: func(ctx context.Context, userID string) ([]domain.Employee, error) {
			for _, e := range employees {
				if e.UserID == userID {
					return []domain.Employee{e}, nil
				}
			}
			return nil, nil
		},
		requirementsFn: func(ctx context.Context, orgID, locationID, areaID string) ([]domain.StaffingRequirement, error) {
			return []domain.StaffingRequirement{
				{ID: "r1", AreaID: "front", DayOfWeek: "thursday", RoleID: "cashier", Count: 2},
				{ID: "r2", AreaID: "back", DayOfWeek: "thursday", RoleID: "cook", Count: 1},
			}, nil
		},
		rolesFn: func(ctx context.Context, orgID string) ([]domain.Role, error) {
			return []domain.Role{{ID: "cashier", Name: "Cashier"}, {ID: "cook", Name: "Cook"}}, nil
		},
		areasFn: func(ctx context.Context, orgID, locationID string) ([]domain.Area, error) {
			return []domain.Area{{ID: "front", Name: "Front"}, {ID: "back", Name: "Back"}}, nil
		},
		pendingFn: func(ctx context.Context, orgID string) (int, error) {
			return 3, nil
		},
		assignedFn: func(ctx context.Context, employeeIDs []string, from, to string) ([]domain.ShiftWithAssignment, error) {
			var result []domain.ShiftWithAssignment
			for _, a := range assignments {
				if a.EmployeeID != employeeIDs[0] {
					continue
				}
				for _, s := range shifts {
					if s.ID == a.ShiftID && s.Date >= from && s.Date <= to {
						a := a
						result = append(result, domain.ShiftWithAssignment{Shift: s, Assignment: &a})
					}
				}
			}
			return result, nil
		},
	}
}

func TestWeekViewAttachesSingleAssignment(t *testing.T) {
	src := memorySource()
	inner := src.assignmentsFn
	src.assignmentsFn = func(ctx context.Context, shiftIDs []string) ([]domain.Assignment, error) {
		result, _ := inner(ctx, shiftIDs)
		// 同一个班次出现重复记录时只取第一条
		return append(result, domain.Assignment{ID: "dup", ShiftID: "s1", EmployeeID: "e2"}), nil
	}
	svc := newTestService(src)

	got, err := svc.WeekView(context.Background(), "org-1", "loc-1", "2025-06-09", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 shifts, got %d", len(got))
	}
	if got[0].Assignment == nil || got[0].Assignment.ID != "a1" {
		t.Errorf("s1 assignment = %+v, want a1", got[0].Assignment)
	}
	if got[4].Assignment != nil {
		t.Errorf("s5 should be unassigned, got %+v", got[4].Assignment)
	}
}

func TestWeekViewPropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestService(fakeSource{
		shiftsFn: func(ctx context.Context, f domain.ShiftFilter) ([]domain.Shift, error) { return nil, boom },
	})

	if _, err := svc.WeekView(context.Background(), "org-1", "", "", ""); !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}

func TestDashboardSummary(t *testing.T) {
	svc := newTestService(memorySource())

	got, err := svc.DashboardSummary(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.DashboardSummary{
		PendingTimeOffCount: 3,
		// e1 本周 32 小时，上限 35，阈值 31.5；s7 在下周不计入
		OvertimeRisks: []domain.OvertimeRisk{{EmployeeID: "e1", Name: "Alice", CurrentHours: 32, Limit: 35}},
		TodaysStats:   domain.TodaysStats{TotalShifts: 3, UnassignedShifts: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("summary = %+v, want %+v", got, want)
	}

	again, _ := svc.DashboardSummary(context.Background(), "org-1")
	if !reflect.DeepEqual(got, again) {
		t.Errorf("summary is not idempotent")
	}
}

func TestDashboardSummarySkipsWithoutOrg(t *testing.T) {
	svc := newTestService(fakeSource{
		pendingFn: func(ctx context.Context, orgID string) (int, error) {
			t.Fatal("source must not be called without an org")
			return 0, nil
		},
	})

	got, err := svc.DashboardSummary(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PendingTimeOffCount != 0 || len(got.OvertimeRisks) != 0 || got.OvertimeRisks == nil {
		t.Errorf("expected empty summary, got %+v", got)
	}
}

func TestDayCoverage(t *testing.T) {
	svc := newTestService(memorySource())

	got, err := svc.DayCoverage(context.Background(), "org-1", "front", "2025-06-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.CoverageItem{{RoleID: "cashier", RoleName: "Cashier", Required: 2, Assigned: 1, Met: false}}
	if !reflect.DeepEqual(got.Items, want) || got.Met {
		t.Errorf("coverage = %+v", got)
	}

	if _, err := svc.DayCoverage(context.Background(), "org-1", "front", "12/06/2025"); !errors.Is(err, scheduler.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestCoverageGrid(t *testing.T) {
	svc := newTestService(memorySource())

	got, err := svc.CoverageGrid(context.Background(), "org-1", "loc-1", "2025-06-11", "2025-06-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(got.Cells))
	}
	// 周三没有任何需求，周四 front 不满足而 back 满足
	if !reflect.DeepEqual(got.UnderstaffedDays, []string{"2025-06-12"}) {
		t.Errorf("UnderstaffedDays = %v", got.UnderstaffedDays)
	}
	if back := got.Cells[3]; back.AreaID != "back" || !back.Met {
		t.Errorf("back cell = %+v", back)
	}

	if _, err := svc.CoverageGrid(context.Background(), "org-1", "loc-1", "2025-01-01", "2025-12-31"); !errors.Is(err, ErrRangeTooLarge) {
		t.Errorf("expected ErrRangeTooLarge, got %v", err)
	}
}

func TestCheckAssignmentConflict(t *testing.T) {
	requests := []domain.TimeOffRequest{
		{ID: "t1", EmployeeID: "E1", Date: "2025-06-10", IsFullDay: true, Status: domain.TimeOffApproved, Reason: "vacation"},
		{ID: "t2", EmployeeID: "E1", Date: "2025-06-11", IsFullDay: true, Status: domain.TimeOffPending},
	}
	svc := newTestService(fakeSource{
		timeOffFn: func(ctx context.Context, f domain.TimeOffFilter) ([]domain.TimeOffRequest, error) {
			if f.Status != domain.TimeOffApproved {
				t.Errorf("expected approved filter, got %q", f.Status)
			}
			return requests, nil
		},
	})

	got, err := svc.CheckAssignmentConflict(context.Background(), "org-1", "E1", "2025-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.RequestID != "t1" {
		t.Errorf("expected conflict with t1, got %+v", got)
	}

	got, _ = svc.CheckAssignmentConflict(context.Background(), "org-1", "E1", "2025-06-11")
	if got != nil {
		t.Errorf("pending request must not conflict, got %+v", got)
	}
}

func TestLayoutDay(t *testing.T) {
	svc := newTestService(memorySource())

	got, err := svc.LayoutDay(context.Background(), "org-1", "front", "2025-06-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]domain.Lane{
		"s4": {LaneIndex: 0, LaneCount: 2},
		"s5": {LaneIndex: 1, LaneCount: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("layout = %+v, want %+v", got, want)
	}
}

func TestEmployeeHours(t *testing.T) {
	svc := newTestService(memorySource())

	got, err := svc.EmployeeHours(context.Background(), "org-1", "loc-1", "2025-06-09", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(got))
	}
	if got[0].CurrentHours != 32 || got[0].Status != domain.LoadNear {
		t.Errorf("e1 = %+v", got[0])
	}
	if got[1].CurrentHours != 10 || got[1].Limit != 40 || got[1].Status != domain.LoadOK {
		t.Errorf("e2 = %+v", got[1])
	}
}

func TestDayAvailability(t *testing.T) {
	src := memorySource()
	src.timeOffFn = func(ctx context.Context, f domain.TimeOffFilter) ([]domain.TimeOffRequest, error) {
		return []domain.TimeOffRequest{
			{EmployeeID: "e2", Date: "2025-06-12", StartTime: "08:00", EndTime: "12:00", Status: domain.TimeOffApproved},
		}, nil
	}
	svc := newTestService(src)

	got, err := svc.DayAvailability(context.Background(), "org-1", "loc-1", "2025-06-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.Unavailability{{EmployeeID: "e2", Name: "Bob", Reason: "Off: 08:00-12:00"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("availability = %+v, want %+v", got, want)
	}
}

func TestMySchedule(t *testing.T) {
	svc := newTestService(memorySource())

	got, err := svc.MySchedule(context.Background(), "org-1", "u1", "2025-06-09", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Shifts) != 4 || got.TotalHours != 32 || len(got.Daily) != 4 {
		t.Errorf("unexpected schedule %+v", got)
	}

	empty, err := svc.MySchedule(context.Background(), "org-1", "nobody", "2025-06-09", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Shifts == nil || len(empty.Shifts) != 0 {
		t.Errorf("expected empty non-nil shifts, got %+v", empty.Shifts)
	}

	other, err := svc.MySchedule(context.Background(), "org-2", "u1", "2025-06-09", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(other.Shifts) != 0 || other.TotalHours != 0 {
		t.Errorf("expected no shifts outside org, got %+v", other)
	}
}

func TestMyScheduleIgnoresOtherOrgs(t *testing.T) {
	var requested []string
	src := fakeSource{
		userEmpFn: func(ctx context.Context, userID string) ([]domain.Employee, error) {
			return []domain.Employee{
				{ID: "e1", UserID: userID, OrgID: "org-1"},
				{ID: "x9", UserID: userID, OrgID: "org-2"},
			}, nil
		},
		assignedFn: func(ctx context.Context, employeeIDs []string, from, to string) ([]domain.ShiftWithAssignment, error) {
			requested = employeeIDs
			return nil, nil
		},
	}

	if _, err := newTestService(src).MySchedule(context.Background(), "org-1", "u1", "2025-06-09", "2025-06-15"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(requested, []string{"e1"}) {
		t.Errorf("requested employees = %v, want [e1]", requested)
	}
}
