package query

import (
	"context"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

// Source 是排班视图所需数据的读取接口，由 repository 在启动时注入。
// 一次查询中的各项数据应来自同一份快照，一致性由实现方负责。
type Source interface {
	ShiftsFor(ctx context.Context, f domain.ShiftFilter) ([]domain.Shift, error)
	AssignmentsFor(ctx context.Context, shiftIDs []string) ([]domain.Assignment, error)
	RequirementsFor(ctx context.Context, orgID, locationID, areaID string) ([]domain.StaffingRequirement, error)
	EmployeesFor(ctx context.Context, orgID, locationID string) ([]domain.Employee, error)
	EmployeesForUser(ctx context.Context, userID string) ([]domain.Employee, error)
	RolesFor(ctx context.Context, orgID string) ([]domain.Role, error)
	AreasFor(ctx context.Context, orgID, locationID string) ([]domain.Area, error)
	TimeOffFor(ctx context.Context, f domain.TimeOffFilter) ([]domain.TimeOffRequest, error)
	PendingTimeOffCount(ctx context.Context, orgID string) (int, error)
	AssignedShiftsFor(ctx context.Context, employeeIDs []string, from, to string) ([]domain.ShiftWithAssignment, error)
}
