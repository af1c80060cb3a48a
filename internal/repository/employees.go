package repository

import (
	"context"
	"database/sql"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

const employeeSelect = `
	SELECT e.id, e.user_id, u.name, u.email, e.org_id, e.location_id,
	       e.weekly_hours_limit, COALESCE(e.rule_id, ''), r.value,
	       COALESCE(string_agg(er.role_id, ',' ORDER BY er.role_id), '')
	FROM employees e
	JOIN users u ON u.id = e.user_id
	LEFT JOIN rules r ON r.id = e.rule_id
	LEFT JOIN employee_roles er ON er.employee_id = e.id
`

const employeeGroupBy = ` GROUP BY e.id, u.name, u.email, r.value ORDER BY u.name, e.id`

func (r *Repository) queryEmployees(ctx context.Context, where string, args ...any) ([]domain.Employee, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, employeeSelect+where+employeeGroupBy, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0)
	for rows.Next() {
		var (
			e         domain.Employee
			limit     sql.NullInt64
			ruleValue sql.NullInt64
			roleIDs   string
		)
		dst := []any{&e.ID, &e.UserID, &e.Name, &e.Email, &e.OrgID, &e.LocationID, &limit, &e.RuleID, &ruleValue, &roleIDs}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		e.WeeklyHoursLimit = nullIntPtr(limit)
		e.RuleValue = nullIntPtr(ruleValue)
		e.RoleIDs = splitIDs(roleIDs)
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) EmployeesFor(ctx context.Context, orgID, locationID string) ([]domain.Employee, error) {
	var c conditions
	c.add("e.org_id = $%d", orgID)
	c.addIf(locationID != "", "e.location_id = $%d", locationID)
	return r.queryEmployees(ctx, c.where(), c.args...)
}

func (r *Repository) EmployeesForUser(ctx context.Context, userID string) ([]domain.Employee, error) {
	return r.queryEmployees(ctx, "WHERE e.user_id = $1", userID)
}

func (r *Repository) GetEmployee(ctx context.Context, orgID, id string) (*domain.Employee, error) {
	employees, err := r.queryEmployees(ctx, "WHERE e.id = $1 AND e.org_id = $2", id, orgID)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, ErrNotFound
	}
	return &employees[0], nil
}
