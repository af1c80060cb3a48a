package repository

import (
	"context"
	"database/sql"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

// Dataset 是一组需要一次性写入的数据，用于初始化演示数据
type Dataset struct {
	Organizations []domain.Organization
	Locations     []domain.Location
	Users         []domain.User
	Roles         []domain.Role
	Rules         []domain.Rule
	Areas         []domain.Area
	Employees     []domain.Employee
	Requirements  []domain.StaffingRequirement
	Shifts        []domain.Shift
	Assignments   []domain.Assignment
	TimeOff       []domain.TimeOffRequest
}

// InsertDataset 在同一个事务中按依赖顺序写入数据，已存在的记录会被跳过
func (r *Repository) InsertDataset(ctx context.Context, ds *Dataset) error {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}

	for _, o := range ds.Organizations {
		if err := exec(`INSERT INTO organizations (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`, o.ID, o.Name); err != nil {
			return err
		}
	}
	for _, l := range ds.Locations {
		if err := exec(`INSERT INTO locations (id, name, org_id) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, l.ID, l.Name, l.OrgID); err != nil {
			return err
		}
	}
	for _, u := range ds.Users {
		query := `INSERT INTO users (id, email, name, role, org_id, password_hash) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`
		if err := exec(query, u.ID, u.Email, u.Name, string(u.Role), nullString(u.OrgID), u.PasswordHash); err != nil {
			return err
		}
	}
	for _, role := range ds.Roles {
		query := `INSERT INTO roles (id, name, color, org_id) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`
		if err := exec(query, role.ID, role.Name, role.Color, role.OrgID); err != nil {
			return err
		}
	}
	for _, rule := range ds.Rules {
		query := `INSERT INTO rules (id, name, type, value, org_id) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`
		if err := exec(query, rule.ID, rule.Name, rule.Type, rule.Value, rule.OrgID); err != nil {
			return err
		}
	}
	for _, a := range ds.Areas {
		query := `INSERT INTO areas (id, name, color, location_id, org_id) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`
		if err := exec(query, a.ID, a.Name, a.Color, a.LocationID, a.OrgID); err != nil {
			return err
		}
	}
	for _, e := range ds.Employees {
		var limit sql.NullInt64
		if e.WeeklyHoursLimit != nil {
			limit = sql.NullInt64{Int64: int64(*e.WeeklyHoursLimit), Valid: true}
		}
		query := `
			INSERT INTO employees (id, user_id, org_id, location_id, weekly_hours_limit, rule_id)
			VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING
		`
		if err := exec(query, e.ID, e.UserID, e.OrgID, e.LocationID, limit, nullString(e.RuleID)); err != nil {
			return err
		}
		for _, roleID := range e.RoleIDs {
			if err := exec(`INSERT INTO employee_roles (employee_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, e.ID, roleID); err != nil {
				return err
			}
		}
	}
	for _, req := range ds.Requirements {
		query := `
			INSERT INTO requirements (id, area_id, day_of_week, role_id, count, location_id, org_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT DO NOTHING
		`
		if err := exec(query, req.ID, req.AreaID, req.DayOfWeek, req.RoleID, req.Count, req.LocationID, req.OrgID); err != nil {
			return err
		}
	}
	for _, s := range ds.Shifts {
		query := `
			INSERT INTO shifts (id, area_id, date, start_time, end_time, location_id, org_id)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7) ON CONFLICT DO NOTHING
		`
		if err := exec(query, s.ID, s.AreaID, s.Date, s.StartTime, s.EndTime, s.LocationID, s.OrgID); err != nil {
			return err
		}
	}
	for _, a := range ds.Assignments {
		query := `INSERT INTO assignments (id, shift_id, employee_id, role_id) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`
		if err := exec(query, a.ID, a.ShiftID, a.EmployeeID, nullString(a.RoleID)); err != nil {
			return err
		}
	}
	for _, t := range ds.TimeOff {
		query := `
			INSERT INTO time_off_requests (id, employee_id, date, is_full_day, start_time, end_time, reason, status, org_id)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9) ON CONFLICT DO NOTHING
		`
		args := []any{t.ID, t.EmployeeID, t.Date, t.IsFullDay, nullString(t.StartTime), nullString(t.EndTime), t.Reason, string(t.Status), t.OrgID}
		if err := exec(query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
