package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

const shiftColumns = `s.id, s.area_id, to_char(s.date, 'YYYY-MM-DD'), s.start_time, s.end_time, s.location_id, s.org_id`

func shiftDst(s *domain.Shift) []any {
	return []any{&s.ID, &s.AreaID, &s.Date, &s.StartTime, &s.EndTime, &s.LocationID, &s.OrgID}
}

func (r *Repository) ShiftsFor(ctx context.Context, f domain.ShiftFilter) ([]domain.Shift, error) {
	var c conditions
	c.addIf(f.OrgID != "", "s.org_id = $%d", f.OrgID)
	c.addIf(f.LocationID != "", "s.location_id = $%d", f.LocationID)
	c.addIf(f.AreaID != "", "s.area_id = $%d", f.AreaID)
	c.addIf(f.From != "", "s.date >= $%d::date", f.From)
	c.addIf(f.To != "", "s.date <= $%d::date", f.To)

	query := `SELECT ` + shiftColumns + ` FROM shifts s ` + c.where() + ` ORDER BY s.date, s.start_time, s.id`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]domain.Shift, 0)
	for rows.Next() {
		var s domain.Shift
		if err := rows.Scan(shiftDst(&s)...); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetShift(ctx context.Context, orgID, id string) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts s WHERE s.id = $1 AND s.org_id = $2`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	s := &domain.Shift{}
	if err := r.dbpool.QueryRowContext(ctx, query, id, orgID).Scan(shiftDst(s)...); err != nil {
		return nil, translateError(err)
	}

	return s, nil
}

// CreateShift 创建班次，assignment 不为 nil 时在同一事务中写入排班
func (r *Repository) CreateShift(ctx context.Context, shift *domain.Shift, assignment *domain.Assignment) error {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var areaLocation string
	err = tx.QueryRowContext(ctx, `SELECT location_id FROM areas WHERE id = $1 AND org_id = $2`, shift.AreaID, shift.OrgID).Scan(&areaLocation)
	if err := checkShiftArea(err, areaLocation, shift); err != nil {
		return err
	}

	shift.ID = uuid.NewString()
	query := `
		INSERT INTO shifts (id, area_id, date, start_time, end_time, location_id, org_id)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
	`
	args := []any{shift.ID, shift.AreaID, shift.Date, shift.StartTime, shift.EndTime, shift.LocationID, shift.OrgID}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return translateError(err)
	}

	if assignment != nil {
		assignment.ID = uuid.NewString()
		assignment.ShiftID = shift.ID
		query := `INSERT INTO assignments (id, shift_id, employee_id, role_id) VALUES ($1, $2, $3, $4)`
		args := []any{assignment.ID, assignment.ShiftID, assignment.EmployeeID, nullString(assignment.RoleID)}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return translateError(err)
		}
	}

	return tx.Commit()
}

// checkShiftArea 要求班次的区域属于本组织，并且位于班次所在的地点
func checkShiftArea(lookupErr error, areaLocation string, shift *domain.Shift) error {
	if errors.Is(lookupErr, sql.ErrNoRows) {
		return ErrAreaNotFound
	}
	if lookupErr != nil {
		return lookupErr
	}
	if areaLocation != shift.LocationID {
		return ErrAreaNotFound
	}
	return nil
}

func (r *Repository) UpdateShiftTimes(ctx context.Context, orgID, id, startTime, endTime string) (*domain.Shift, error) {
	query := `
		UPDATE shifts s SET start_time = $1, end_time = $2
		WHERE s.id = $3 AND s.org_id = $4
		RETURNING ` + shiftColumns

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	s := &domain.Shift{}
	if err := r.dbpool.QueryRowContext(ctx, query, startTime, endTime, id, orgID).Scan(shiftDst(s)...); err != nil {
		return nil, translateError(err)
	}

	return s, nil
}

// DeleteShift 删除班次，对应的排班通过外键级联删除
func (r *Repository) DeleteShift(ctx context.Context, orgID, id string) error {
	query := `DELETE FROM shifts WHERE id = $1 AND org_id = $2`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id, orgID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) AssignedShiftsFor(ctx context.Context, employeeIDs []string, from, to string) ([]domain.ShiftWithAssignment, error) {
	var c conditions
	c.add("a.employee_id = ANY($%d)", employeeIDs)
	c.addIf(from != "", "s.date >= $%d::date", from)
	c.addIf(to != "", "s.date <= $%d::date", to)

	query := `
		SELECT ` + shiftColumns + `, a.id, a.employee_id, COALESCE(a.role_id, '')
		FROM shifts s
		JOIN assignments a ON a.shift_id = s.id
		` + c.where() + `
		ORDER BY s.date, s.start_time, s.id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.ShiftWithAssignment, 0)
	for rows.Next() {
		var item domain.ShiftWithAssignment
		a := &domain.Assignment{}
		dst := append(shiftDst(&item.Shift), &a.ID, &a.EmployeeID, &a.RoleID)
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		a.ShiftID = item.ID
		item.Assignment = a
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Repository) AssignmentsFor(ctx context.Context, shiftIDs []string) ([]domain.Assignment, error) {
	if len(shiftIDs) == 0 {
		return []domain.Assignment{}, nil
	}

	query := `
		SELECT id, shift_id, employee_id, COALESCE(role_id, '')
		FROM assignments WHERE shift_id = ANY($1)
		ORDER BY shift_id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, shiftIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]domain.Assignment, 0, len(shiftIDs))
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.ShiftID, &a.EmployeeID, &a.RoleID); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// AssignEmployee 为班次写入唯一的排班，已有排班时直接覆盖。
// 班次不属于该组织时返回 ErrNotFound。
func (r *Repository) AssignEmployee(ctx context.Context, orgID string, a *domain.Assignment) error {
	query := `
		INSERT INTO assignments (id, shift_id, employee_id, role_id)
		SELECT $1, s.id, $2, $3 FROM shifts s WHERE s.id = $4 AND s.org_id = $5
		ON CONFLICT (shift_id) DO UPDATE
		SET employee_id = EXCLUDED.employee_id, role_id = EXCLUDED.role_id
		RETURNING id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{uuid.NewString(), a.EmployeeID, nullString(a.RoleID), a.ShiftID, orgID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) UnassignShift(ctx context.Context, orgID, shiftID string) error {
	if _, err := r.GetShift(ctx, orgID, shiftID); err != nil {
		return err
	}

	query := `DELETE FROM assignments WHERE shift_id = $1`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, shiftID); err != nil {
		return err
	}

	return nil
}
