package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

const timeOffColumns = `t.id, t.employee_id, to_char(t.date, 'YYYY-MM-DD'), t.is_full_day,
	COALESCE(t.start_time, ''), COALESCE(t.end_time, ''), t.reason, t.status, t.org_id`

func timeOffDst(t *domain.TimeOffRequest) []any {
	return []any{&t.ID, &t.EmployeeID, &t.Date, &t.IsFullDay, &t.StartTime, &t.EndTime, &t.Reason, &t.Status, &t.OrgID}
}

func (r *Repository) TimeOffFor(ctx context.Context, f domain.TimeOffFilter) ([]domain.TimeOffRequest, error) {
	var c conditions
	c.addIf(f.OrgID != "", "t.org_id = $%d", f.OrgID)
	c.addIf(f.EmployeeID != "", "t.employee_id = $%d", f.EmployeeID)
	c.addIf(f.Date != "", "t.date = $%d::date", f.Date)
	c.addIf(f.Status != "", "t.status = $%d", string(f.Status))

	query := `SELECT ` + timeOffColumns + ` FROM time_off_requests t ` + c.where() + ` ORDER BY t.date, t.created_at, t.id`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]domain.TimeOffRequest, 0)
	for rows.Next() {
		var t domain.TimeOffRequest
		if err := rows.Scan(timeOffDst(&t)...); err != nil {
			return nil, err
		}
		requests = append(requests, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) PendingTimeOffCount(ctx context.Context, orgID string) (int, error) {
	query := `SELECT COUNT(*) FROM time_off_requests WHERE status = $1 AND org_id = $2`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var count int
	if err := r.dbpool.QueryRowContext(ctx, query, string(domain.TimeOffPending), orgID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) ListTimeOffRequests(ctx context.Context, orgID string) ([]domain.TimeOffRequestWithEmployee, error) {
	query := `
		SELECT ` + timeOffColumns + `, u.name, u.email
		FROM time_off_requests t
		JOIN employees e ON e.id = t.employee_id
		JOIN users u ON u.id = e.user_id
		WHERE t.org_id = $1
		ORDER BY t.date DESC, t.created_at DESC
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]domain.TimeOffRequestWithEmployee, 0)
	for rows.Next() {
		var t domain.TimeOffRequestWithEmployee
		dst := append(timeOffDst(&t.TimeOffRequest), &t.EmployeeName, &t.EmployeeEmail)
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) CreateTimeOffRequest(ctx context.Context, t *domain.TimeOffRequest) error {
	query := `
		INSERT INTO time_off_requests (id, employee_id, date, is_full_day, start_time, end_time, reason, status, org_id)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9)
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	t.ID = uuid.NewString()
	if t.Status == "" {
		t.Status = domain.TimeOffPending
	}
	if t.IsFullDay {
		t.StartTime, t.EndTime = "", ""
	}

	args := []any{t.ID, t.EmployeeID, t.Date, t.IsFullDay, nullString(t.StartTime), nullString(t.EndTime), t.Reason, string(t.Status), t.OrgID}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) UpdateTimeOffStatus(ctx context.Context, orgID, id string, status domain.TimeOffStatus) (*domain.TimeOffRequest, error) {
	query := `
		UPDATE time_off_requests t SET status = $1
		WHERE t.id = $2 AND t.org_id = $3
		RETURNING ` + timeOffColumns

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	t := &domain.TimeOffRequest{}
	if err := r.dbpool.QueryRowContext(ctx, query, string(status), id, orgID).Scan(timeOffDst(t)...); err != nil {
		return nil, translateError(err)
	}

	return t, nil
}
