package local

import (
	"context"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository"
	"gorm.io/gorm"
)

func (s *Store) TimeOffFor(ctx context.Context, f domain.TimeOffFilter) ([]domain.TimeOffRequest, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	if f.OrgID != "" {
		db = db.Where("org_id = ?", f.OrgID)
	}
	if f.EmployeeID != "" {
		db = db.Where("employee_id = ?", f.EmployeeID)
	}
	if f.Date != "" {
		db = db.Where("date = ?", f.Date)
	}
	if f.Status != "" {
		db = db.Where("status = ?", string(f.Status))
	}

	var rows []timeOffRequest
	if err := db.Order("date, created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	requests := make([]domain.TimeOffRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toDomain())
	}
	return requests, nil
}

func (s *Store) PendingTimeOffCount(ctx context.Context, orgID string) (int, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var count int64
	err := db.Model(&timeOffRequest{}).
		Where("status = ? AND org_id = ?", string(domain.TimeOffPending), orgID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *Store) ListTimeOffRequests(ctx context.Context, orgID string) ([]domain.TimeOffRequestWithEmployee, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	type row struct {
		Request       timeOffRequest `gorm:"embedded"`
		EmployeeName  string
		EmployeeEmail string
	}

	var rows []row
	err := db.Table("time_off_requests t").
		Select("t.*, u.name AS employee_name, u.email AS employee_email").
		Joins("JOIN employees e ON e.id = t.employee_id").
		Joins("JOIN users u ON u.id = e.user_id").
		Where("t.org_id = ?", orgID).
		Order("t.date DESC, t.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	requests := make([]domain.TimeOffRequestWithEmployee, 0, len(rows))
	for _, r := range rows {
		requests = append(requests, domain.TimeOffRequestWithEmployee{
			TimeOffRequest: r.Request.toDomain(),
			EmployeeName:   r.EmployeeName,
			EmployeeEmail:  r.EmployeeEmail,
		})
	}
	return requests, nil
}

func (s *Store) CreateTimeOffRequest(ctx context.Context, t *domain.TimeOffRequest) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", t.EmployeeID).First(&employee{}).Error; err != nil {
			return notFoundAs(err, repository.ErrEmployeeNotFound)
		}

		t.ID = uuid.NewString()
		if t.Status == "" {
			t.Status = domain.TimeOffPending
		}
		if t.IsFullDay {
			t.StartTime, t.EndTime = "", ""
		}

		row := fromTimeOff(*t)
		return tx.Create(&row).Error
	})
}

func (s *Store) UpdateTimeOffStatus(ctx context.Context, orgID, id string, status domain.TimeOffStatus) (*domain.TimeOffRequest, error) {
	var row timeOffRequest
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND org_id = ?", id, orgID).First(&row).Error; err != nil {
			return translateError(err)
		}
		row.Status = string(status)
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}

	result := row.toDomain()
	return &result, nil
}
