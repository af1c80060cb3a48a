package local

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository"
	"gorm.io/gorm"
)

func shiftScope(f domain.ShiftFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.OrgID != "" {
			db = db.Where("shifts.org_id = ?", f.OrgID)
		}
		if f.LocationID != "" {
			db = db.Where("shifts.location_id = ?", f.LocationID)
		}
		if f.AreaID != "" {
			db = db.Where("shifts.area_id = ?", f.AreaID)
		}
		if f.From != "" {
			db = db.Where("shifts.date >= ?", f.From)
		}
		if f.To != "" {
			db = db.Where("shifts.date <= ?", f.To)
		}
		return db
	}
}

func (s *Store) ShiftsFor(ctx context.Context, f domain.ShiftFilter) ([]domain.Shift, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var rows []shift
	if err := db.Scopes(shiftScope(f)).Order("date, start_time, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	shifts := make([]domain.Shift, 0, len(rows))
	for _, row := range rows {
		shifts = append(shifts, row.toDomain())
	}
	return shifts, nil
}

func (s *Store) GetShift(ctx context.Context, orgID, id string) (*domain.Shift, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var row shift
	if err := db.Where("id = ? AND org_id = ?", id, orgID).First(&row).Error; err != nil {
		return nil, translateError(err)
	}

	result := row.toDomain()
	return &result, nil
}

func (s *Store) CreateShift(ctx context.Context, sh *domain.Shift, a *domain.Assignment) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		// 区域必须属于本组织，并且位于班次所在的地点
		var owner area
		if err := tx.Where("id = ? AND org_id = ?", sh.AreaID, sh.OrgID).First(&owner).Error; err != nil {
			return notFoundAs(err, repository.ErrAreaNotFound)
		}
		if owner.LocationID != sh.LocationID {
			return repository.ErrAreaNotFound
		}

		sh.ID = uuid.NewString()
		row := fromShift(*sh)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		if a == nil {
			return nil
		}
		if err := tx.Where("id = ?", a.EmployeeID).First(&employee{}).Error; err != nil {
			return notFoundAs(err, repository.ErrEmployeeNotFound)
		}

		a.ID = uuid.NewString()
		a.ShiftID = sh.ID
		return tx.Create(&assignment{ID: a.ID, ShiftID: a.ShiftID, EmployeeID: a.EmployeeID, RoleID: ptr(a.RoleID)}).Error
	})
}

func (s *Store) UpdateShiftTimes(ctx context.Context, orgID, id, startTime, endTime string) (*domain.Shift, error) {
	var row shift
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND org_id = ?", id, orgID).First(&row).Error; err != nil {
			return translateError(err)
		}
		row.StartTime, row.EndTime = startTime, endTime
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}

	result := row.toDomain()
	return &result, nil
}

// DeleteShift 删除班次及其排班
func (s *Store) DeleteShift(ctx context.Context, orgID, id string) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND org_id = ?", id, orgID).Delete(&shift{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return tx.Where("shift_id = ?", id).Delete(&assignment{}).Error
	})
}

func (s *Store) AssignedShiftsFor(ctx context.Context, employeeIDs []string, from, to string) ([]domain.ShiftWithAssignment, error) {
	if len(employeeIDs) == 0 {
		return []domain.ShiftWithAssignment{}, nil
	}

	db, cancel := s.query(ctx)
	defer cancel()

	type row struct {
		Shift        shift `gorm:"embedded"`
		AssignmentID string
		EmployeeID   string
		RoleID       *string
	}

	var rows []row
	err := db.Table("shifts").
		Select("shifts.*, assignments.id AS assignment_id, assignments.employee_id, assignments.role_id").
		Joins("JOIN assignments ON assignments.shift_id = shifts.id").
		Where("assignments.employee_id IN ?", employeeIDs).
		Scopes(shiftScope(domain.ShiftFilter{From: from, To: to})).
		Order("shifts.date, shifts.start_time, shifts.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.ShiftWithAssignment, 0, len(rows))
	for _, r := range rows {
		result = append(result, domain.ShiftWithAssignment{
			Shift: r.Shift.toDomain(),
			Assignment: &domain.Assignment{
				ID:         r.AssignmentID,
				ShiftID:    r.Shift.ID,
				EmployeeID: r.EmployeeID,
				RoleID:     deref(r.RoleID),
			},
		})
	}
	return result, nil
}

func (s *Store) AssignmentsFor(ctx context.Context, shiftIDs []string) ([]domain.Assignment, error) {
	if len(shiftIDs) == 0 {
		return []domain.Assignment{}, nil
	}

	db, cancel := s.query(ctx)
	defer cancel()

	var rows []assignment
	if err := db.Where("shift_id IN ?", shiftIDs).Order("shift_id").Find(&rows).Error; err != nil {
		return nil, err
	}

	assignments := make([]domain.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toDomain())
	}
	return assignments, nil
}

// AssignEmployee 为班次写入唯一的排班，已有排班时直接覆盖
func (s *Store) AssignEmployee(ctx context.Context, orgID string, a *domain.Assignment) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND org_id = ?", a.ShiftID, orgID).First(&shift{}).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("id = ?", a.EmployeeID).First(&employee{}).Error; err != nil {
			return notFoundAs(err, repository.ErrEmployeeNotFound)
		}

		var existing assignment
		err := tx.Where("shift_id = ?", a.ShiftID).First(&existing).Error
		switch {
		case err == nil:
			existing.EmployeeID = a.EmployeeID
			existing.RoleID = ptr(a.RoleID)
			a.ID = existing.ID
			return tx.Save(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			a.ID = uuid.NewString()
			return tx.Create(&assignment{ID: a.ID, ShiftID: a.ShiftID, EmployeeID: a.EmployeeID, RoleID: ptr(a.RoleID)}).Error
		default:
			return err
		}
	})
}

func (s *Store) UnassignShift(ctx context.Context, orgID, shiftID string) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND org_id = ?", shiftID, orgID).First(&shift{}).Error; err != nil {
			return translateError(err)
		}
		return tx.Where("shift_id = ?", shiftID).Delete(&assignment{}).Error
	})
}
