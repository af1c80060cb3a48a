package local

import (
	"context"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository"
	"gorm.io/gorm"
)

type employeeRow struct {
	ID               string
	UserID           string
	Name             string
	Email            string
	OrgID            string
	LocationID       string
	WeeklyHoursLimit *int
	RuleID           *string
	RuleValue        *int
}

func (s *Store) queryEmployees(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]domain.Employee, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var rows []employeeRow
	err := db.Table("employees e").
		Select("e.id, e.user_id, u.name, u.email, e.org_id, e.location_id, e.weekly_hours_limit, e.rule_id, r.value AS rule_value").
		Joins("JOIN users u ON u.id = e.user_id").
		Joins("LEFT JOIN rules r ON r.id = e.rule_id").
		Scopes(scope).
		Order("u.name, e.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	roleIDs := make(map[string][]string, len(rows))
	if len(ids) > 0 {
		var links []employeeRole
		if err := db.Where("employee_id IN ?", ids).Order("role_id").Find(&links).Error; err != nil {
			return nil, err
		}
		for _, link := range links {
			roleIDs[link.EmployeeID] = append(roleIDs[link.EmployeeID], link.RoleID)
		}
	}

	employees := make([]domain.Employee, 0, len(rows))
	for _, row := range rows {
		ids := roleIDs[row.ID]
		if ids == nil {
			ids = []string{}
		}
		employees = append(employees, domain.Employee{
			ID:               row.ID,
			UserID:           row.UserID,
			Name:             row.Name,
			Email:            row.Email,
			OrgID:            row.OrgID,
			LocationID:       row.LocationID,
			RoleIDs:          ids,
			WeeklyHoursLimit: row.WeeklyHoursLimit,
			RuleID:           deref(row.RuleID),
			RuleValue:        row.RuleValue,
		})
	}
	return employees, nil
}

func (s *Store) EmployeesFor(ctx context.Context, orgID, locationID string) ([]domain.Employee, error) {
	return s.queryEmployees(ctx, func(db *gorm.DB) *gorm.DB {
		db = db.Where("e.org_id = ?", orgID)
		if locationID != "" {
			db = db.Where("e.location_id = ?", locationID)
		}
		return db
	})
}

func (s *Store) EmployeesForUser(ctx context.Context, userID string) ([]domain.Employee, error) {
	return s.queryEmployees(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("e.user_id = ?", userID)
	})
}

func (s *Store) GetEmployee(ctx context.Context, orgID, id string) (*domain.Employee, error) {
	employees, err := s.queryEmployees(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("e.id = ? AND e.org_id = ?", id, orgID)
	})
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, repository.ErrNotFound
	}
	return &employees[0], nil
}
