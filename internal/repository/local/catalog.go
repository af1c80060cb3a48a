package local

import (
	"context"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

func (s *Store) RolesFor(ctx context.Context, orgID string) ([]domain.Role, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var rows []role
	if err := db.Where("org_id = ?", orgID).Order("name, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	roles := make([]domain.Role, 0, len(rows))
	for _, r := range rows {
		roles = append(roles, domain.Role{ID: r.ID, Name: r.Name, Color: r.Color, OrgID: r.OrgID})
	}
	return roles, nil
}

func (s *Store) AreasFor(ctx context.Context, orgID, locationID string) ([]domain.Area, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	db = db.Where("org_id = ?", orgID)
	if locationID != "" {
		db = db.Where("location_id = ?", locationID)
	}

	var rows []area
	if err := db.Order("name, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	areas := make([]domain.Area, 0, len(rows))
	for _, a := range rows {
		areas = append(areas, domain.Area{ID: a.ID, Name: a.Name, Color: a.Color, LocationID: a.LocationID, OrgID: a.OrgID})
	}
	return areas, nil
}

// RequirementsFor 按 rowid 即插入顺序返回需求
func (s *Store) RequirementsFor(ctx context.Context, orgID, locationID, areaID string) ([]domain.StaffingRequirement, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	db = db.Where("org_id = ?", orgID)
	if locationID != "" {
		db = db.Where("location_id = ?", locationID)
	}
	if areaID != "" {
		db = db.Where("area_id = ?", areaID)
	}

	var rows []requirement
	if err := db.Order("rowid").Find(&rows).Error; err != nil {
		return nil, err
	}

	requirements := make([]domain.StaffingRequirement, 0, len(rows))
	for _, r := range rows {
		requirements = append(requirements, domain.StaffingRequirement{
			ID:         r.ID,
			AreaID:     r.AreaID,
			DayOfWeek:  r.DayOfWeek,
			RoleID:     r.RoleID,
			Count:      r.Count,
			LocationID: r.LocationID,
			OrgID:      r.OrgID,
		})
	}
	return requirements, nil
}
