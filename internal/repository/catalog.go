package repository

import (
	"context"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

func (r *Repository) RolesFor(ctx context.Context, orgID string) ([]domain.Role, error) {
	query := `SELECT id, name, color, org_id FROM roles WHERE org_id = $1 ORDER BY name, id`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Color, &role.OrgID); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

func (r *Repository) AreasFor(ctx context.Context, orgID, locationID string) ([]domain.Area, error) {
	var c conditions
	c.add("org_id = $%d", orgID)
	c.addIf(locationID != "", "location_id = $%d", locationID)

	query := `SELECT id, name, color, location_id, org_id FROM areas ` + c.where() + ` ORDER BY name, id`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := make([]domain.Area, 0)
	for rows.Next() {
		var a domain.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.Color, &a.LocationID, &a.OrgID); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return areas, nil
}

// RequirementsFor 按插入顺序返回需求，覆盖结果的条目顺序与此一致
func (r *Repository) RequirementsFor(ctx context.Context, orgID, locationID, areaID string) ([]domain.StaffingRequirement, error) {
	var c conditions
	c.add("org_id = $%d", orgID)
	c.addIf(locationID != "", "location_id = $%d", locationID)
	c.addIf(areaID != "", "area_id = $%d", areaID)

	query := `
		SELECT id, area_id, day_of_week, role_id, count, location_id, org_id
		FROM requirements ` + c.where() + ` ORDER BY seq`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requirements := make([]domain.StaffingRequirement, 0)
	for rows.Next() {
		var req domain.StaffingRequirement
		dst := []any{&req.ID, &req.AreaID, &req.DayOfWeek, &req.RoleID, &req.Count, &req.LocationID, &req.OrgID}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requirements = append(requirements, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requirements, nil
}
