package local

import (
	"context"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsertDataset 在同一个事务中写入数据，主键已存在的记录会被跳过
func (s *Store) InsertDataset(ctx context.Context, ds *repository.Dataset) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		tx = tx.Clauses(clause.OnConflict{DoNothing: true}).Session(&gorm.Session{})

		for _, o := range ds.Organizations {
			if err := tx.Create(&organization{ID: o.ID, Name: o.Name}).Error; err != nil {
				return err
			}
		}
		for _, l := range ds.Locations {
			if err := tx.Create(&location{ID: l.ID, Name: l.Name, OrgID: l.OrgID}).Error; err != nil {
				return err
			}
		}
		for _, u := range ds.Users {
			row := user{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), OrgID: ptr(u.OrgID), PasswordHash: u.PasswordHash}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, r := range ds.Roles {
			if err := tx.Create(&role{ID: r.ID, Name: r.Name, Color: r.Color, OrgID: r.OrgID}).Error; err != nil {
				return err
			}
		}
		for _, r := range ds.Rules {
			if err := tx.Create(&rule{ID: r.ID, Name: r.Name, Type: r.Type, Value: r.Value, OrgID: r.OrgID}).Error; err != nil {
				return err
			}
		}
		for _, a := range ds.Areas {
			row := area{ID: a.ID, Name: a.Name, Color: a.Color, LocationID: a.LocationID, OrgID: a.OrgID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, e := range ds.Employees {
			row := employee{ID: e.ID, UserID: e.UserID, OrgID: e.OrgID, LocationID: e.LocationID, WeeklyHoursLimit: e.WeeklyHoursLimit, RuleID: ptr(e.RuleID)}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for _, roleID := range e.RoleIDs {
				if err := tx.Create(&employeeRole{EmployeeID: e.ID, RoleID: roleID}).Error; err != nil {
					return err
				}
			}
		}
		for _, r := range ds.Requirements {
			row := requirement{ID: r.ID, AreaID: r.AreaID, DayOfWeek: r.DayOfWeek, RoleID: r.RoleID, Count: r.Count, LocationID: r.LocationID, OrgID: r.OrgID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, sh := range ds.Shifts {
			row := fromShift(sh)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, a := range ds.Assignments {
			row := assignment{ID: a.ID, ShiftID: a.ShiftID, EmployeeID: a.EmployeeID, RoleID: ptr(a.RoleID)}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, t := range ds.TimeOff {
			row := fromTimeOff(t)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
