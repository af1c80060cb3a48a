package local

import (
	"time"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

// 表结构与 migrations 中的 Postgres 表保持一致，日期以 yyyy-MM-dd 文本保存

type organization struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (organization) TableName() string { return "organizations" }

type location struct {
	ID    string `gorm:"primaryKey"`
	Name  string `gorm:"not null"`
	OrgID string `gorm:"not null;index"`
}

func (location) TableName() string { return "locations" }

type user struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"not null;uniqueIndex"`
	Name         string `gorm:"not null"`
	Role         string `gorm:"not null"`
	OrgID        *string
	PasswordHash string `gorm:"not null;default:''"`
}

func (user) TableName() string { return "users" }

type role struct {
	ID    string `gorm:"primaryKey"`
	Name  string `gorm:"not null"`
	Color string `gorm:"not null"`
	OrgID string `gorm:"not null;index"`
}

func (role) TableName() string { return "roles" }

type rule struct {
	ID    string `gorm:"primaryKey"`
	Name  string `gorm:"not null"`
	Type  string `gorm:"not null"`
	Value int    `gorm:"not null"`
	OrgID string `gorm:"not null;index"`
}

func (rule) TableName() string { return "rules" }

type area struct {
	ID         string `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Color      string `gorm:"not null"`
	LocationID string `gorm:"not null;index"`
	OrgID      string `gorm:"not null;index"`
}

func (area) TableName() string { return "areas" }

type employee struct {
	ID               string `gorm:"primaryKey"`
	UserID           string `gorm:"not null;index"`
	OrgID            string `gorm:"not null;index"`
	LocationID       string `gorm:"not null;index"`
	WeeklyHoursLimit *int
	RuleID           *string
}

func (employee) TableName() string { return "employees" }

type employeeRole struct {
	EmployeeID string `gorm:"primaryKey"`
	RoleID     string `gorm:"primaryKey"`
}

func (employeeRole) TableName() string { return "employee_roles" }

type shift struct {
	ID         string `gorm:"primaryKey"`
	AreaID     string `gorm:"not null;index"`
	Date       string `gorm:"not null;index"`
	StartTime  string `gorm:"not null"`
	EndTime    string `gorm:"not null"`
	LocationID string `gorm:"not null"`
	OrgID      string `gorm:"not null;index"`
}

func (shift) TableName() string { return "shifts" }

func (s shift) toDomain() domain.Shift {
	return domain.Shift{
		ID:         s.ID,
		AreaID:     s.AreaID,
		Date:       s.Date,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		LocationID: s.LocationID,
		OrgID:      s.OrgID,
	}
}

func fromShift(s domain.Shift) shift {
	return shift{
		ID:         s.ID,
		AreaID:     s.AreaID,
		Date:       s.Date,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		LocationID: s.LocationID,
		OrgID:      s.OrgID,
	}
}

type assignment struct {
	ID         string `gorm:"primaryKey"`
	ShiftID    string `gorm:"not null;uniqueIndex"`
	EmployeeID string `gorm:"not null;index"`
	RoleID     *string
}

func (assignment) TableName() string { return "assignments" }

func (a assignment) toDomain() domain.Assignment {
	return domain.Assignment{ID: a.ID, ShiftID: a.ShiftID, EmployeeID: a.EmployeeID, RoleID: deref(a.RoleID)}
}

type requirement struct {
	ID         string `gorm:"primaryKey"`
	AreaID     string `gorm:"not null;index"`
	DayOfWeek  string `gorm:"not null"`
	RoleID     string `gorm:"not null"`
	Count      int    `gorm:"not null"`
	LocationID string `gorm:"not null"`
	OrgID      string `gorm:"not null;index"`
}

func (requirement) TableName() string { return "requirements" }

type timeOffRequest struct {
	ID         string `gorm:"primaryKey"`
	EmployeeID string `gorm:"not null;index"`
	Date       string `gorm:"not null;index"`
	IsFullDay  bool   `gorm:"not null"`
	StartTime  *string
	EndTime    *string
	Reason     string `gorm:"not null;default:''"`
	Status     string `gorm:"not null;default:'pending'"`
	OrgID      string `gorm:"not null;index"`
	CreatedAt  time.Time
}

func (timeOffRequest) TableName() string { return "time_off_requests" }

func (t timeOffRequest) toDomain() domain.TimeOffRequest {
	return domain.TimeOffRequest{
		ID:         t.ID,
		EmployeeID: t.EmployeeID,
		Date:       t.Date,
		IsFullDay:  t.IsFullDay,
		StartTime:  deref(t.StartTime),
		EndTime:    deref(t.EndTime),
		Reason:     t.Reason,
		Status:     domain.TimeOffStatus(t.Status),
		OrgID:      t.OrgID,
	}
}

func fromTimeOff(t domain.TimeOffRequest) timeOffRequest {
	return timeOffRequest{
		ID:         t.ID,
		EmployeeID: t.EmployeeID,
		Date:       t.Date,
		IsFullDay:  t.IsFullDay,
		StartTime:  ptr(t.StartTime),
		EndTime:    ptr(t.EndTime),
		Reason:     t.Reason,
		Status:     string(t.Status),
		OrgID:      t.OrgID,
	}
}

func allModels() []any {
	return []any{
		&organization{}, &location{}, &user{}, &role{}, &rule{}, &area{},
		&employee{}, &employeeRole{}, &shift{}, &assignment{}, &requirement{}, &timeOffRequest{},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
