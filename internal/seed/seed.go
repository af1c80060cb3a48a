package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const DemoOrgID = "org-1"

// HashPassword 生成演示账号使用的密码哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func dayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

func limit(hours int) *int {
	return &hours
}

// Demo 返回演示组织的完整数据，班次和请假落在 weekStart 所在的一周内。
// 每次调用都会构造新的数据。
func Demo(passwordHash string, weekStart time.Time) *repository.Dataset {
	ds := &repository.Dataset{
		Organizations: []domain.Organization{{ID: DemoOrgID, Name: "Demo Org"}},
		Locations: []domain.Location{
			{ID: "loc-1", Name: "Main Ship", OrgID: DemoOrgID},
			{ID: "loc-2", Name: "Second Ship", OrgID: DemoOrgID},
		},
		Users: []domain.User{
			{ID: "user-manager", Email: "manager@demo.com", Name: "Alice Manager", Role: domain.UserRoleManager, OrgID: DemoOrgID, PasswordHash: passwordHash},
			{ID: "user-employee", Email: "employee@demo.com", Name: "Bob Employee", Role: domain.UserRoleEmployee, OrgID: DemoOrgID, PasswordHash: passwordHash},
			{ID: "user-employee-2", Email: "employee2@demo.com", Name: "Charlie Employee", Role: domain.UserRoleEmployee, OrgID: DemoOrgID, PasswordHash: passwordHash},
		},
		Roles: []domain.Role{
			{ID: "role-1", Name: "Server", Color: "blue", OrgID: DemoOrgID},
			{ID: "role-2", Name: "Cook", Color: "red", OrgID: DemoOrgID},
			{ID: "role-3", Name: "Bartender", Color: "green", OrgID: DemoOrgID},
		},
		Rules: []domain.Rule{
			{ID: "rule-1", Name: "Standard Full Time", Type: domain.RuleTypeMaxHours, Value: 40, OrgID: DemoOrgID},
			{ID: "rule-2", Name: "Part Time Limit", Type: domain.RuleTypeMaxHours, Value: 20, OrgID: DemoOrgID},
		},
		Areas: []domain.Area{
			{ID: "area-2", Name: "Patio", Color: "green", LocationID: "loc-1", OrgID: DemoOrgID},
			{ID: "area-3", Name: "Kitchen", Color: "red", LocationID: "loc-1", OrgID: DemoOrgID},
			{ID: "area-4", Name: "Deck", Color: "orange", LocationID: "loc-2", OrgID: DemoOrgID},
			{ID: "area-5", Name: "Galley", Color: "purple", LocationID: "loc-2", OrgID: DemoOrgID},
		},
		Employees: []domain.Employee{
			{ID: "emp-1", UserID: "user-manager", OrgID: DemoOrgID, LocationID: "loc-1", RoleIDs: []string{"role-1"}, WeeklyHoursLimit: limit(40), RuleID: "rule-1"},
			{ID: "emp-2", UserID: "user-employee", OrgID: DemoOrgID, LocationID: "loc-1", RoleIDs: []string{"role-1", "role-2"}, WeeklyHoursLimit: limit(30)},
			{ID: "emp-3", UserID: "user-employee-2", OrgID: DemoOrgID, LocationID: "loc-2", RoleIDs: []string{"role-2", "role-3"}, WeeklyHoursLimit: limit(40)},
		},
	}

	for i := range 7 {
		day := weekStart.AddDate(0, 0, i)
		date := day.Format(time.DateOnly)

		// 露台每天一个白班，周一到周四由 Bob 负责，这会使他超过每周 30 小时的上限
		patio := domain.Shift{ID: "shift-patio-" + date, AreaID: "area-2", Date: date, StartTime: "10:00", EndTime: "18:00", LocationID: "loc-1", OrgID: DemoOrgID}
		ds.Shifts = append(ds.Shifts, patio)
		if i < 4 {
			ds.Assignments = append(ds.Assignments, domain.Assignment{ID: "assign-patio-" + date, ShiftID: patio.ID, EmployeeID: "emp-2", RoleID: "role-1"})
		}
		ds.Requirements = append(ds.Requirements, domain.StaffingRequirement{
			ID: "req-patio-" + dayName(day), AreaID: "area-2", DayOfWeek: dayName(day), RoleID: "role-1", Count: 1, LocationID: "loc-1", OrgID: DemoOrgID,
		})

		// 周五和周六厨房有跨越午夜的夜班，需要两名厨师
		if day.Weekday() == time.Friday || day.Weekday() == time.Saturday {
			kitchen := domain.Shift{ID: "shift-kitchen-" + date, AreaID: "area-3", Date: date, StartTime: "17:00", EndTime: "01:00", LocationID: "loc-1", OrgID: DemoOrgID}
			ds.Shifts = append(ds.Shifts, kitchen)
			ds.Assignments = append(ds.Assignments, domain.Assignment{ID: "assign-kitchen-" + date, ShiftID: kitchen.ID, EmployeeID: "emp-2", RoleID: "role-2"})
			ds.Requirements = append(ds.Requirements, domain.StaffingRequirement{
				ID: "req-kitchen-" + dayName(day), AreaID: "area-3", DayOfWeek: dayName(day), RoleID: "role-2", Count: 2, LocationID: "loc-1", OrgID: DemoOrgID,
			})
		}

		// 工作日甲板有一个早班
		if i < 5 {
			deck := domain.Shift{ID: "shift-deck-" + date, AreaID: "area-4", Date: date, StartTime: "09:00", EndTime: "15:00", LocationID: "loc-2", OrgID: DemoOrgID}
			ds.Shifts = append(ds.Shifts, deck)
			ds.Assignments = append(ds.Assignments, domain.Assignment{ID: "assign-deck-" + date, ShiftID: deck.ID, EmployeeID: "emp-3", RoleID: "role-3"})
			ds.Requirements = append(ds.Requirements, domain.StaffingRequirement{
				ID: "req-deck-" + dayName(day), AreaID: "area-4", DayOfWeek: dayName(day), RoleID: "role-3", Count: 1, LocationID: "loc-2", OrgID: DemoOrgID,
			})
		}
	}

	wednesday := weekStart.AddDate(0, 0, 2).Format(time.DateOnly)
	sunday := weekStart.AddDate(0, 0, 6).Format(time.DateOnly)
	ds.TimeOff = []domain.TimeOffRequest{
		{ID: "timeoff-" + wednesday + "-emp-3", EmployeeID: "emp-3", Date: wednesday, IsFullDay: true, Reason: "Doctor appointment", Status: domain.TimeOffApproved, OrgID: DemoOrgID},
		{ID: "timeoff-" + sunday + "-emp-2", EmployeeID: "emp-2", Date: sunday, StartTime: "12:00", EndTime: "16:00", Reason: "Family event", Status: domain.TimeOffPending, OrgID: DemoOrgID},
	}

	return ds
}

var weeklyLimits = []*int{nil, limit(20), limit(30), limit(40)}

// RandomEmployees 在地点下生成 n 个随机员工及其账号，每个员工至少具备一个岗位
func RandomEmployees(orgID, locationID string, roles []domain.Role, n int, passwordHash, emailDomain string) *repository.Dataset {
	roleIDs := make([]string, 0, len(roles))
	for _, r := range roles {
		roleIDs = append(roleIDs, r.ID)
	}

	ds := &repository.Dataset{}
	for range n {
		name := utils.GenerateRandomChineseName()
		user := domain.User{
			ID:           uuid.NewString(),
			Email:        fmt.Sprintf("%s@%s", utils.GenerateEmailLocalPart(name), emailDomain),
			Name:         name,
			Role:         domain.UserRoleEmployee,
			OrgID:        orgID,
			PasswordHash: passwordHash,
		}
		ds.Users = append(ds.Users, user)
		ds.Employees = append(ds.Employees, domain.Employee{
			ID:               uuid.NewString(),
			UserID:           user.ID,
			OrgID:            orgID,
			LocationID:       locationID,
			RoleIDs:          utils.GenerateRandomSubset(roleIDs),
			WeeklyHoursLimit: weeklyLimits[rand.Intn(len(weeklyLimits))],
		})
	}
	return ds
}

// RandomWeek 为每个区域的每一天生成 perDay 个随机班次，大约三分之二的班次会排给同一地点的员工
func RandomWeek(orgID string, areas []domain.Area, employees []domain.Employee, weekStart time.Time, perDay int) *repository.Dataset {
	byLocation := make(map[string][]domain.Employee)
	for _, e := range employees {
		if len(e.RoleIDs) > 0 {
			byLocation[e.LocationID] = append(byLocation[e.LocationID], e)
		}
	}

	ds := &repository.Dataset{}
	for i := range 7 {
		date := weekStart.AddDate(0, 0, i).Format(time.DateOnly)
		for _, area := range areas {
			for range perDay {
				start, end := utils.GenerateRandomShiftTimes()
				shift := domain.Shift{
					ID:         uuid.NewString(),
					AreaID:     area.ID,
					Date:       date,
					StartTime:  start,
					EndTime:    end,
					LocationID: area.LocationID,
					OrgID:      orgID,
				}
				ds.Shifts = append(ds.Shifts, shift)

				candidates := byLocation[area.LocationID]
				if len(candidates) == 0 || rand.Intn(3) == 0 {
					continue
				}
				e := candidates[rand.Intn(len(candidates))]
				ds.Assignments = append(ds.Assignments, domain.Assignment{
					ID:         uuid.NewString(),
					ShiftID:    shift.ID,
					EmployeeID: e.ID,
					RoleID:     e.RoleIDs[rand.Intn(len(e.RoleIDs))],
				})
			}
		}
	}
	return ds
}

var timeOffStatuses = []domain.TimeOffStatus{domain.TimeOffPending, domain.TimeOffApproved, domain.TimeOffRejected}

var timeOffReasons = []string{"看病", "家里有事", "考试", "休息", ""}

// RandomTimeOff 在 weekStart 所在的一周内生成 n 条随机请假，非全天请假不会跨越午夜
func RandomTimeOff(orgID string, employees []domain.Employee, weekStart time.Time, n int) *repository.Dataset {
	ds := &repository.Dataset{}
	if len(employees) == 0 {
		return ds
	}

	for range n {
		e := employees[rand.Intn(len(employees))]
		request := domain.TimeOffRequest{
			ID:         uuid.NewString(),
			EmployeeID: e.ID,
			Date:       weekStart.AddDate(0, 0, rand.Intn(7)).Format(time.DateOnly),
			IsFullDay:  rand.Intn(2) == 0,
			Reason:     timeOffReasons[rand.Intn(len(timeOffReasons))],
			Status:     timeOffStatuses[rand.Intn(len(timeOffStatuses))],
			OrgID:      orgID,
		}
		if !request.IsFullDay {
			startHour := 8 + rand.Intn(8)
			request.StartTime = fmt.Sprintf("%02d:00", startHour)
			request.EndTime = fmt.Sprintf("%02d:00", startHour+1+rand.Intn(4))
		}
		ds.TimeOff = append(ds.TimeOff, request)
	}
	return ds
}
