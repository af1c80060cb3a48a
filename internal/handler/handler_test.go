package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/clock"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/config"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/query"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository/local"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/scheduler"
)

const testSecret = "test-secret"

var (
	_ Store = (*repository.Repository)(nil)
	_ Store = (*local.Store)(nil)
)

var (
	manager = &domain.User{ID: "u-m", Email: "boss@example.com", Name: "Boss", Role: domain.UserRoleManager, OrgID: "org-1"}
	alice   = &domain.User{ID: "u-1", Email: "alice@example.com", Name: "Alice", Role: domain.UserRoleEmployee, OrgID: "org-1"}
	bob     = &domain.User{ID: "u-2", Email: "bob@example.com", Name: "Bob", Role: domain.UserRoleEmployee, OrgID: "org-1"}
)

type fakeMail struct {
	mu   sync.Mutex
	sent []domain.MailMessage
	err  error
}

func (f *fakeMail) Publish(ctx context.Context, msg domain.MailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeCache struct {
	mu            sync.Mutex
	entries       map[string]domain.DashboardSummary
	gets, sets    int
	invalidations int
}

func (f *fakeCache) Get(ctx context.Context, orgID, date string) (*domain.DashboardSummary, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	s, ok := f.entries[orgID+"/"+date]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (f *fakeCache) Set(ctx context.Context, orgID, date string, summary *domain.DashboardSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	f.entries[orgID+"/"+date] = *summary
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, orgID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
	for k := range f.entries {
		delete(f.entries, k)
	}
	return nil
}

type testEnv struct {
	handler *Handler
	store   *local.Store
	mail    *fakeMail
	cache   *fakeCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.JWT.CookieName = "__qwikshifts_token"
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "handler.db")
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 5

	store, err := local.Open(cfg)
	if err != nil {
		t.Fatalf("打开数据库失败: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ds := &repository.Dataset{
		Organizations: []domain.Organization{{ID: "org-1", Name: "Cafe"}},
		Locations:     []domain.Location{{ID: "loc-1", Name: "Main", OrgID: "org-1"}},
		Users:         []domain.User{*manager, *alice, *bob},
		Roles: []domain.Role{
			{ID: "r-barista", Name: "Barista", Color: "#aa0000", OrgID: "org-1"},
			{ID: "r-cashier", Name: "Cashier", Color: "#00aa00", OrgID: "org-1"},
		},
		Areas: []domain.Area{{ID: "a-1", Name: "Front", Color: "#0000aa", LocationID: "loc-1", OrgID: "org-1"}},
		Employees: []domain.Employee{
			{ID: "e-1", UserID: "u-1", OrgID: "org-1", LocationID: "loc-1", RoleIDs: []string{"r-barista"}},
			{ID: "e-2", UserID: "u-2", OrgID: "org-1", LocationID: "loc-1", RoleIDs: []string{"r-barista", "r-cashier"}},
		},
		Requirements: []domain.StaffingRequirement{
			{ID: "req-1", AreaID: "a-1", DayOfWeek: "thursday", RoleID: "r-barista", Count: 1, LocationID: "loc-1", OrgID: "org-1"},
		},
		Shifts: []domain.Shift{
			{ID: "s-1", AreaID: "a-1", Date: "2025-06-12", StartTime: "09:00", EndTime: "17:00", LocationID: "loc-1", OrgID: "org-1"},
			{ID: "s-2", AreaID: "a-1", Date: "2025-06-12", StartTime: "12:00", EndTime: "20:00", LocationID: "loc-1", OrgID: "org-1"},
		},
		Assignments: []domain.Assignment{{ID: "as-1", ShiftID: "s-1", EmployeeID: "e-1", RoleID: "r-barista"}},
		TimeOff: []domain.TimeOffRequest{
			{ID: "t-1", EmployeeID: "e-2", Date: "2025-06-12", IsFullDay: true, Reason: "看病", Status: domain.TimeOffApproved, OrgID: "org-1"},
			{ID: "t-2", EmployeeID: "e-1", Date: "2025-06-20", IsFullDay: true, Status: domain.TimeOffPending, OrgID: "org-1"},
		},
	}
	if err := store.InsertDataset(context.Background(), ds); err != nil {
		t.Fatalf("写入数据失败: %v", err)
	}

	now := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	service := query.NewService(store, clock.Fake(now), scheduler.DefaultPolicy(), time.UTC)

	mail := &fakeMail{}
	cache := &fakeCache{entries: map[string]domain.DashboardSummary{}}
	h, err := NewHandler(cfg, store, service, mail, cache)
	if err != nil {
		t.Fatalf("创建 handler 失败: %v", err)
	}
	h.RegisterRoutes()

	return &testEnv{handler: h, store: store, mail: mail, cache: cache}
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (env *testEnv) do(t *testing.T, method, target string, body any, user *domain.User) testResponse {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if user != nil {
		token, err := IssueToken(testSecret, user, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.handler.Mux.ServeHTTP(rec, req)

	var resp testResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应不是合法的 JSON (%d): %s", rec.Code, rec.Body.String())
	}
	return resp
}

func decodeData(t *testing.T, resp testResponse, v any) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, v); err != nil {
		t.Fatalf("无法解析 data: %v (%s)", err, resp.Data)
	}
}

func mustSucceed(t *testing.T, resp testResponse) {
	t.Helper()
	if !resp.Success {
		t.Fatalf("请求失败: %s", resp.Message)
	}
}

func TestAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/schedule/week", nil, nil)
	if resp.Success || resp.Message != "用户未登录" {
		t.Errorf("未携带令牌时应提示未登录，实际为 %+v", resp)
	}

	req := httptest.NewRequest(http.MethodGet, "/schedule/week", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	env.handler.Mux.ServeHTTP(rec, req)
	if !bytes.Contains(rec.Body.Bytes(), []byte("无效的令牌")) {
		t.Errorf("非法令牌应被拒绝，实际为 %s", rec.Body.String())
	}

	token, err := IssueToken(testSecret, alice, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodGet, "/schedule/week", nil)
	req.AddCookie(&http.Cookie{Name: "__qwikshifts_token", Value: token})
	rec = httptest.NewRecorder()
	env.handler.Mux.ServeHTTP(rec, req)
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"success":true`)) {
		t.Errorf("cookie 中的令牌应被接受，实际为 %s", rec.Body.String())
	}

	forged, err := IssueToken("other-secret", manager, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodGet, "/schedule/week", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec = httptest.NewRecorder()
	env.handler.Mux.ServeHTTP(rec, req)
	if !bytes.Contains(rec.Body.Bytes(), []byte("无效的令牌")) {
		t.Errorf("其他密钥签发的令牌应被拒绝，实际为 %s", rec.Body.String())
	}
}

func TestManagerOnlyRoutes(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/dashboard/stats", "/employees/hours", "/time-off"} {
		resp := env.do(t, http.MethodGet, target, nil, alice)
		if resp.Success || resp.Message != "权限不足" {
			t.Errorf("%s 应只允许主管访问，实际为 %+v", target, resp)
		}
	}
}

func TestWeekView(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/schedule/week?from=2025-06-09&to=2025-06-15", "/schedule/week"} {
		resp := env.do(t, http.MethodGet, target, nil, manager)
		mustSucceed(t, resp)

		var shifts []domain.ShiftWithAssignment
		decodeData(t, resp, &shifts)
		if len(shifts) != 2 {
			t.Fatalf("%s: 期望 2 个班次，实际为 %d", target, len(shifts))
		}
		if shifts[0].ID != "s-1" || shifts[0].Assignment == nil || shifts[0].Assignment.EmployeeID != "e-1" {
			t.Errorf("%s: s-1 应已排给 e-1: %+v", target, shifts[0])
		}
		if shifts[1].Assignment != nil {
			t.Errorf("%s: s-2 不应有排班: %+v", target, shifts[1].Assignment)
		}
	}

	resp := env.do(t, http.MethodGet, "/schedule/week?from=2025-06-15&to=2025-06-09", nil, manager)
	if resp.Success {
		t.Error("开始日期晚于结束日期时应报错")
	}
}

func TestDayCoverage(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/schedule/coverage?areaId=a-1&date=2025-06-12", nil, alice)
	mustSucceed(t, resp)

	var coverage domain.Coverage
	decodeData(t, resp, &coverage)
	if !coverage.Met || !coverage.HasRequirements || len(coverage.Items) != 1 {
		t.Fatalf("覆盖情况不正确: %+v", coverage)
	}
	if item := coverage.Items[0]; item.RoleName != "Barista" || item.Required != 1 || item.Assigned != 1 {
		t.Errorf("覆盖条目不正确: %+v", item)
	}

	resp = env.do(t, http.MethodGet, "/schedule/coverage?areaId=a-1&date=12-06-2025", nil, alice)
	if resp.Success || resp.Message == "" {
		t.Errorf("非法日期应返回校验错误，实际为 %+v", resp)
	}
}

func TestCoverageGrid(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/schedule/coverage/grid?locationId=loc-1&from=2025-06-12&to=2025-06-19", nil, manager)
	mustSucceed(t, resp)

	var grid domain.CoverageGrid
	decodeData(t, resp, &grid)
	if len(grid.Cells) != 8 {
		t.Fatalf("期望 8 个单元格，实际为 %d", len(grid.Cells))
	}
	if len(grid.UnderstaffedDays) != 1 || grid.UnderstaffedDays[0] != "2025-06-19" {
		t.Errorf("只有 2025-06-19 应人手不足，实际为 %v", grid.UnderstaffedDays)
	}

	resp = env.do(t, http.MethodGet, "/schedule/coverage/grid?from=2025-01-01&to=2025-06-12", nil, manager)
	if resp.Success || !bytes.Contains([]byte(resp.Message), []byte("62")) {
		t.Errorf("超过 62 天的范围应被拒绝，实际为 %+v", resp)
	}
}

func TestDayLayout(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/schedule/layout?areaId=a-1&date=2025-06-12", nil, alice)
	mustSucceed(t, resp)

	var lanes map[string]domain.Lane
	decodeData(t, resp, &lanes)
	if lanes["s-1"] != (domain.Lane{LaneIndex: 0, LaneCount: 2}) || lanes["s-2"] != (domain.Lane{LaneIndex: 1, LaneCount: 2}) {
		t.Errorf("重叠的班次应分在两条泳道: %+v", lanes)
	}
}

func TestAssignRequiresConfirmOnConflict(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{"shiftId": "s-2", "employeeId": "e-2"}
	resp := env.do(t, http.MethodPost, "/assignments/assign", body, manager)
	if resp.Success {
		t.Fatal("存在请假冲突时未确认不应排班")
	}
	var conflict domain.TimeOffConflict
	decodeData(t, resp, &conflict)
	if conflict.RequestID != "t-1" || !conflict.IsFullDay {
		t.Errorf("冲突信息不正确: %+v", conflict)
	}
	if len(env.mail.sent) != 0 {
		t.Errorf("未确认时不应发送邮件: %+v", env.mail.sent)
	}

	body["confirm"] = true
	resp = env.do(t, http.MethodPost, "/assignments/assign", body, manager)
	mustSucceed(t, resp)

	if len(env.mail.sent) != 1 {
		t.Fatalf("确认冲突后应发送一封邮件，实际为 %d", len(env.mail.sent))
	}
	if msg := env.mail.sent[0]; msg.Type != domain.MailTypeAssignmentConflict || msg.To != "bob@example.com" {
		t.Errorf("邮件不正确: %+v", msg)
	}
	if env.cache.invalidations != 1 {
		t.Errorf("排班后应清除仪表盘缓存，实际清除 %d 次", env.cache.invalidations)
	}

	assignments, err := env.store.AssignmentsFor(context.Background(), []string{"s-2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(assignments) != 1 || assignments[0].EmployeeID != "e-2" {
		t.Errorf("排班未保存: %+v", assignments)
	}
}

func TestAssignValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/assignments/assign", map[string]any{"shiftId": "s-2", "employeeId": "e-1", "roleId": "r-cashier"}, manager)
	if resp.Success || resp.Message != "员工不具备该岗位" {
		t.Errorf("员工不具备的岗位应被拒绝，实际为 %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/assignments/assign", map[string]any{"shiftId": "s-404", "employeeId": "e-1"}, manager)
	if resp.Success || resp.Message != "班次不存在" {
		t.Errorf("不存在的班次应被拒绝，实际为 %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/assignments/assign", map[string]any{"shiftId": "s-2"}, manager)
	if resp.Success {
		t.Error("缺少员工时应返回校验错误")
	}

	resp = env.do(t, http.MethodPost, "/assignments/assign", map[string]any{"shiftId": "s-2", "employeeId": "e-1"}, manager)
	mustSucceed(t, resp)
	if len(env.mail.sent) != 0 {
		t.Errorf("没有冲突时不应发送邮件: %+v", env.mail.sent)
	}

	resp = env.do(t, http.MethodPost, "/assignments/unassign", map[string]any{"shiftId": "s-2"}, manager)
	mustSucceed(t, resp)
}

func TestCheckConflict(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/assignments/conflict?employeeId=e-2&date=2025-06-12", nil, manager)
	mustSucceed(t, resp)
	var conflict *domain.TimeOffConflict
	decodeData(t, resp, &conflict)
	if conflict == nil || conflict.Reason != "看病" {
		t.Errorf("应返回请假冲突: %+v", conflict)
	}

	resp = env.do(t, http.MethodGet, "/assignments/conflict?employeeId=e-1&date=2025-06-12", nil, manager)
	mustSucceed(t, resp)
	if string(resp.Data) != "null" {
		t.Errorf("没有冲突时 data 应为 null，实际为 %s", resp.Data)
	}
}

func TestShiftLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/schedule/shifts", map[string]any{
		"areaId":     "a-1",
		"locationId": "loc-1",
		"date":       "2025-06-13",
		"startTime":  "22:00",
		"endTime":    "02:00",
		"employeeId": "e-1",
		"roleId":     "r-barista",
	}, manager)
	mustSucceed(t, resp)

	var created domain.ShiftWithAssignment
	decodeData(t, resp, &created)
	if created.ID == "" || created.Assignment == nil || created.Assignment.ShiftID != created.ID {
		t.Fatalf("创建结果不正确: %+v", created)
	}

	resp = env.do(t, http.MethodPatch, "/schedule/shifts/"+created.ID, map[string]any{"startTime": "21:00", "endTime": "21:00"}, manager)
	if resp.Success {
		t.Error("开始时间和结束时间相同时应报错")
	}

	resp = env.do(t, http.MethodPatch, "/schedule/shifts/"+created.ID, map[string]any{"startTime": "21:00", "endTime": "01:00"}, manager)
	mustSucceed(t, resp)
	var updated domain.Shift
	decodeData(t, resp, &updated)
	if updated.StartTime != "21:00" || updated.EndTime != "01:00" {
		t.Errorf("更新结果不正确: %+v", updated)
	}

	resp = env.do(t, http.MethodDelete, "/schedule/shifts/"+created.ID, nil, manager)
	mustSucceed(t, resp)

	resp = env.do(t, http.MethodDelete, "/schedule/shifts/"+created.ID, nil, manager)
	if resp.Success || resp.Message != "班次不存在" {
		t.Errorf("重复删除应提示班次不存在，实际为 %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/schedule/shifts", map[string]any{
		"areaId":     "a-1",
		"locationId": "loc-1",
		"date":       "2025-06-13",
		"startTime":  "9:00",
		"endTime":    "17:00",
	}, manager)
	if resp.Success {
		t.Error("格式错误的时间应被拒绝")
	}

	if env.cache.invalidations != 3 {
		t.Errorf("创建、更新、删除各清除一次缓存，实际为 %d", env.cache.invalidations)
	}
}

func TestCreateShiftRejectsAreaFromOtherLocation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/schedule/shifts", map[string]any{
		"areaId":     "a-1",
		"locationId": "loc-ghost",
		"date":       "2025-06-19",
		"startTime":  "09:00",
		"endTime":    "17:00",
		"employeeId": "e-1",
	}, manager)
	if resp.Success || resp.Message != "区域不存在" {
		t.Fatalf("区域与地点不一致时应拒绝创建，实际为 %+v", resp)
	}

	resp = env.do(t, http.MethodGet, "/schedule/coverage?areaId=a-1&date=2025-06-19", nil, manager)
	mustSucceed(t, resp)
	var coverage domain.Coverage
	decodeData(t, resp, &coverage)
	if len(coverage.Items) != 1 || coverage.Items[0].Assigned != 0 || coverage.Met {
		t.Errorf("被拒绝的班次不应计入覆盖情况: %+v", coverage)
	}
	if env.cache.invalidations != 0 {
		t.Errorf("创建失败时不应清除缓存，实际清除 %d 次", env.cache.invalidations)
	}
}

func TestTimeOffFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/time-off", map[string]any{
		"date":      "2025-06-16",
		"isFullDay": false,
		"startTime": "09:00",
		"endTime":   "12:00",
		"reason":    "家里有事",
	}, alice)
	mustSucceed(t, resp)

	var created domain.TimeOffRequest
	decodeData(t, resp, &created)
	if created.EmployeeID != "e-1" || created.Status != domain.TimeOffPending {
		t.Fatalf("请假申请不正确: %+v", created)
	}

	resp = env.do(t, http.MethodGet, "/time-off/my", nil, alice)
	mustSucceed(t, resp)
	var mine []domain.TimeOffRequest
	decodeData(t, resp, &mine)
	if len(mine) != 2 {
		t.Errorf("Alice 应有 2 条请假记录，实际为 %d", len(mine))
	}

	resp = env.do(t, http.MethodPut, "/time-off/"+created.ID+"/status", map[string]any{"status": "approved"}, manager)
	mustSucceed(t, resp)

	if len(env.mail.sent) != 1 {
		t.Fatalf("审批后应发送一封邮件，实际为 %d", len(env.mail.sent))
	}
	msg := env.mail.sent[0]
	data, ok := msg.Data.(domain.TimeOffDecisionMailData)
	if msg.Type != domain.MailTypeTimeOffDecision || msg.To != "alice@example.com" || !ok || data.Status != domain.TimeOffApproved {
		t.Errorf("审批邮件不正确: %+v", msg)
	}

	resp = env.do(t, http.MethodPut, "/time-off/"+created.ID+"/status", map[string]any{"status": "maybe"}, manager)
	if resp.Success {
		t.Error("非法的状态应被拒绝")
	}

	resp = env.do(t, http.MethodPut, "/time-off/t-404/status", map[string]any{"status": "rejected"}, manager)
	if resp.Success || resp.Message != "请假申请不存在" {
		t.Errorf("不存在的请假应提示不存在，实际为 %+v", resp)
	}

	resp = env.do(t, http.MethodGet, "/time-off", nil, manager)
	mustSucceed(t, resp)
	var all []domain.TimeOffRequestWithEmployee
	decodeData(t, resp, &all)
	if len(all) != 3 {
		t.Errorf("组织内应有 3 条请假记录，实际为 %d", len(all))
	}
}

func TestTimeOffOwnership(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{"employeeId": "e-2", "date": "2025-06-16", "isFullDay": true}
	resp := env.do(t, http.MethodPost, "/time-off", body, alice)
	if resp.Success || resp.Message != "权限不足" {
		t.Errorf("员工不能为他人请假，实际为 %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/time-off", body, manager)
	mustSucceed(t, resp)

	resp = env.do(t, http.MethodPost, "/time-off", map[string]any{"date": "2025-06-16", "isFullDay": true}, manager)
	if resp.Success || resp.Message != "当前用户没有员工档案" {
		t.Errorf("没有员工档案的用户需要指定员工，实际为 %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/time-off", map[string]any{"date": "2025-06-16", "isFullDay": false, "startTime": "12:00"}, alice)
	if resp.Success {
		t.Error("非全天请假缺少结束时间时应报错")
	}
}

func TestDashboardStatsCache(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/dashboard/stats", nil, manager)
	mustSucceed(t, resp)

	var summary domain.DashboardSummary
	decodeData(t, resp, &summary)
	if summary.PendingTimeOffCount != 1 {
		t.Errorf("待审批请假数量应为 1，实际为 %d", summary.PendingTimeOffCount)
	}
	if summary.TodaysStats.TotalShifts != 2 || summary.TodaysStats.UnassignedShifts != 1 {
		t.Errorf("今日班次统计不正确: %+v", summary.TodaysStats)
	}
	if summary.OvertimeRisks == nil || len(summary.OvertimeRisks) != 0 {
		t.Errorf("不应有加班风险: %+v", summary.OvertimeRisks)
	}

	if env.cache.sets != 1 {
		t.Fatalf("首次查询后应写入缓存，实际写入 %d 次", env.cache.sets)
	}

	// 直接修改缓存内容，确认第二次查询读取的是缓存
	env.cache.entries["org-1/2025-06-12"] = domain.DashboardSummary{PendingTimeOffCount: 99, OvertimeRisks: []domain.OvertimeRisk{}}
	resp = env.do(t, http.MethodGet, "/dashboard/stats", nil, manager)
	mustSucceed(t, resp)
	decodeData(t, resp, &summary)
	if summary.PendingTimeOffCount != 99 || env.cache.sets != 1 {
		t.Errorf("第二次查询应命中缓存: %+v, sets=%d", summary, env.cache.sets)
	}
}

func TestMySchedule(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/schedule/my?from=2025-06-09&to=2025-06-15", nil, alice)
	mustSucceed(t, resp)

	var schedule domain.MySchedule
	decodeData(t, resp, &schedule)
	if len(schedule.Shifts) != 1 || schedule.TotalHours != 8 {
		t.Errorf("Alice 本周应有 1 个 8 小时的班次: %+v", schedule)
	}

	resp = env.do(t, http.MethodGet, "/schedule/my", nil, manager)
	mustSucceed(t, resp)
	decodeData(t, resp, &schedule)
	if len(schedule.Shifts) != 0 || schedule.TotalHours != 0 {
		t.Errorf("没有员工档案的用户应返回空的班表: %+v", schedule)
	}
}

func TestEmployeeHoursAndAvailability(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/employees/hours?locationId=loc-1", nil, manager)
	mustSucceed(t, resp)
	var hours []domain.EmployeeWorkload
	decodeData(t, resp, &hours)
	if len(hours) != 2 {
		t.Fatalf("期望 2 名员工，实际为 %d", len(hours))
	}
	if hours[0].Name != "Alice" || hours[0].CurrentHours != 8 || hours[0].Limit != 40 || hours[0].Status != domain.LoadOK {
		t.Errorf("Alice 的工时不正确: %+v", hours[0])
	}

	resp = env.do(t, http.MethodGet, "/employees/availability?date=2025-06-12", nil, manager)
	mustSucceed(t, resp)
	var unavailable []domain.Unavailability
	decodeData(t, resp, &unavailable)
	if len(unavailable) != 1 || unavailable[0].EmployeeID != "e-2" || unavailable[0].Reason != "Full Day Off" {
		t.Errorf("当天只有 Bob 请假: %+v", unavailable)
	}
}

func TestMailFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv(t)
	env.mail.err = errors.New("broker down")

	resp := env.do(t, http.MethodPut, "/time-off/t-2/status", map[string]any{"status": "rejected"}, manager)
	mustSucceed(t, resp)
}
