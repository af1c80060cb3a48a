package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/config"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/query"
)

// Store 是 handler 需要的全部存储操作，Postgres 和 SQLite 两种实现都满足该接口
type Store interface {
	query.Source

	GetShift(ctx context.Context, orgID, id string) (*domain.Shift, error)
	CreateShift(ctx context.Context, shift *domain.Shift, assignment *domain.Assignment) error
	UpdateShiftTimes(ctx context.Context, orgID, id, startTime, endTime string) (*domain.Shift, error)
	DeleteShift(ctx context.Context, orgID, id string) error
	GetEmployee(ctx context.Context, orgID, id string) (*domain.Employee, error)
	AssignEmployee(ctx context.Context, orgID string, a *domain.Assignment) error
	UnassignShift(ctx context.Context, orgID, shiftID string) error
	ListTimeOffRequests(ctx context.Context, orgID string) ([]domain.TimeOffRequestWithEmployee, error)
	CreateTimeOffRequest(ctx context.Context, t *domain.TimeOffRequest) error
	UpdateTimeOffStatus(ctx context.Context, orgID, id string, status domain.TimeOffStatus) (*domain.TimeOffRequest, error)
}

type MailPublisher interface {
	Publish(ctx context.Context, msg domain.MailMessage) error
}

// SummaryCache 缓存每个组织当天的仪表盘摘要。
// 读取摘要与写入缓存之间没有加锁：若 Invalidate 恰好发生在两者之间，
// 之前算出的旧摘要仍会被 Set 写回，最长保留到缓存过期 (DASHBOARD_CACHE_TTL，默认 5 分钟)。
type SummaryCache interface {
	Get(ctx context.Context, orgID, date string) (*domain.DashboardSummary, bool, error)
	Set(ctx context.Context, orgID, date string, summary *domain.DashboardSummary) error
	Invalidate(ctx context.Context, orgID string) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	store      Store
	service    *query.Service
	translator ut.Translator
	mail       MailPublisher
	cache      SummaryCache

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store Store, service *query.Service, mail MailPublisher, cache SummaryCache) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := registerCustomValidations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		store:      store,
		service:    service,
		translator: trans,
		mail:       mail,
		cache:      cache,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	managerOnly := h.RequiredRole([]domain.UserRole{domain.UserRoleManager})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/week", h.GetWeekView)
			r.Get("/my", h.GetMySchedule)
			r.Get("/coverage", h.GetDayCoverage)
			r.Get("/coverage/grid", h.GetCoverageGrid)
			r.Get("/layout", h.GetDayLayout)
			r.Route("/shifts", func(r chi.Router) {
				r.Use(managerOnly)
				r.Post("/", h.CreateShift)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.shiftInfo)
					r.Patch("/", h.UpdateShift)
					r.Delete("/", h.DeleteShift)
				})
			})
		})

		r.With(managerOnly).Get("/dashboard/stats", h.GetDashboardStats)

		r.Route("/employees", func(r chi.Router) {
			r.Use(managerOnly)
			r.Get("/hours", h.GetEmployeeHours)
			r.Get("/availability", h.GetDayAvailability)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Use(managerOnly)
			r.Get("/conflict", h.CheckConflict)
			r.Post("/assign", h.Assign)
			r.Post("/unassign", h.Unassign)
		})

		r.Route("/time-off", func(r chi.Router) {
			r.With(managerOnly).Get("/", h.GetAllTimeOffRequests)
			r.Get("/my", h.GetMyTimeOffRequests)
			r.Post("/", h.CreateTimeOffRequest)
			r.With(managerOnly).Put("/{id}/status", h.UpdateTimeOffStatus)
		})
	})
}
