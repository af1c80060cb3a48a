package handler

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/utils"
)

func (h *Handler) GetAllTimeOffRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.store.ListTimeOffRequests(r.Context(), orgID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取请假列表成功", requests)
}

// myEmployees 返回当前用户在本组织内的员工档案
func (h *Handler) myEmployees(r *http.Request) ([]domain.Employee, error) {
	employees, err := h.store.EmployeesForUser(r.Context(), subject(r))
	if err != nil {
		return nil, err
	}

	org := orgID(r)
	return slices.DeleteFunc(employees, func(e domain.Employee) bool {
		return e.OrgID != org
	}), nil
}

func (h *Handler) GetMyTimeOffRequests(w http.ResponseWriter, r *http.Request) {
	employees, err := h.myEmployees(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	requests := make([]domain.TimeOffRequest, 0)
	for _, e := range employees {
		items, err := h.store.TimeOffFor(r.Context(), domain.TimeOffFilter{OrgID: e.OrgID, EmployeeID: e.ID})
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		requests = append(requests, items...)
	}

	h.successResponse(w, r, "获取我的请假成功", requests)
}

func (h *Handler) CreateTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeId"`
		Date       string `json:"date" validate:"required,date"`
		IsFullDay  bool   `json:"isFullDay"`
		StartTime  string `json:"startTime" validate:"omitempty,clock"`
		EndTime    string `json:"endTime" validate:"omitempty,clock"`
		Reason     string `json:"reason" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateTimeOffWindow(req.IsFullDay, req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employeeID, ok := h.timeOffEmployee(w, r, req.EmployeeID)
	if !ok {
		return
	}

	request := &domain.TimeOffRequest{
		EmployeeID: employeeID,
		Date:       req.Date,
		IsFullDay:  req.IsFullDay,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Reason:     req.Reason,
		Status:     domain.TimeOffPending,
		OrgID:      orgID(r),
	}
	if err := h.store.CreateTimeOffRequest(r.Context(), request); err != nil {
		h.storeError(w, r, err, "员工不存在")
		return
	}
	h.invalidateSummary(r)

	h.successResponse(w, r, "提交请假申请成功", request)
}

// timeOffEmployee 确定请假申请所属的员工。
// 员工只能为自己申请，主管可以为本组织内的任意员工申请。
func (h *Handler) timeOffEmployee(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	mine, err := h.myEmployees(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return "", false
	}

	if requested == "" {
		if len(mine) == 0 {
			h.errorResponse(w, r, "当前用户没有员工档案")
			return "", false
		}
		return mine[0].ID, true
	}

	if slices.ContainsFunc(mine, func(e domain.Employee) bool { return e.ID == requested }) {
		return requested, true
	}

	role, _ := r.Context().Value(RoleCtxKey).(string)
	if domain.UserRole(role) != domain.UserRoleManager {
		h.errorResponse(w, r, "权限不足")
		return "", false
	}
	if _, err := h.store.GetEmployee(r.Context(), orgID(r), requested); err != nil {
		h.storeError(w, r, err, "员工不存在")
		return "", false
	}
	return requested, true
}

func (h *Handler) UpdateTimeOffStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status" validate:"required,oneof=pending approved rejected"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request, err := h.store.UpdateTimeOffStatus(r.Context(), orgID(r), chi.URLParam(r, "id"), domain.TimeOffStatus(req.Status))
	if err != nil {
		h.storeError(w, r, err, "请假申请不存在")
		return
	}
	h.invalidateSummary(r)

	if request.Status != domain.TimeOffPending {
		h.notifyTimeOffDecision(r, request)
	}

	h.successResponse(w, r, "更新请假状态成功", request)
}

func (h *Handler) notifyTimeOffDecision(r *http.Request, request *domain.TimeOffRequest) {
	employee, err := h.store.GetEmployee(r.Context(), request.OrgID, request.EmployeeID)
	if err != nil {
		h.logInternalServerError(r, err)
		return
	}

	h.publishMail(r.Context(), domain.MailMessage{
		Type: domain.MailTypeTimeOffDecision,
		To:   employee.Email,
		Data: domain.TimeOffDecisionMailData{
			Name:      employee.Name,
			Date:      request.Date,
			IsFullDay: request.IsFullDay,
			StartTime: request.StartTime,
			EndTime:   request.EndTime,
			Status:    request.Status,
		},
	})
}
