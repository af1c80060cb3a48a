package handler

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

// assignmentPlan 是通过检查、可以写入的排班，conflict 不为 nil 表示调用方已确认冲突
type assignmentPlan struct {
	employee *domain.Employee
	conflict *domain.TimeOffConflict
}

// prepareAssignment 检查员工和岗位，并在保存前检查请假冲突。
// 存在冲突且未确认时直接返回警告，ok 为 false。
func (h *Handler) prepareAssignment(w http.ResponseWriter, r *http.Request, shift *domain.Shift, employeeID, roleID string, confirm bool) (*assignmentPlan, bool) {
	employee, err := h.store.GetEmployee(r.Context(), orgID(r), employeeID)
	if err != nil {
		h.storeError(w, r, err, "员工不存在")
		return nil, false
	}
	if roleID != "" && !slices.Contains(employee.RoleIDs, roleID) {
		h.errorResponse(w, r, "员工不具备该岗位")
		return nil, false
	}

	conflict, err := h.service.CheckAssignmentConflict(r.Context(), orgID(r), employeeID, shift.Date)
	if err != nil {
		h.internalServerError(w, r, err)
		return nil, false
	}
	if conflict != nil && !confirm {
		h.warningResponse(w, r, "员工当天有已批准的请假，确认后才能排班", conflict)
		return nil, false
	}

	return &assignmentPlan{employee: employee, conflict: conflict}, true
}

func (h *Handler) CheckConflict(w http.ResponseWriter, r *http.Request) {
	req := struct {
		EmployeeID string `validate:"required"`
		Date       string `validate:"required,date"`
	}{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Date:       r.URL.Query().Get("date"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	conflict, err := h.service.CheckAssignmentConflict(r.Context(), orgID(r), req.EmployeeID, req.Date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if conflict == nil {
		h.successResponse(w, r, "没有冲突", nil)
		return
	}
	h.successResponse(w, r, "员工当天有已批准的请假", conflict)
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftID    string `json:"shiftId" validate:"required"`
		EmployeeID string `json:"employeeId" validate:"required"`
		RoleID     string `json:"roleId"`
		Confirm    bool   `json:"confirm"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.store.GetShift(r.Context(), orgID(r), req.ShiftID)
	if err != nil {
		h.storeError(w, r, err, "班次不存在")
		return
	}

	plan, ok := h.prepareAssignment(w, r, shift, req.EmployeeID, req.RoleID, req.Confirm)
	if !ok {
		return
	}

	assignment := &domain.Assignment{ShiftID: shift.ID, EmployeeID: req.EmployeeID, RoleID: req.RoleID}
	if err := h.store.AssignEmployee(r.Context(), orgID(r), assignment); err != nil {
		h.storeError(w, r, err, "班次不存在")
		return
	}

	h.notifyConflict(r, plan, shift)
	h.invalidateSummary(r)

	h.successResponse(w, r, "排班成功", assignment)
}

func (h *Handler) Unassign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftID string `json:"shiftId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.store.UnassignShift(r.Context(), orgID(r), req.ShiftID); err != nil {
		h.storeError(w, r, err, "班次不存在")
		return
	}
	h.invalidateSummary(r)

	h.successResponse(w, r, "取消排班成功", nil)
}

// notifyConflict 在确认冲突后通知员工，发送失败不影响已保存的排班
func (h *Handler) notifyConflict(r *http.Request, plan *assignmentPlan, shift *domain.Shift) {
	if plan.conflict == nil {
		return
	}

	h.publishMail(r.Context(), domain.MailMessage{
		Type: domain.MailTypeAssignmentConflict,
		To:   plan.employee.Email,
		Data: domain.AssignmentConflictMailData{
			Name:      plan.employee.Name,
			Date:      shift.Date,
			StartTime: shift.StartTime,
			EndTime:   shift.EndTime,
			Reason:    plan.conflict.Reason,
		},
	})
}

func (h *Handler) publishMail(ctx context.Context, msg domain.MailMessage) {
	if h.mail == nil || msg.To == "" {
		return
	}
	if err := h.mail.Publish(ctx, msg); err != nil {
		slog.Error("无法发送邮件到消息队列", "type", msg.Type, "to", msg.To, "error", err)
	}
}
