package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/utils"
)

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AreaID     string `json:"areaId" validate:"required"`
		LocationID string `json:"locationId" validate:"required"`
		Date       string `json:"date" validate:"required,date"`
		StartTime  string `json:"startTime" validate:"required,clock"`
		EndTime    string `json:"endTime" validate:"required,clock"`
		EmployeeID string `json:"employeeId"`
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
	if err := utils.ValidateShiftTimes(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := &domain.Shift{
		AreaID:     req.AreaID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		LocationID: req.LocationID,
		OrgID:      orgID(r),
	}

	// 创建时可以直接指定员工，与单独排班一样需要先检查请假冲突
	var (
		assignment *domain.Assignment
		plan       *assignmentPlan
	)
	if req.EmployeeID != "" {
		var ok bool
		plan, ok = h.prepareAssignment(w, r, shift, req.EmployeeID, req.RoleID, req.Confirm)
		if !ok {
			return
		}
		assignment = &domain.Assignment{EmployeeID: req.EmployeeID, RoleID: req.RoleID}
	}

	if err := h.store.CreateShift(r.Context(), shift, assignment); err != nil {
		h.storeError(w, r, err, "区域不存在")
		return
	}

	if plan != nil {
		h.notifyConflict(r, plan, shift)
	}
	h.invalidateSummary(r)

	h.successResponse(w, r, "创建班次成功", domain.ShiftWithAssignment{Shift: *shift, Assignment: assignment})
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		StartTime string `json:"startTime" validate:"required,clock"`
		EndTime   string `json:"endTime" validate:"required,clock"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShiftTimes(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	updated, err := h.store.UpdateShiftTimes(r.Context(), shift.OrgID, shift.ID, req.StartTime, req.EndTime)
	if err != nil {
		h.storeError(w, r, err, "班次不存在")
		return
	}
	h.invalidateSummary(r)

	h.successResponse(w, r, "更新班次成功", updated)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if err := h.store.DeleteShift(r.Context(), shift.OrgID, shift.ID); err != nil {
		h.storeError(w, r, err, "班次不存在")
		return
	}
	h.invalidateSummary(r)

	h.successResponse(w, r, "删除班次成功", nil)
}
