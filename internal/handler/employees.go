package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/utils"
)

func (h *Handler) GetEmployeeHours(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.dateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	hours, err := h.service.EmployeeHours(r.Context(), orgID(r), r.URL.Query().Get("locationId"), from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工工时成功", hours)
}

// GetDayAvailability 未指定日期时查询今天
func (h *Handler) GetDayAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.service.Today()
	}
	if !utils.IsDate(date) {
		h.errorResponse(w, r, "日期必须是 yyyy-MM-dd 格式")
		return
	}

	unavailable, err := h.service.DayAvailability(r.Context(), orgID(r), r.URL.Query().Get("locationId"), date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工请假情况成功", unavailable)
}
