package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/clock"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/utils"
)

// dateRange 读取 from 和 to 查询参数，两者都为空时使用今天所在的周
func (h *Handler) dateRange(r *http.Request) (string, string, error) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" && to == "" {
		today, _ := time.Parse(time.DateOnly, h.service.Today())
		from, to = clock.WeekBounds(today)
	}

	if err := utils.ValidateDateRange(from, to); err != nil {
		return "", "", err
	}
	return from, to, nil
}

func (h *Handler) GetWeekView(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.dateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	shifts, err := h.service.WeekView(r.Context(), orgID(r), r.URL.Query().Get("locationId"), from, to)
	if err != nil {
		h.storeError(w, r, err, "班次不存在")
		return
	}

	h.successResponse(w, r, "获取班次成功", shifts)
}

func (h *Handler) GetMySchedule(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.dateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.service.MySchedule(r.Context(), orgID(r), subject(r), from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的班次成功", schedule)
}

func (h *Handler) GetDayCoverage(w http.ResponseWriter, r *http.Request) {
	req := struct {
		AreaID string `validate:"required"`
		Date   string `validate:"required,date"`
	}{
		AreaID: r.URL.Query().Get("areaId"),
		Date:   r.URL.Query().Get("date"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	coverage, err := h.service.DayCoverage(r.Context(), orgID(r), req.AreaID, req.Date)
	if err != nil {
		h.storeError(w, r, err, "区域不存在")
		return
	}

	h.successResponse(w, r, "获取覆盖情况成功", coverage)
}

func (h *Handler) GetCoverageGrid(w http.ResponseWriter, r *http.Request) {
	req := struct {
		LocationID string
		From       string `validate:"required,date"`
		To         string `validate:"required,date"`
	}{
		LocationID: r.URL.Query().Get("locationId"),
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateDateRange(req.From, req.To); err != nil {
		h.badRequest(w, r, err)
		return
	}

	grid, err := h.service.CoverageGrid(r.Context(), orgID(r), req.LocationID, req.From, req.To)
	if err != nil {
		h.storeError(w, r, err, "地点不存在")
		return
	}

	h.successResponse(w, r, "获取覆盖情况成功", grid)
}

func (h *Handler) GetDayLayout(w http.ResponseWriter, r *http.Request) {
	req := struct {
		AreaID string `validate:"required"`
		Date   string `validate:"required,date"`
	}{
		AreaID: r.URL.Query().Get("areaId"),
		Date:   r.URL.Query().Get("date"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	lanes, err := h.service.LayoutDay(r.Context(), orgID(r), req.AreaID, req.Date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次布局成功", lanes)
}
