package handler

import (
	"log/slog"
	"net/http"
)

// GetDashboardStats 优先返回缓存中今天的摘要
func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	org, today := orgID(r), h.service.Today()

	if h.cache != nil && org != "" {
		summary, ok, err := h.cache.Get(r.Context(), org, today)
		if err != nil {
			slog.Warn("无法读取仪表盘缓存", "org_id", org, "error", err)
		}
		if ok {
			h.successResponse(w, r, "获取仪表盘数据成功", summary)
			return
		}
	}

	summary, err := h.service.DashboardSummary(r.Context(), org)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if h.cache != nil && org != "" {
		if err := h.cache.Set(r.Context(), org, today, &summary); err != nil {
			slog.Warn("无法写入仪表盘缓存", "org_id", org, "error", err)
		}
	}

	h.successResponse(w, r, "获取仪表盘数据成功", summary)
}

// invalidateSummary 在班次、排班或请假变化后清除本组织的仪表盘缓存
func (h *Handler) invalidateSummary(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(r.Context(), orgID(r)); err != nil {
		slog.Warn("无法清除仪表盘缓存", "org_id", orgID(r), "error", err)
	}
}
