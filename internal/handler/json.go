package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/query"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/scheduler"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("请求体格式错误")
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

// warningResponse 用于需要调用方确认的情况，例如排班与已批准的请假冲突
func (h *Handler) warningResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    data,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// storeError 把存储层和查询层的已知错误转换为提示信息，其他错误按服务器内部错误处理
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.errorResponse(w, r, notFoundMsg)
	case errors.Is(err, repository.ErrEmployeeNotFound):
		h.errorResponse(w, r, "员工不存在")
	case errors.Is(err, repository.ErrRoleNotFound):
		h.errorResponse(w, r, "岗位不存在")
	case errors.Is(err, repository.ErrAreaNotFound):
		h.errorResponse(w, r, "区域不存在")
	case errors.Is(err, scheduler.ErrInvalidDate), errors.Is(err, scheduler.ErrInvalidClock):
		h.errorResponse(w, r, err.Error())
	case errors.Is(err, query.ErrRangeTooLarge):
		h.errorResponse(w, r, fmt.Sprintf("查询的日期范围不能超过 %d 天", query.MaxGridDays))
	default:
		h.internalServerError(w, r, err)
	}
}
