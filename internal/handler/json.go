package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/evo-islands/internal/domain"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

// 对于格式错误的请求，worker 会把它当作自身的 bug 而不会重试
func (h *Handler) invalidRequest(w http.ResponseWriter, r *http.Request, err error) {
	msg := err.Error()
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		msg = validationErrors[0].Translate(h.translator)
	}
	slog.Info("收到无效的请求", "method", r.Method, "path", r.URL.Path, "reason", msg)

	h.writeJSON(w, r, http.StatusBadRequest, domain.ErrorResponse{
		Code:    domain.ErrCodeInvalidRequest,
		Message: msg,
	})
}

func (h *Handler) versionMismatch(w http.ResponseWriter, r *http.Request, workerVersion uint32) {
	h.writeJSON(w, r, http.StatusBadRequest, domain.ErrorResponse{
		Code:          domain.ErrCodeVersionMismatch,
		Message:       "协议版本不匹配，请更新 worker",
		ServerVersion: domain.ProtocolVersion,
		WorkerVersion: workerVersion,
	})
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, domain.ErrorResponse{
		Code:    domain.ErrCodeInternalError,
		Message: "服务器内部错误",
	})
}
