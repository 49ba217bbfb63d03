package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	"github.com/frahmantamala/workforce-admin/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// RequestLogger returns the logger carried by the request context, which
// holds the trace and actor fields, falling back to the handler's own.
func (h *BaseHandler) RequestLogger(r *http.Request) *slog.Logger {
	return logger.FromOr(r.Context(), h.Logger)
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in the same envelope as AppError.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.writeAppError(w, errorForStatus(status, message))
}

// HandleServiceError maps an AppError to its status code. Anything else is
// logged and reported as a 500 without leaking the cause.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := errors.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("service error", "error", err, "type", appErr.Type, "code", appErr.Code)
		}
		h.writeAppError(w, appErr)
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	h.writeAppError(w, errors.NewInternalError("internal server error", err))
}

func (h *BaseHandler) writeAppError(w http.ResponseWriter, appErr *errors.AppError) {
	status, body := appErr.ToHTTPResponse()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	h.WriteJSON(w, status, body)
}

// Session returns the authenticated session or answers 401.
func (h *BaseHandler) Session(w http.ResponseWriter, r *http.Request) (access.Session, bool) {
	s, ok := errors.SessionFromContext(r.Context())
	if !ok || !s.Valid() {
		h.RequestLogger(r).Warn("session not found in context", "path", r.URL.Path)
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return access.Session{}, false
	}
	return s, true
}

// IDParam parses a positive numeric URL parameter or answers 400.
func (h *BaseHandler) IDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.RequestLogger(r).Warn("invalid id parameter", "param", name, "value", raw)
		h.WriteError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// DecodeJSON decodes the request body into dst or answers 400.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.RequestLogger(r).Warn("invalid request body", "error", err, "path", r.URL.Path)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}

func errorForStatus(status int, message string) *errors.AppError {
	switch status {
	case http.StatusBadRequest:
		return errors.NewValidationError(message, errors.ErrCodeValidationFailed)
	case http.StatusUnauthorized:
		return errors.NewUnauthorizedError(message, errors.ErrCodeInvalidToken)
	case http.StatusForbidden:
		return errors.NewForbiddenError(message, errors.ErrCodeForbidden)
	case http.StatusNotFound:
		return errors.NewNotFoundError(message, errors.ErrorCode("NOT_FOUND"))
	}
	appErr := errors.NewInternalError(message, nil)
	appErr.StatusCode = status
	return appErr
}
