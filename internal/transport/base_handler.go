package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	errors "github.com/frahmantamala/employee-api/internal"
	"github.com/frahmantamala/employee-api/pkg/logger"
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

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, errors.Response{
		Code:    status,
		Message: message,
	})
}

// WriteAppError writes the public part of an AppError; Cause stays in the logs.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, appErr *errors.AppError) {
	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps a service error onto the response. Anything that
// is not an AppError is reported as a generic 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		h.Logger.Error("unhandled service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("internal error", "message", appErr.Message, "cause", appErr.Cause)
	} else {
		h.Logger.Debug("request rejected", "type", appErr.Type, "message", appErr.GetDetailedMessage())
	}

	h.WriteAppError(w, appErr)
}

// DecodeJSON decodes the request body into dst, answering 400 itself on failure.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.Logger.Debug("invalid request body", "error", err)
		h.WriteAppError(w, errors.NewValidationError("invalid request body", errors.ErrCodeInvalidBody))
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

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
