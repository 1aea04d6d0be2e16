package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	errors "github.com/frahmantamala/employee-api/internal"
	"github.com/frahmantamala/employee-api/pkg/logger"
)

// RecoveryMiddleware turns a handler panic into a 500 and logs the stack.
func RecoveryMiddleware(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				reqLogger := lg
				if reqLogger == nil {
					reqLogger = logger.From(r.Context())
				}
				reqLogger.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"url", r.URL.String(),
					"stack", string(debug.Stack()))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(errors.Response{
					Code:    http.StatusInternalServerError,
					Message: "Internal server error",
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
