package auth

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/frahmantamala/employee-api/internal"
	"github.com/frahmantamala/employee-api/internal/transport"
	"github.com/frahmantamala/employee-api/internal/user"
	"github.com/frahmantamala/employee-api/pkg/logger"
)

type ServiceAPI interface {
	Signup(ctx context.Context, dto SignupDTO) (*user.User, error)
	Login(ctx context.Context, dto LoginDTO) (string, *user.User, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// Signup handles POST /api/users/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.Signup(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("Signup: user registered", "user_id", u.ID)

	h.WriteJSON(w, http.StatusCreated, SignupResponse{Message: "User registered successfully"})
}

// Login handles POST /api/users/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	token, u, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("Login: user logged in", "user_id", u.ID)

	h.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:   token,
		User:    u.ToSummary(),
		Message: "Login successful",
	})
}

func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Debug("auth middleware: missing authorization token")
			h.WriteAppError(w, internal.NewUnauthorizedError("No token provided", internal.ErrCodeMissingToken))
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			code := internal.ErrCodeInvalidToken
			if stderrors.Is(err, ErrTokenExpired) {
				code = internal.ErrCodeTokenExpired
			}
			h.Logger.Warn("auth middleware: token validation failed", "error", err)
			h.WriteAppError(w, internal.NewUnauthorizedError("Invalid or expired token", code))
			return
		}

		h.Logger.Debug("auth middleware: token validated", "user_id", claims.UserID)

		ctx := internal.ContextWithUserID(r.Context(), claims.UserID)
		ctx = internal.ContextWithEmail(ctx, claims.Email)
		ctx = logger.With(ctx, "user_id", claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
