package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/employee-api/internal"
	"github.com/frahmantamala/employee-api/internal/transport"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, userID string) (*User, error)
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

type ProfileResponse struct {
	User Profile `json:"user"`
}

// GetProfile handles GET /api/users/profile. It expects the auth middleware
// to have put the token's user id into the request context.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.Logger.Error("GetProfile: user id not found in context")
		h.WriteError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	u, err := h.Service.GetByID(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if email := internal.EmailFromContext(r.Context()); email != "" && email != u.Email {
		h.Logger.Warn("GetProfile: token email differs from stored email", "user_id", u.ID)
	}

	h.Logger.Debug("GetProfile: sending response", "user_id", u.ID)

	h.WriteJSON(w, http.StatusOK, ProfileResponse{User: u.ToProfile()})
}
