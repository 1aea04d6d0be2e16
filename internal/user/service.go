package user

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/employee-api/internal"
	userDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/user"
	"github.com/frahmantamala/employee-api/internal/core/common/validation"
)

// RepositoryAPI is the users collection. Lookups return (nil, nil) when nothing matches.
type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, user *userDatamodel.User) error
}

var ErrNotFound = errors.NewNotFoundError("User not found", errors.ErrCodeUserNotFound)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	// ids come from verified tokens; a malformed one means the account cannot exist
	if !validation.IsValidID(userID) {
		return nil, ErrNotFound
	}

	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user by id", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Server error while fetching profile", err)
	}
	if record == nil {
		return nil, ErrNotFound
	}

	return FromDataModel(record), nil
}
