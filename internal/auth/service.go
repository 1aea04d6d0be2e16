package auth

import (
	"context"
	stderrors "errors"
	"log/slog"

	errors "github.com/frahmantamala/employee-api/internal"
	userDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/user"
	"github.com/frahmantamala/employee-api/internal/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	errUserExists         = errors.NewConflictError("User already exists", errors.ErrCodeUserExists)
	errUserNotFound       = errors.NewNotFoundError("User not found", errors.ErrCodeUserNotFound)
	errInvalidCredentials = errors.NewUnauthorizedError("Invalid credentials", errors.ErrCodeInvalidCredentials)
)

// Service is the main auth service with dependencies
type Service struct {
	users          user.RepositoryAPI
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service. Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewService(users user.RepositoryAPI, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:          users,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Signup registers a new account; the plaintext password is only ever hashed.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*user.User, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to check user email", "error", err)
		return nil, errors.NewInternalError("Server error during signup", err)
	}
	if existing != nil {
		return nil, errUserExists
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, errors.NewInternalError("Server error during signup", err)
	}

	record := &userDatamodel.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, record); err != nil {
		if stderrors.Is(err, user.ErrEmailTaken) {
			return nil, errUserExists
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, errors.NewInternalError("Server error during signup", err)
	}

	s.logger.Info("user registered", "user_id", record.ID)
	return user.FromDataModel(record), nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (string, *user.User, error) {
	if appErr := dto.Validate(); appErr != nil {
		return "", nil, appErr
	}

	record, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to load user for login", "error", err)
		return "", nil, errors.NewInternalError("Server error during login", err)
	}
	if record == nil {
		return "", nil, errUserNotFound
	}

	if !s.VerifyPassword(record.PasswordHash, dto.Password) {
		s.logger.Debug("login rejected", "user_id", record.ID)
		return "", nil, errInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateAccessToken(record.ID, record.Email)
	if err != nil {
		s.logger.Error("failed to sign access token", "user_id", record.ID, "error", err)
		return "", nil, errors.NewInternalError("Server error during login", err)
	}

	return token, user.FromDataModel(record), nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
