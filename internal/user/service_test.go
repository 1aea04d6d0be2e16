package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	apperrors "github.com/frahmantamala/employee-api/internal"
	"github.com/frahmantamala/employee-api/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/user"
	"github.com/frahmantamala/employee-api/internal/transport"
	"github.com/frahmantamala/employee-api/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

// MockRepository implements user.RepositoryAPI for testing
type MockRepository struct {
	users      map[string]*userDatamodel.User
	shouldFail bool
	failError  error
	calls      int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{users: make(map[string]*userDatamodel.User)}
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	m.calls++
	if m.shouldFail {
		return nil, m.failError
	}
	return m.users[id], nil
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	m.calls++
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	m.calls++
	if m.shouldFail {
		return m.failError
	}
	u.ID = validation.NewID()
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

var _ = Describe("User Service", func() {
	var (
		mockRepo *MockRepository
		service  *user.Service
		handler  *user.Handler
		stored   *userDatamodel.User
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = NewMockRepository()
		service = user.NewService(mockRepo, logger)
		handler = user.NewHandler(&transport.BaseHandler{Logger: logger}, service)

		stored = &userDatamodel.User{
			Name:         "Ada",
			Email:        "ada@example.com",
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		Expect(mockRepo.Create(context.Background(), stored)).To(Succeed())
		mockRepo.calls = 0
	})

	Describe("GetByID", func() {
		It("should return the user", func() {
			u, err := service.GetByID(context.Background(), stored.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email).To(Equal("ada@example.com"))
		})

		It("should return not found for an unknown or malformed id", func() {
			_, err := service.GetByID(context.Background(), validation.NewID())
			Expect(apperrors.IsType(err, apperrors.ErrorTypeNotFound)).To(BeTrue())

			_, err = service.GetByID(context.Background(), "nope")
			Expect(apperrors.IsType(err, apperrors.ErrorTypeNotFound)).To(BeTrue())
		})

		It("should return an internal error when the store fails", func() {
			mockRepo.SetShouldFail(true, errors.New("timeout"))

			_, err := service.GetByID(context.Background(), stored.ID)
			Expect(apperrors.IsType(err, apperrors.ErrorTypeInternal)).To(BeTrue())
		})
	})

	Describe("Handler.GetProfile", func() {
		It("should render the profile without the password hash", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
			req = req.WithContext(apperrors.ContextWithUserID(req.Context(), stored.ID))
			w := httptest.NewRecorder()

			handler.GetProfile(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).NotTo(ContainSubstring("$2a$"))
			Expect(w.Body.String()).NotTo(ContainSubstring("password"))

			var response user.ProfileResponse
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.User.ID).To(Equal(stored.ID))
			Expect(response.User.Name).To(Equal("Ada"))
		})

		It("should answer 401 when no user id is in the context", func() {
			w := httptest.NewRecorder()
			handler.GetProfile(w, httptest.NewRequest(http.MethodGet, "/api/users/profile", nil))

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(mockRepo.calls).To(Equal(0))
		})

		It("should answer 500 when the store fails", func() {
			mockRepo.SetShouldFail(true, errors.New("timeout"))

			req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
			req = req.WithContext(apperrors.ContextWithUserID(req.Context(), stored.ID))
			w := httptest.NewRecorder()
			handler.GetProfile(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).NotTo(ContainSubstring("timeout"))
		})
	})
})
