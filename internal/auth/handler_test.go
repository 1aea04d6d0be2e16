package auth_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/employee-api/internal/auth"
	userDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/user"
	"github.com/frahmantamala/employee-api/internal/transport"
	"github.com/frahmantamala/employee-api/internal/user"
	userPostgres "github.com/frahmantamala/employee-api/internal/user/postgres"
	"github.com/go-chi/chi"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const handlerSecret = "handler-test-secret-0123456789abcdef"

var _ = Describe("Auth Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	do := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	message := func(w *httptest.ResponseRecorder) string {
		var body struct {
			Message string `json:"message"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return body.Message
	}

	signupAndLogin := func() auth.LoginResponse {
		w := do(http.MethodPost, "/api/users/signup", "", map[string]string{
			"name": "Ada", "email": "ada@example.com", "password": "s3cret",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodPost, "/api/users/login", "", map[string]string{
			"email": "ada@example.com", "password": "s3cret",
		})
		Expect(w.Code).To(Equal(http.StatusOK))

		var response auth.LoginResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
		return response
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		users := userPostgres.NewUserRepository(db)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		authService := auth.NewService(users, auth.NewJWTTokenGenerator(handlerSecret, auth.AccessTokenTTL), bcrypt.MinCost, slogger)
		authHandler := auth.NewHandler(baseHandler, authService)
		userHandler := user.NewHandler(baseHandler, user.NewService(users, slogger))

		router = chi.NewRouter()
		router.Route("/api/users", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.Get("/profile", userHandler.GetProfile)
			})
		})
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("POST /api/users/signup", func() {
		It("should register a user", func() {
			w := do(http.MethodPost, "/api/users/signup", "", map[string]string{
				"name": "Ada", "email": "ada@example.com", "password": "s3cret",
			})

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(w.Body.String()).To(MatchJSON(`{"message":"User registered successfully"}`))

			var stored userDatamodel.User
			Expect(db.Where("email = ?", "ada@example.com").First(&stored).Error).To(Succeed())
			Expect(stored.PasswordHash).NotTo(Equal("s3cret"))
		})

		It("should answer 409 for an existing email", func() {
			body := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "s3cret"}
			Expect(do(http.MethodPost, "/api/users/signup", "", body).Code).To(Equal(http.StatusCreated))

			w := do(http.MethodPost, "/api/users/signup", "", body)
			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(message(w)).To(Equal("User already exists"))
		})

		It("should answer 400 when a field is missing", func() {
			w := do(http.MethodPost, "/api/users/signup", "", map[string]string{"email": "ada@example.com"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(message(w)).To(Equal("All fields are required"))
		})
	})

	Describe("POST /api/users/login", func() {
		It("should return a token and the user without the password", func() {
			response := signupAndLogin()

			Expect(response.Token).NotTo(BeEmpty())
			Expect(response.Message).To(Equal("Login successful"))
			Expect(response.User.Email).To(Equal("ada@example.com"))
			Expect(response.User.Name).To(Equal("Ada"))
		})

		It("should never include a password or hash in the body", func() {
			signupAndLogin()
			w := do(http.MethodPost, "/api/users/login", "", map[string]string{
				"email": "ada@example.com", "password": "s3cret",
			})

			Expect(w.Body.String()).NotTo(ContainSubstring("password"))
			Expect(w.Body.String()).NotTo(ContainSubstring("$2a$"))
		})

		It("should distinguish unknown users from wrong passwords", func() {
			signupAndLogin()

			w := do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "nobody@example.com", "password": "x"})
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(message(w)).To(Equal("User not found"))

			w = do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ada@example.com", "password": "wrong"})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(message(w)).To(Equal("Invalid credentials"))
		})

		It("should answer 400 when a field is missing", func() {
			w := do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ada@example.com"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(message(w)).To(Equal("Email and password are required"))
		})
	})

	Describe("GET /api/users/profile", func() {
		It("should return the profile for a valid token", func() {
			login := signupAndLogin()

			w := do(http.MethodGet, "/api/users/profile", login.Token, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).NotTo(ContainSubstring("password"))
			Expect(w.Body.String()).NotTo(ContainSubstring("$2a$"))

			var response user.ProfileResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.User.ID).To(Equal(login.User.ID))
			Expect(response.User.Email).To(Equal("ada@example.com"))
			Expect(response.User.CreatedAt).NotTo(BeZero())
		})

		It("should answer 401 without a token", func() {
			w := do(http.MethodGet, "/api/users/profile", "", nil)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(message(w)).To(Equal("No token provided"))
		})

		It("should answer 401 for a malformed authorization header", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
			req.Header.Set("Authorization", "Token abc")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(message(w)).To(Equal("No token provided"))
		})

		DescribeTable("should answer 401 for tokens it cannot trust",
			func(build func(userID string) string) {
				login := signupAndLogin()

				w := do(http.MethodGet, "/api/users/profile", build(login.User.ID), nil)
				Expect(w.Code).To(Equal(http.StatusUnauthorized))
				Expect(message(w)).To(Equal("Invalid or expired token"))
			},
			Entry("signed with another secret", func(userID string) string {
				token, err := auth.NewJWTTokenGenerator("some-other-secret-0123456789abcdef", time.Hour).GenerateAccessToken(userID, "ada@example.com")
				Expect(err).NotTo(HaveOccurred())
				return token
			}),
			Entry("expired", func(userID string) string {
				claims := &auth.Claims{UserID: userID, RegisteredClaims: jwt.RegisteredClaims{
					IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				}}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(handlerSecret))
				Expect(err).NotTo(HaveOccurred())
				return token
			}),
			Entry("using alg none", func(userID string) string {
				claims := &auth.Claims{UserID: userID, RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				}}
				token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
				Expect(err).NotTo(HaveOccurred())
				return token
			}),
			Entry("garbage", func(string) string { return "not.a.jwt" }),
		)

		It("should answer 404 when the account no longer exists", func() {
			login := signupAndLogin()
			Expect(db.Where("1 = 1").Delete(&userDatamodel.User{}).Error).To(Succeed())

			w := do(http.MethodGet, "/api/users/profile", login.Token, nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(message(w)).To(Equal("User not found"))
		})
	})
})
