package employee_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/employee-api/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/employee"
	"github.com/frahmantamala/employee-api/internal/employee"
	employeePostgres "github.com/frahmantamala/employee-api/internal/employee/postgres"
	"github.com/frahmantamala/employee-api/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var _ = Describe("Employee Handler Integration", func() {
	var (
		db      *gorm.DB
		router  *chi.Mux
		slogger *slog.Logger
	)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeError := func(w *httptest.ResponseRecorder) errorBody {
		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body
	}

	create := func(email string) *employee.Employee {
		w := do(http.MethodPost, "/api/employees", map[string]interface{}{
			"firstName":  "Ada",
			"lastName":   "Lovelace",
			"email":      email,
			"department": "Engineering",
			"position":   "Engineer",
			"salary":     120000,
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var response employee.EmployeeResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		return response.Employee
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&employeeDatamodel.Employee{})).To(Succeed())

		repo := employeePostgres.NewEmployeeRepository(db)
		service := employee.NewService(repo, slogger)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		handler := employee.NewHandler(baseHandler, service)

		router = chi.NewRouter()
		router.Route("/api/employees", handler.Routes)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("should list an empty collection as an empty array", func() {
		w := do(http.MethodGet, "/api/employees", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		Expect(w.Body.String()).To(MatchJSON(`[]`))
	})

	It("should create an employee and return it with a message", func() {
		w := do(http.MethodPost, "/api/employees", map[string]interface{}{
			"firstName": "Grace",
			"lastName":  "Hopper",
			"email":     "grace@example.com",
			"position":  "Admiral",
			"salary":    99000.5,
		})

		Expect(w.Code).To(Equal(http.StatusCreated))

		var response employee.EmployeeResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Message).To(Equal("Employee created successfully"))
		Expect(validation.IsValidID(response.Employee.ID)).To(BeTrue())
		Expect(response.Employee.Salary).To(Equal(99000.5))
		Expect(response.Employee.CreatedAt).NotTo(BeZero())
	})

	It("should reject a create with missing fields", func() {
		w := do(http.MethodPost, "/api/employees", map[string]interface{}{
			"firstName": "Grace",
		})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		body := decodeError(w)
		Expect(body.Code).To(Equal(http.StatusBadRequest))
		Expect(body.Message).To(Equal("All fields are required"))
	})

	It("should reject a malformed body", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/employees", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 409 for a duplicate email", func() {
		create("ada@example.com")

		w := do(http.MethodPost, "/api/employees", map[string]interface{}{
			"firstName": "Other",
			"lastName":  "Person",
			"email":     "ada@example.com",
			"position":  "Engineer",
			"salary":    1,
		})

		Expect(w.Code).NotTo(BeNumerically("<", 300))
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(decodeError(w).Message).To(Equal("Employee with this email already exists"))
	})

	It("should fetch a created employee by id", func() {
		created := create("ada@example.com")

		w := do(http.MethodGet, "/api/employees/"+created.ID, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var fetched employee.Employee
		Expect(json.NewDecoder(w.Body).Decode(&fetched)).To(Succeed())
		Expect(fetched.ID).To(Equal(created.ID))
		Expect(fetched.Email).To(Equal("ada@example.com"))
	})

	It("should answer 400 for a malformed id and 404 for an unknown one", func() {
		w := do(http.MethodGet, "/api/employees/not-an-id", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).Message).To(Equal("Invalid employee ID format"))

		w = do(http.MethodGet, "/api/employees/"+validation.NewID(), nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decodeError(w).Message).To(Equal("Employee not found"))
	})

	It("should update only the supplied fields", func() {
		created := create("ada@example.com")

		w := do(http.MethodPut, "/api/employees/"+created.ID, map[string]interface{}{
			"position": "Principal Engineer",
		})
		Expect(w.Code).To(Equal(http.StatusOK))

		var response employee.EmployeeResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Message).To(Equal("Employee updated successfully"))
		Expect(response.Employee.Position).To(Equal("Principal Engineer"))
		Expect(response.Employee.FirstName).To(Equal("Ada"))
		Expect(response.Employee.Salary).To(Equal(120000.0))
	})

	It("should answer 404 when updating an unknown employee", func() {
		w := do(http.MethodPut, "/api/employees/"+validation.NewID(), map[string]interface{}{
			"position": "Nobody",
		})
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should answer 409 when an update takes another employee's email", func() {
		create("ada@example.com")
		grace := create("grace@example.com")

		w := do(http.MethodPut, "/api/employees/"+grace.ID, map[string]interface{}{
			"email": "ada@example.com",
		})
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should delete an employee and then report it missing", func() {
		created := create("ada@example.com")

		w := do(http.MethodDelete, "/api/employees/"+created.ID, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var response employee.EmployeeResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Message).To(Equal("Employee deleted successfully"))
		Expect(response.Employee.ID).To(Equal(created.ID))

		w = do(http.MethodGet, "/api/employees/"+created.ID, nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))

		w = do(http.MethodDelete, "/api/employees/"+created.ID, nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should list employees in creation order", func() {
		first := create("ada@example.com")
		second := create("grace@example.com")

		w := do(http.MethodGet, "/api/employees", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var employees []employee.Employee
		Expect(json.NewDecoder(w.Body).Decode(&employees)).To(Succeed())
		Expect(employees).To(HaveLen(2))
		Expect([]string{employees[0].ID, employees[1].ID}).To(ConsistOf(first.ID, second.ID))
	})
})
