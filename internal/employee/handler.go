package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/employee-api/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListEmployees(ctx context.Context) ([]*Employee, error)
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error)
	UpdateEmployee(ctx context.Context, id string, dto UpdateEmployeeDTO) (*Employee, error)
	DeleteEmployee(ctx context.Context, id string) (*Employee, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListEmployees handles GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, employees)
}

// GetEmployee handles GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	employee, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, employee)
}

// CreateEmployee handles POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	employee, err := h.Service.CreateEmployee(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, EmployeeResponse{
		Message:  "Employee created successfully",
		Employee: employee,
	})
}

// UpdateEmployee handles PUT /api/employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	employee, err := h.Service.UpdateEmployee(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EmployeeResponse{
		Message:  "Employee updated successfully",
		Employee: employee,
	})
}

// DeleteEmployee handles DELETE /api/employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	employee, err := h.Service.DeleteEmployee(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EmployeeResponse{
		Message:  "Employee deleted successfully",
		Employee: employee,
	})
}

// Routes registers the employee endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListEmployees)
	r.Post("/", h.CreateEmployee)
	r.Get("/{id}", h.GetEmployee)
	r.Put("/{id}", h.UpdateEmployee)
	r.Delete("/{id}", h.DeleteEmployee)
}
