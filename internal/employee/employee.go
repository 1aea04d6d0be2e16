package employee

import (
	"errors"
	"time"

	employeeDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/employee"
)

// ErrEmailTaken is returned by repositories when the unique email index rejects a write.
var ErrEmailTaken = errors.New("employee email already exists")

type Employee struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	Salary     float64   `json:"salary"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewEmployee(dto CreateEmployeeDTO) *Employee {
	e := &Employee{
		FirstName:  dto.FirstName,
		LastName:   dto.LastName,
		Email:      dto.Email,
		Department: dto.Department,
		Position:   dto.Position,
	}
	if dto.Salary != nil {
		e.Salary = *dto.Salary
	}
	return e
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
