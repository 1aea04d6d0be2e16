package employee

import (
	errors "github.com/frahmantamala/employee-api/internal"
	employeeDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/employee"
	"github.com/frahmantamala/employee-api/internal/core/common/validation"
)

const maxFieldLength = 200

// CreateEmployeeDTO is the body of POST /api/employees.
type CreateEmployeeDTO struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Position   string   `json:"position"`
	Salary     *float64 `json:"salary"`
	Department string   `json:"department,omitempty"`
}

func (d CreateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator().WithMessage("All fields are required")
	v.Field("firstName", d.FirstName).Required().MaxLength(maxFieldLength)
	v.Field("lastName", d.LastName).Required().MaxLength(maxFieldLength)
	v.Field("email", d.Email).Required().MaxLength(maxFieldLength)
	v.Field("position", d.Position).Required().MaxLength(maxFieldLength)
	v.Field("salary", d.Salary).Required()
	v.Field("department", d.Department).MaxLength(maxFieldLength)
	return v.Validate()
}

// UpdateEmployeeDTO is the body of PUT /api/employees/{id}. Absent fields keep their stored value.
type UpdateEmployeeDTO struct {
	FirstName  *string  `json:"firstName"`
	LastName   *string  `json:"lastName"`
	Email      *string  `json:"email"`
	Position   *string  `json:"position"`
	Salary     *float64 `json:"salary"`
	Department *string  `json:"department"`
}

func (d UpdateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).NotBlank().MaxLength(maxFieldLength)
	v.Field("lastName", d.LastName).NotBlank().MaxLength(maxFieldLength)
	v.Field("email", d.Email).NotBlank().MaxLength(maxFieldLength)
	v.Field("position", d.Position).MaxLength(maxFieldLength)
	v.Field("department", d.Department).MaxLength(maxFieldLength)
	return v.Validate()
}

func (d UpdateEmployeeDTO) ToPatch() employeeDatamodel.Patch {
	return employeeDatamodel.Patch{
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Department: d.Department,
		Position:   d.Position,
		Salary:     d.Salary,
	}
}

// EmployeeResponse wraps the record returned by create, update and delete.
type EmployeeResponse struct {
	Message  string    `json:"message"`
	Employee *Employee `json:"employee"`
}
