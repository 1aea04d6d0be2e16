package auth

import (
	errors "github.com/frahmantamala/employee-api/internal"
	"github.com/frahmantamala/employee-api/internal/core/common/validation"
)

// bcrypt ignores everything past 72 bytes and x/crypto rejects longer input.
const maxPasswordBytes = 72

// SignupDTO is the body of POST /api/users/signup.
type SignupDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d SignupDTO) Validate() *errors.AppError {
	v := validation.NewValidator().WithMessage("All fields are required")
	v.Field("name", d.Name).Required()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	limits := validation.NewValidator()
	limits.Field("name", d.Name).MaxLength(200)
	limits.Field("email", d.Email).MaxLength(200)
	limits.Field("password", d.Password).MaxLength(maxPasswordBytes)
	return limits.Validate()
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator().WithMessage("Email and password are required")
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}
