package validation

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/employee-api/internal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields  []*FieldValidator
	message string
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields:  make([]*FieldValidator, 0),
		message: "Validation failed",
	}
}

// WithMessage sets the top-level message returned when any field fails.
func (v *ValidationBuilder) WithMessage(message string) *ValidationBuilder {
	v.message = message
	return v
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

// Required rejects absent values: empty strings and nil pointers. Whitespace counts as a value.
func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case string:
			missing = v == ""
		case *string:
			missing = v == nil || *v == ""
		case *float64:
			missing = v == nil
		case nil:
			missing = true
		}
		if missing {
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeRequiredField)
		}
		return nil
	})
	return fv
}

// NotBlank accepts an absent pointer but rejects a present, empty value.
func (fv *FieldValidator) NotBlank() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(*string); ok && v != nil && strings.TrimSpace(*v) == "" {
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s cannot be empty", fv.FieldName), errors.ErrCodeRequiredField)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v == nil {
				return nil
			}
			s = *v
		default:
			return nil
		}
		if len(s) > max {
			message := fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max)
			return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// Validate runs every validator and folds the failures into a single
// validation error carrying one detail per failed check.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
				continue
			}
			validationErrors = append(validationErrors, errors.ValidationError{
				Field:   field.FieldName,
				Message: appErr.Message,
				Code:    string(appErr.Code),
			})
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError(v.message, errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// IsValidID reports whether id is a well-formed store identifier (24 hex chars).
func IsValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// NewID returns a fresh identifier in the same format the document store assigns.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
