package employee

import (
	"context"
	stderrors "errors"
	"log/slog"

	errors "github.com/frahmantamala/employee-api/internal"
	employeeDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/employee"
	"github.com/frahmantamala/employee-api/internal/core/common/validation"
)

// RepositoryAPI is the employees collection. Lookups return (nil, nil) when
// nothing matches; writes that break email uniqueness return ErrEmailTaken.
type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error)
	GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, employee *employeeDatamodel.Employee) error
	Update(ctx context.Context, id string, patch employeeDatamodel.Patch) (*employeeDatamodel.Employee, error)
	Delete(ctx context.Context, id string) (*employeeDatamodel.Employee, error)
}

var (
	errInvalidID     = errors.NewInvalidIdentifierError("Invalid employee ID format")
	errNotFound      = errors.NewNotFoundError("Employee not found", errors.ErrCodeEmployeeNotFound)
	errEmailConflict = errors.NewConflictError("Employee with this email already exists", errors.ErrCodeEmployeeExists)
)

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

func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, errors.NewInternalError("Server error while fetching employees", err)
	}

	employees := make([]*Employee, 0, len(records))
	for _, record := range records {
		employees = append(employees, FromDataModel(record))
	}

	s.logger.Debug("retrieved employees", "count", len(employees))
	return employees, nil
}

func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	if !validation.IsValidID(id) {
		return nil, errInvalidID
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get employee", "employee_id", id, "error", err)
		return nil, errors.NewInternalError("Server error while fetching employee", err)
	}
	if record == nil {
		return nil, errNotFound
	}

	return FromDataModel(record), nil
}

func (s *Service) CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to check employee email", "error", err)
		return nil, errors.NewInternalError("Server error while creating employee", err)
	}
	if existing != nil {
		return nil, errEmailConflict
	}

	record := ToDataModel(NewEmployee(dto))
	if err := s.repo.Create(ctx, record); err != nil {
		if stderrors.Is(err, ErrEmailTaken) {
			return nil, errEmailConflict
		}
		s.logger.Error("failed to create employee", "error", err)
		return nil, errors.NewInternalError("Server error while creating employee", err)
	}

	s.logger.Info("employee created", "employee_id", record.ID)
	return FromDataModel(record), nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, dto UpdateEmployeeDTO) (*Employee, error) {
	if !validation.IsValidID(id) {
		return nil, errInvalidID
	}
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	if dto.Email != nil {
		existing, err := s.repo.GetByEmail(ctx, *dto.Email)
		if err != nil {
			s.logger.Error("failed to check employee email", "employee_id", id, "error", err)
			return nil, errors.NewInternalError("Server error while updating employee", err)
		}
		if existing != nil && existing.ID != id {
			return nil, errEmailConflict
		}
	}

	record, err := s.repo.Update(ctx, id, dto.ToPatch())
	if err != nil {
		if stderrors.Is(err, ErrEmailTaken) {
			return nil, errEmailConflict
		}
		s.logger.Error("failed to update employee", "employee_id", id, "error", err)
		return nil, errors.NewInternalError("Server error while updating employee", err)
	}
	if record == nil {
		return nil, errNotFound
	}

	s.logger.Info("employee updated", "employee_id", id)
	return FromDataModel(record), nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id string) (*Employee, error) {
	if !validation.IsValidID(id) {
		return nil, errInvalidID
	}

	record, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete employee", "employee_id", id, "error", err)
		return nil, errors.NewInternalError("Server error while deleting employee", err)
	}
	if record == nil {
		return nil, errNotFound
	}

	s.logger.Info("employee deleted", "employee_id", id)
	return FromDataModel(record), nil
}
