package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/employee-api/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/employee"
	"github.com/frahmantamala/employee-api/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository stores employees through gorm (postgres in production, sqlite in tests).
// The gorm handle must be opened with TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetAll(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	var employees []*employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error) {
	return r.first(r.db.WithContext(ctx), "email = ?", email)
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	if e.ID == "" {
		e.ID = validation.NewID()
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, patch employeeDatamodel.Patch) (*employeeDatamodel.Employee, error) {
	var updated *employeeDatamodel.Employee

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.first(tx, "id = ?", id)
		if err != nil || current == nil {
			return err
		}

		if !patch.IsEmpty() {
			changes := patchColumns(patch)
			changes["updated_at"] = time.Now()
			if err := tx.Model(&employeeDatamodel.Employee{}).Where("id = ?", id).Updates(changes).Error; err != nil {
				return translate(err)
			}
		}

		updated, err = r.first(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	var deleted *employeeDatamodel.Employee

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.first(tx, "id = ?", id)
		if err != nil || current == nil {
			return err
		}
		if err := tx.Delete(&employeeDatamodel.Employee{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return deleted, nil
}

// DeleteAll empties the table. Only the seed command uses it.
func (r *EmployeeRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&employeeDatamodel.Employee{})
	return res.RowsAffected, res.Error
}

func (r *EmployeeRepository) first(db *gorm.DB, query string, args ...interface{}) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := db.Where(query, args...).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func patchColumns(p employeeDatamodel.Patch) map[string]interface{} {
	changes := make(map[string]interface{})
	if p.FirstName != nil {
		changes["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		changes["last_name"] = *p.LastName
	}
	if p.Email != nil {
		changes["email"] = *p.Email
	}
	if p.Department != nil {
		changes["department"] = *p.Department
	}
	if p.Position != nil {
		changes["position"] = *p.Position
	}
	if p.Salary != nil {
		changes["salary"] = *p.Salary
	}
	return changes
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return employee.ErrEmailTaken
	}
	return fmt.Errorf("employees: %w", err)
}
