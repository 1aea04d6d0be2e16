package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/employee-api/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/user"
	"github.com/frahmantamala/employee-api/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	if u.ID == "" {
		u.ID = validation.NewID()
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("users: %w", err)
	}
	return nil
}

// DeleteAll empties the table. Only the seed command uses it.
func (r *UserRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&userDatamodel.User{})
	return res.RowsAffected, res.Error
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
