package database

import (
	"context"
	"errors"

	"github.com/inkwell-app/inkwell-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByEmail returns the user registered under email, or nil when no such
// user exists.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailAndPassword returns the user matching both credentials, or nil
// when either is wrong. The password column holds the submitted value
// verbatim, so this is a direct equality match.
func (r *UserRepo) FindByEmailAndPassword(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ? AND password = ?", email, password).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user. A duplicate email violates the unique index and
// surfaces as gorm.ErrDuplicatedKey.
func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}
