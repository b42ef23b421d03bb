package repository

import (
	"context"
	"errors"

	"famtasks/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	SetFamily(ctx context.Context, userID uuid.UUID, familyID uuid.UUID, role string) error
	ListByFamily(ctx context.Context, familyID uuid.UUID) ([]model.User, error)
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetFamily attaches a user to a family with the given role.
func (r *UserRepository) SetFamily(ctx context.Context, userID uuid.UUID, familyID uuid.UUID, role string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"family_id": familyID, "role": role})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListByFamily returns all members of a family
func (r *UserRepository) ListByFamily(ctx context.Context, familyID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("family_id = ?", familyID).Order("created_at").Find(&users).Error
	return users, err
}
