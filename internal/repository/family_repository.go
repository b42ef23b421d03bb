package repository

import (
	"context"
	"errors"

	"famtasks/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FamilyRepository struct {
	db *gorm.DB
}

func NewFamilyRepository(db *gorm.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

func (r *FamilyRepository) Create(ctx context.Context, family *model.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *FamilyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Family, error) {
	var family model.Family
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&family).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFamilyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &family, nil
}
