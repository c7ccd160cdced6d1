package repository

import (
	"context"

	"medialibrary_backend/internals/features/catalog/branches/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ListBranches(ctx context.Context, db *gorm.DB) ([]model.BranchModel, error) {
	var rows []model.BranchModel
	if err := db.WithContext(ctx).Order("branch_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func GetByID(db *gorm.DB, id uuid.UUID) (*model.BranchModel, error) {
	var b model.BranchModel
	if err := db.Where("branch_id = ?", id).Take(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func FindByName(db *gorm.DB, name string) (*model.BranchModel, error) {
	var b model.BranchModel
	if err := db.Where("branch_name = ?", name).Take(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func CreateBranch(db *gorm.DB, b *model.BranchModel) error {
	return db.Create(b).Error
}
