package repository

import (
	"context"
	"mindleap_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubAdminRepository struct {
	DB *gorm.DB
}

func NewSubAdminRepository(db *gorm.DB) *SubAdminRepository {
	return &SubAdminRepository{DB: db}
}

func (r *SubAdminRepository) WithTx(tx *gorm.DB) *SubAdminRepository {
	return &SubAdminRepository{DB: tx}
}

func (r *SubAdminRepository) Create(ctx context.Context, sa *model.SubAdmin) error {
	return r.DB.WithContext(ctx).Create(sa).Error
}

func (r *SubAdminRepository) List(ctx context.Context) ([]model.SubAdmin, error) {
	var list []model.SubAdmin
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *SubAdminRepository) FindByID(ctx context.Context, id uint) (*model.SubAdmin, error) {
	var sa model.SubAdmin
	err := r.DB.WithContext(ctx).First(&sa, id).Error
	return &sa, err
}

func (r *SubAdminRepository) FindByUserID(ctx context.Context, userID uint) (*model.SubAdmin, error) {
	var sa model.SubAdmin
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&sa).Error
	return &sa, err
}

func (r *SubAdminRepository) UpdatePermissions(ctx context.Context, id uint, perms datatypes.JSON) error {
	return r.DB.WithContext(ctx).Model(&model.SubAdmin{}).Where("id = ?", id).Update("permissions", perms).Error
}

func (r *SubAdminRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Unscoped().Delete(&model.SubAdmin{}, id).Error
}
