package repository

import (
	"context"
	"mindleap_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) WithTx(tx *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: tx}
}

func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	return r.DB.WithContext(ctx).Create(student).Error
}

func (r *StudentRepository) FindByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.WithContext(ctx).First(&student, id).Error
	return &student, err
}

func (r *StudentRepository) FindByUserID(ctx context.Context, userID uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error
	return &student, err
}

func (r *StudentRepository) Update(ctx context.Context, student *model.Student) error {
	return r.DB.WithContext(ctx).Save(student).Error
}

// ListAll 按 ID 升序返回全部学生，排行榜依赖这个顺序作为同分时的次序
func (r *StudentRepository) ListAll(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&students).Error
	return students, err
}
