package repository

import (
	"context"
	"mindleap_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) List(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) FindByID(ctx context.Context, id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.WithContext(ctx).First(&subject, id).Error
	return &subject, err
}

// FindByScheduledDay 同一天排了多个科目时取 ID 最小的一个
func (r *SubjectRepository) FindByScheduledDay(ctx context.Context, day string) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.WithContext(ctx).
		Where("scheduled_day = ?", day).
		Order("id ASC").
		First(&subject).Error
	return &subject, err
}

func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	return r.DB.WithContext(ctx).Create(subject).Error
}

func (r *SubjectRepository) Update(ctx context.Context, subject *model.Subject) error {
	return r.DB.WithContext(ctx).Save(subject).Error
}

// Delete 不级联删除题目
func (r *SubjectRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Subject{}, id).Error
}
