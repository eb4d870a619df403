package repository

import (
	"context"
	"mindleap_backend/internal/model"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) ListWebinars(ctx context.Context, publishedOnly bool) ([]model.Webinar, error) {
	var webinars []model.Webinar
	q := r.DB.WithContext(ctx).Order("starts_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&webinars).Error
	return webinars, err
}

func (r *EventRepository) FindWebinar(ctx context.Context, id uint) (*model.Webinar, error) {
	var w model.Webinar
	err := r.DB.WithContext(ctx).First(&w, id).Error
	return &w, err
}

func (r *EventRepository) SaveWebinar(ctx context.Context, w *model.Webinar) error {
	return r.DB.WithContext(ctx).Save(w).Error
}

func (r *EventRepository) DeleteWebinar(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Delete(&model.Webinar{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *EventRepository) ListWorkshops(ctx context.Context, publishedOnly bool) ([]model.Workshop, error) {
	var workshops []model.Workshop
	q := r.DB.WithContext(ctx).Order("starts_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&workshops).Error
	return workshops, err
}

func (r *EventRepository) FindWorkshop(ctx context.Context, id uint) (*model.Workshop, error) {
	var w model.Workshop
	err := r.DB.WithContext(ctx).First(&w, id).Error
	return &w, err
}

func (r *EventRepository) SaveWorkshop(ctx context.Context, w *model.Workshop) error {
	return r.DB.WithContext(ctx).Save(w).Error
}

func (r *EventRepository) DeleteWorkshop(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Delete(&model.Workshop{}, id)
	return res.RowsAffected > 0, res.Error
}
