package repository

import (
	"context"
	"mindleap_backend/internal/model"

	"gorm.io/gorm"
)

type InquiryRepository struct {
	DB *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{DB: db}
}

func (r *InquiryRepository) CreateSchoolRequest(ctx context.Context, req *model.SchoolRequest) error {
	return r.DB.WithContext(ctx).Create(req).Error
}

func (r *InquiryRepository) ListSchoolRequests(ctx context.Context, status string, page, limit int) ([]model.SchoolRequest, int64, error) {
	var (
		reqs  []model.SchoolRequest
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.SchoolRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&reqs).Error
	return reqs, total, err
}

func (r *InquiryRepository) UpdateSchoolRequestStatus(ctx context.Context, id uint, status model.SchoolRequestStatus) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.SchoolRequest{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}

func (r *InquiryRepository) CreateContactQuery(ctx context.Context, q *model.ContactQuery) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *InquiryRepository) ListContactQueries(ctx context.Context, resolved *bool, page, limit int) ([]model.ContactQuery, int64, error) {
	var (
		queries []model.ContactQuery
		total   int64
	)
	q := r.DB.WithContext(ctx).Model(&model.ContactQuery{})
	if resolved != nil {
		q = q.Where("resolved = ?", *resolved)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&queries).Error
	return queries, total, err
}

func (r *InquiryRepository) SetContactQueryResolved(ctx context.Context, id uint, resolved bool) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.ContactQuery{}).
		Where("id = ?", id).
		Update("resolved", resolved)
	return res.RowsAffected > 0, res.Error
}
