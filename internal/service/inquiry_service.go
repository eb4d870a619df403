package service

import (
	"context"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

type InquiryService struct {
	InquiryRepo *repository.InquiryRepository
}

func NewInquiryService(inquiryRepo *repository.InquiryRepository) *InquiryService {
	return &InquiryService{InquiryRepo: inquiryRepo}
}

// SchoolRequestInput 官网“学校合作”表单
type SchoolRequestInput struct {
	SchoolName  string `json:"schoolName" binding:"required"`
	ContactName string `json:"contactName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"omitempty,max=30"`
	City        string `json:"city"`
	Message     string `json:"message" binding:"max=5000"`
}

// ContactQueryInput 官网“联系我们”表单
type ContactQueryInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required,max=5000"`
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func (s *InquiryService) SubmitSchoolRequest(ctx context.Context, in SchoolRequestInput) (*model.SchoolRequest, error) {
	req := &model.SchoolRequest{
		SchoolName:  strings.TrimSpace(in.SchoolName),
		ContactName: strings.TrimSpace(in.ContactName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       in.Phone,
		City:        in.City,
		Message:     in.Message,
		Status:      model.SchoolRequestNew,
	}
	if err := s.InquiryRepo.CreateSchoolRequest(ctx, req); err != nil {
		return nil, err
	}
	logger.Log.Info("School request received", zap.Uint("id", req.ID), zap.String("school", req.SchoolName))
	return req, nil
}

func (s *InquiryService) SubmitContactQuery(ctx context.Context, in ContactQueryInput) (*model.ContactQuery, error) {
	q := &model.ContactQuery{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := s.InquiryRepo.CreateContactQuery(ctx, q); err != nil {
		return nil, err
	}
	logger.Log.Info("Contact query received", zap.Uint("id", q.ID))
	return q, nil
}

func (s *InquiryService) ListSchoolRequests(ctx context.Context, status string, page, limit int) (*Page[model.SchoolRequest], error) {
	if status != "" && !validSchoolRequestStatus(model.SchoolRequestStatus(status)) {
		return nil, util.ErrInvalidStatus
	}
	items, total, err := s.InquiryRepo.ListSchoolRequests(ctx, status, page, limit)
	if err != nil {
		return nil, err
	}
	return &Page[model.SchoolRequest]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *InquiryService) UpdateSchoolRequestStatus(ctx context.Context, id uint, status model.SchoolRequestStatus) error {
	if !validSchoolRequestStatus(status) {
		return util.ErrInvalidStatus
	}
	ok, err := s.InquiryRepo.UpdateSchoolRequestStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrInquiryNotFound
	}
	return nil
}

func (s *InquiryService) ListContactQueries(ctx context.Context, resolved *bool, page, limit int) (*Page[model.ContactQuery], error) {
	items, total, err := s.InquiryRepo.ListContactQueries(ctx, resolved, page, limit)
	if err != nil {
		return nil, err
	}
	return &Page[model.ContactQuery]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *InquiryService) ResolveContactQuery(ctx context.Context, id uint, resolved bool) error {
	ok, err := s.InquiryRepo.SetContactQueryResolved(ctx, id, resolved)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrInquiryNotFound
	}
	return nil
}

func validSchoolRequestStatus(s model.SchoolRequestStatus) bool {
	switch s {
	case model.SchoolRequestNew, model.SchoolRequestContacted, model.SchoolRequestClosed:
		return true
	}
	return false
}
