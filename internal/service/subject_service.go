package service

import (
	"context"
	"errors"
	"fmt"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SubjectService struct {
	SubjectRepo *repository.SubjectRepository
}

func NewSubjectService(subjectRepo *repository.SubjectRepository) *SubjectService {
	return &SubjectService{SubjectRepo: subjectRepo}
}

type SubjectRequest struct {
	Name         string `json:"name" binding:"required"`
	ScheduledDay string `json:"scheduledDay" binding:"required"`
}

// SubjectForWeekday 查询排在 weekday 的科目；没有排课返回 ErrNoSubjectScheduled
func (s *SubjectService) SubjectForWeekday(ctx context.Context, weekday string) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindByScheduledDay(ctx, weekday)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoSubjectScheduled
		}
		logger.Log.Error("Failed to load scheduled subject", zap.String("weekday", weekday), zap.Error(err))
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	return s.SubjectRepo.List(ctx)
}

func (s *SubjectService) Get(ctx context.Context, id uint) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubjectNotFound
	}
	return subject, err
}

func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*model.Subject, error) {
	day, err := normalizeWeekday(req.ScheduledDay)
	if err != nil {
		return nil, err
	}
	subject := &model.Subject{Name: strings.TrimSpace(req.Name), ScheduledDay: day}
	if err := s.SubjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Update(ctx context.Context, id uint, req SubjectRequest) (*model.Subject, error) {
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	day, err := normalizeWeekday(req.ScheduledDay)
	if err != nil {
		return nil, err
	}
	subject.Name = strings.TrimSpace(req.Name)
	subject.ScheduledDay = day
	if err := s.SubjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// Delete 科目下的题目不会被一起删除
func (s *SubjectService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.SubjectRepo.Delete(ctx, id)
}

// normalizeWeekday 接受任意大小写，如 "monday" -> "Monday"
func normalizeWeekday(day string) (string, error) {
	day = strings.TrimSpace(day)
	for _, d := range model.Weekdays {
		if strings.EqualFold(d, day) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", util.ErrInvalidWeekday, day)
}
