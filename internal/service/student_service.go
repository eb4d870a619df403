package service

import (
	"context"
	"errors"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type StudentService struct {
	StudentRepo *repository.StudentRepository
	Streaks     *StreakService
	Cache       LeaderboardInvalidator
}

func NewStudentService(studentRepo *repository.StudentRepository, streaks *StreakService, cache LeaderboardInvalidator) *StudentService {
	return &StudentService{StudentRepo: studentRepo, Streaks: streaks, Cache: cache}
}

// ProfileView 学生资料及连续作答概况
type ProfileView struct {
	Student *model.Student `json:"student"`
	Streak  *StreakSummary `json:"streak"`
}

// ProfileUpdateRequest 空字段保持不变
type ProfileUpdateRequest struct {
	Name       string `json:"name"`
	Grade      string `json:"grade"`
	SchoolName string `json:"schoolName"`
	SchoolCode string `json:"schoolCode"`
	District   string `json:"district"`
	Phone      string `json:"phone"`
}

// ByUserID 当前登录用户对应的学生记录
func (s *StudentService) ByUserID(ctx context.Context, userID uint) (*model.Student, error) {
	student, err := s.StudentRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *StudentService) Profile(ctx context.Context, userID uint) (*ProfileView, error) {
	student, err := s.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := s.Streaks.Summary(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Student: student, Streak: summary}, nil
}

func (s *StudentService) UpdateProfile(ctx context.Context, userID uint, req ProfileUpdateRequest) (*model.Student, error) {
	student, err := s.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prevSchool := student.SchoolCode
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&student.Name, req.Name)
	set(&student.Grade, req.Grade)
	set(&student.SchoolName, req.SchoolName)
	set(&student.SchoolCode, req.SchoolCode)
	set(&student.District, req.District)
	set(&student.Phone, req.Phone)

	if err := s.StudentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	// 排行榜按学校过滤，换学校后两边的榜单都变了
	if student.SchoolCode != prevSchool {
		invalidateLeaderboard(ctx, s.Cache)
	}
	return student, nil
}

// List 管理端学生列表
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return s.StudentRepo.ListAll(ctx)
}
