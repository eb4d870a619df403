package service

import (
	"context"
	"errors"
	"mindleap_backend/internal/config"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo    *repository.UserRepository
	StudentRepo *repository.StudentRepository
	Cfg         *config.Config
	Cache       LeaderboardInvalidator
}

func NewAuthService(userRepo *repository.UserRepository, studentRepo *repository.StudentRepository, cfg *config.Config, cache LeaderboardInvalidator) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		StudentRepo: studentRepo,
		Cfg:         cfg,
		Cache:       cache,
	}
}

// RegisterRequest 学生注册
type RegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Grade      string `json:"grade"`
	SchoolName string `json:"schoolName"`
	SchoolCode string `json:"schoolCode"`
	District   string `json:"district"`
	Phone      string `json:"phone"`
}

type LoginResult struct {
	Token   string         `json:"token"`
	User    *model.User    `json:"user"`
	Student *model.Student `json:"student,omitempty"`
}

// Register 在同一事务中创建登录用户和学生资料
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.Student, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var student *model.Student
	err = s.UserRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &model.User{
			Email:    email,
			Password: string(hashedPassword),
			Role:     model.RoleStudent,
		}
		if err := s.UserRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		student = &model.Student{
			UserID:     &user.ID,
			Name:       strings.TrimSpace(req.Name),
			Email:      email,
			Grade:      req.Grade,
			SchoolName: req.SchoolName,
			SchoolCode: strings.TrimSpace(req.SchoolCode),
			District:   req.District,
			Phone:      req.Phone,
		}
		return s.StudentRepo.WithTx(tx).Create(ctx, student)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	logger.Log.Info("Student registered", zap.Uint("studentId", student.ID), zap.String("email", email))
	invalidateLeaderboard(ctx, s.Cache)
	return student, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if user.Disabled {
		return nil, util.ErrAccountDisabled
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("userId", user.ID), zap.Error(err))
	}
	user.LastLogin = &now

	result := &LoginResult{Token: token, User: user}
	if user.Role == model.RoleStudent {
		if student, err := s.StudentRepo.FindByUserID(ctx, user.ID); err == nil {
			result.Student = student
		}
	}
	return result, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, err := s.UserRepo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil
	}
	return user
}
