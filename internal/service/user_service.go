package service

import (
	"context"
	"errors"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserFilter 定义用户筛选条件
// swagger:model UserFilter
type UserFilter struct {
	Role   string
	Status string
	Search string
}

// UserService 管理员对登录账号的管理
type UserService struct {
	UserRepo *repository.UserRepository
}

// NewUserService 创建一个新的用户服务实例
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

// GetUsers 获取用户列表，支持分页和筛选
func (s *UserService) GetUsers(ctx context.Context, page, pageSize int, filter UserFilter) ([]model.User, int, error) {
	var users []model.User
	var total int64

	query := s.UserRepo.DB.WithContext(ctx).Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	switch filter.Status {
	case "active":
		query = query.Where("last_login > ?", time.Now().Add(-30*24*time.Hour))
	case "disabled":
		query = query.Where("disabled = ?", true)
	}

	if filter.Search != "" {
		query = query.Where("email LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, int(total), nil
}

// DisableUser 禁用/启用用户，管理员账号不能被禁用
func (s *UserService) DisableUser(ctx context.Context, id uint, disable bool) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == model.RoleAdmin && disable {
		return util.ErrPermissionDenied
	}

	user.Disabled = disable
	return s.UserRepo.Update(ctx, user)
}

// ResetPassword 重置用户密码，返回临时密码
func (s *UserService) ResetPassword(ctx context.Context, userID uint) (string, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return "", err
	}

	tempPassword := generateTempPassword()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user.Password = string(hashedPassword)
	if err := s.UserRepo.Update(ctx, user); err != nil {
		return "", err
	}

	return tempPassword, nil
}

// ChangePassword 用户自行修改密码
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.find(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return util.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Update(ctx, user)
}

func (s *UserService) find(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// generateTempPassword 生成 12 位临时密码
func generateTempPassword() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
