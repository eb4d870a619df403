package service

import (
	"context"
	"encoding/json"
	"errors"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 子管理员可被授予的权限
const (
	PermCatalog   = "catalog"
	PermQuizzes   = "quizzes"
	PermEvents    = "events"
	PermInquiries = "inquiries"
)

var AllPermissions = []string{PermCatalog, PermQuizzes, PermEvents, PermInquiries}

type SubAdminService struct {
	UserRepo     *repository.UserRepository
	SubAdminRepo *repository.SubAdminRepository
}

func NewSubAdminService(userRepo *repository.UserRepository, subAdminRepo *repository.SubAdminRepository) *SubAdminService {
	return &SubAdminService{
		UserRepo:     userRepo,
		SubAdminRepo: subAdminRepo,
	}
}

type SubAdminRequest struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	Permissions []string `json:"permissions"`
}

// Create 同一事务内创建 role=subadmin 的登录用户和子管理员资料
func (s *SubAdminService) Create(ctx context.Context, createdBy uint, req SubAdminRequest) (*model.SubAdmin, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	perms := req.Permissions
	if len(perms) == 0 {
		perms = AllPermissions
	}
	permsJSON, err := encodePermissions(perms)
	if err != nil {
		return nil, err
	}

	if _, err := s.UserRepo.FindByEmail(ctx, email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var sa *model.SubAdmin
	err = s.UserRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &model.User{Email: email, Password: string(hashedPassword), Role: model.RoleSubAdmin}
		if err := s.UserRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		sa = &model.SubAdmin{
			UserID:      user.ID,
			Name:        strings.TrimSpace(req.Name),
			Email:       email,
			Permissions: permsJSON,
			CreatedBy:   createdBy,
		}
		return s.SubAdminRepo.WithTx(tx).Create(ctx, sa)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	logger.Log.Info("Sub-admin created", zap.Uint("subAdminId", sa.ID), zap.Uint("createdBy", createdBy))
	return sa, nil
}

func (s *SubAdminService) List(ctx context.Context) ([]model.SubAdmin, error) {
	return s.SubAdminRepo.List(ctx)
}

type PermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// UpdatePermissions 整体替换权限集合，空集合表示收回全部权限
func (s *SubAdminService) UpdatePermissions(ctx context.Context, id uint, perms []string) (*model.SubAdmin, error) {
	permsJSON, err := encodePermissions(perms)
	if err != nil {
		return nil, err
	}
	if _, err := s.SubAdminRepo.FindByID(ctx, id); err != nil {
		return nil, notFoundAs(err, util.ErrSubAdminNotFound)
	}
	if err := s.SubAdminRepo.UpdatePermissions(ctx, id, permsJSON); err != nil {
		return nil, err
	}

	logger.Log.Info("Sub-admin permissions updated", zap.Uint("subAdminId", id), zap.Strings("permissions", perms))
	return s.SubAdminRepo.FindByID(ctx, id)
}

// Delete 同时删除对应的登录用户
func (s *SubAdminService) Delete(ctx context.Context, id uint) error {
	sa, err := s.SubAdminRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, util.ErrSubAdminNotFound)
	}
	return s.UserRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.SubAdminRepo.WithTx(tx).Delete(ctx, sa.ID); err != nil {
			return err
		}
		return s.UserRepo.WithTx(tx).Delete(ctx, sa.UserID)
	})
}

// HasPermission 按登录用户查询子管理员是否拥有某项权限
func (s *SubAdminService) HasPermission(ctx context.Context, userID uint, perm string) (bool, error) {
	sa, err := s.SubAdminRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	var perms []string
	if err := json.Unmarshal(sa.Permissions, &perms); err != nil {
		return false, err
	}
	for _, p := range perms {
		if p == perm {
			return true, nil
		}
	}
	return false, nil
}

// encodePermissions 校验并去重后存成 JSON 数组
func encodePermissions(perms []string) (datatypes.JSON, error) {
	seen := make(map[string]bool, len(perms))
	clean := make([]string, 0, len(perms))
	for _, p := range perms {
		if !isPermission(p) {
			return nil, util.ErrInvalidPermission
		}
		if !seen[p] {
			seen[p] = true
			clean = append(clean, p)
		}
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func isPermission(p string) bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}
