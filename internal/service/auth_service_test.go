package service

import (
	"context"
	"mindleap_backend/internal/config"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/testutil"
	"mindleap_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-that-is-long-enough!"

func newAuthServices(t *testing.T) (*gorm.DB, *AuthService, *UserService, *SubAdminService) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour}}
	users := repository.NewUserRepository(db)
	students := repository.NewStudentRepository(db)
	return db,
		NewAuthService(users, students, cfg, nil),
		NewUserService(users),
		NewSubAdminService(users, repository.NewSubAdminRepository(db))
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	_, auth, _, _ := newAuthServices(t)
	ctx := context.Background()

	student, err := auth.Register(ctx, RegisterRequest{
		Name: "Meera", Email: " Meera@Example.com ", Password: "secret1", SchoolCode: "KV01",
	})
	require.NoError(t, err)
	require.NotNil(t, student.UserID)
	assert.Equal(t, "meera@example.com", student.Email)

	res, err := auth.Login(ctx, "MEERA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, res.User.Role)
	require.NotNil(t, res.Student)
	assert.Equal(t, student.ID, res.Student.ID)

	claims, err := util.ParseJWT(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, *student.UserID, claims.UserID)

	_, err = auth.Login(ctx, "meera@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = auth.Register(ctx, RegisterRequest{Name: "Other", Email: "meera@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestUserService_DisableAndPasswords(t *testing.T) {
	db, auth, users, _ := newAuthServices(t)
	ctx := context.Background()

	student, err := auth.Register(ctx, RegisterRequest{Name: "Kabir", Email: "kabir@example.com", Password: "secret1"})
	require.NoError(t, err)
	uid := *student.UserID

	require.NoError(t, users.DisableUser(ctx, uid, true))
	_, err = auth.Login(ctx, "kabir@example.com", "secret1")
	assert.ErrorIs(t, err, util.ErrAccountDisabled)
	require.NoError(t, users.DisableUser(ctx, uid, false))

	temp, err := users.ResetPassword(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, temp, 12)
	_, err = auth.Login(ctx, "kabir@example.com", temp)
	require.NoError(t, err)

	assert.ErrorIs(t, users.ChangePassword(ctx, uid, "wrong", "newpass"), util.ErrInvalidCredentials)
	require.NoError(t, users.ChangePassword(ctx, uid, temp, "newpass"))
	_, err = auth.Login(ctx, "kabir@example.com", "newpass")
	require.NoError(t, err)

	admin := &model.User{Email: "root@example.com", Password: "x", Role: model.RoleAdmin}
	require.NoError(t, db.Create(admin).Error)
	assert.ErrorIs(t, users.DisableUser(ctx, admin.ID, true), util.ErrPermissionDenied)
	assert.ErrorIs(t, users.DisableUser(ctx, 999, true), util.ErrUserNotFound)
}

func TestSubAdminService_Permissions(t *testing.T) {
	_, auth, _, subAdmins := newAuthServices(t)
	ctx := context.Background()

	sa, err := subAdmins.Create(ctx, 1, SubAdminRequest{
		Name: "Ops", Email: "ops@example.com", Password: "password1", Permissions: []string{PermEvents},
	})
	require.NoError(t, err)

	ok, err := subAdmins.HasPermission(ctx, sa.UserID, PermEvents)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = subAdmins.HasPermission(ctx, sa.UserID, PermCatalog)
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := auth.Login(ctx, "ops@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSubAdmin, res.User.Role)
	assert.Nil(t, res.Student)

	_, err = subAdmins.Create(ctx, 1, SubAdminRequest{Name: "Dup", Email: "ops@example.com", Password: "password1"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
	_, err = subAdmins.Create(ctx, 1, SubAdminRequest{Name: "Bad", Email: "bad@example.com", Password: "password1", Permissions: []string{"billing"}})
	assert.ErrorIs(t, err, util.ErrInvalidPermission)

	require.NoError(t, subAdmins.Delete(ctx, sa.ID))
	ok, err = subAdmins.HasPermission(ctx, sa.UserID, PermEvents)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, subAdmins.Delete(ctx, sa.ID), util.ErrSubAdminNotFound)

	// 删除后邮箱可以重新使用
	_, err = subAdmins.Create(ctx, 1, SubAdminRequest{Name: "Ops 2", Email: "ops@example.com", Password: "password2"})
	assert.NoError(t, err)
}

func TestSubAdminService_UpdatePermissions(t *testing.T) {
	_, _, _, subAdmins := newAuthServices(t)
	ctx := context.Background()

	sa, err := subAdmins.Create(ctx, 1, SubAdminRequest{
		Name: "Ops", Email: "ops@example.com", Password: "password1", Permissions: []string{PermEvents},
	})
	require.NoError(t, err)

	updated, err := subAdmins.UpdatePermissions(ctx, sa.ID, []string{PermCatalog, PermQuizzes, PermCatalog})
	require.NoError(t, err)
	assert.JSONEq(t, `["catalog","quizzes"]`, string(updated.Permissions))

	tests := []struct {
		perm string
		want bool
	}{
		{PermCatalog, true},
		{PermQuizzes, true},
		{PermEvents, false},
		{PermInquiries, false},
	}
	for _, tt := range tests {
		t.Run(tt.perm, func(t *testing.T) {
			ok, err := subAdmins.HasPermission(ctx, sa.UserID, tt.perm)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	_, err = subAdmins.UpdatePermissions(ctx, sa.ID, []string{"billing"})
	assert.ErrorIs(t, err, util.ErrInvalidPermission)
	ok, err := subAdmins.HasPermission(ctx, sa.UserID, PermCatalog)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = subAdmins.UpdatePermissions(ctx, sa.ID+100, []string{PermEvents})
	assert.ErrorIs(t, err, util.ErrSubAdminNotFound)

	_, err = subAdmins.UpdatePermissions(ctx, sa.ID, nil)
	require.NoError(t, err)
	ok, err = subAdmins.HasPermission(ctx, sa.UserID, PermCatalog)
	require.NoError(t, err)
	assert.False(t, ok)
}
