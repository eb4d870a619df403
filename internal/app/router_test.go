package app

import (
	"context"
	"fmt"
	"mindleap_backend/internal/config"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/testutil"
	"mindleap_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routerTestSecret = "router-test-secret-that-is-long-enough"

func newTestApp(t *testing.T) (*App, *services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: routerTestSecret, ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
		Streak:  config.StreakConfig{Timezone: "UTC", RecentWindow: 30},
	}
	db := testutil.NewDB(t)
	a := &App{Config: cfg, DB: db, Router: gin.New()}

	s := a.initServices(a.initRepositories(db), cfg, nil)
	a.registerRoutes(a.Router, a.initControllers(s, db, nil), s)
	return a, s
}

func TestRegisterRoutes_AdminRouteTable(t *testing.T) {
	a, _ := newTestApp(t)

	registered := make(map[string]bool)
	for _, r := range a.Router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"PUT /api/admin/users/:id/reset-password",
		"PUT /api/admin/users/:id/disable",
		"GET /api/admin/users",
		"POST /api/admin/sub-admins",
		"GET /api/admin/sub-admins",
		"PUT /api/admin/sub-admins/:id",
		"DELETE /api/admin/sub-admins/:id",
		"PUT /api/password",
		"POST /api/streak/answer",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
	assert.False(t, registered["POST /api/admin/users/:id/reset-password"])
}

func TestRegisterRoutes_AdminUpdatesSubAdminPermissions(t *testing.T) {
	a, s := newTestApp(t)
	ctx := context.Background()

	admin := &model.User{Email: "admin@example.com", Password: "x", Role: model.RoleAdmin}
	require.NoError(t, s.user.UserRepo.Create(ctx, admin))
	adminToken, err := util.GenerateJWT(admin, routerTestSecret, time.Hour)
	require.NoError(t, err)

	sa, err := s.subAdmin.Create(ctx, admin.ID, service.SubAdminRequest{
		Name: "Ops", Email: "ops@example.com", Password: "password1", Permissions: []string{service.PermEvents},
	})
	require.NoError(t, err)
	subUser := &model.User{Email: sa.Email, Role: model.RoleSubAdmin}
	subUser.ID = sa.UserID
	subToken, err := util.GenerateJWT(subUser, routerTestSecret, time.Hour)
	require.NoError(t, err)

	put := func(token, body string) int {
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/admin/sub-admins/%d", sa.ID), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		a.Router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, put(subToken, `{"permissions":["catalog"]}`))
	assert.Equal(t, http.StatusBadRequest, put(adminToken, `{"permissions":["billing"]}`))
	assert.Equal(t, http.StatusOK, put(adminToken, `{"permissions":["catalog"]}`))

	ok, err := s.subAdmin.HasPermission(ctx, sa.UserID, service.PermCatalog)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.subAdmin.HasPermission(ctx, sa.UserID, service.PermEvents)
	require.NoError(t, err)
	assert.False(t, ok)
}
