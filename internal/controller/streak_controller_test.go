package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/testutil"
	"mindleap_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type streakEnv struct {
	router *gin.Engine
}

// newStreakEnv 周一 10 点，Math 排在周一，只有一道正确答案为 b 的题
func newStreakEnv(t *testing.T, withSubject bool) *streakEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	clock := &testutil.Clock{T: testutil.Day(t, "2024-06-03", 10)}
	cal := service.NewCalendar(time.UTC, clock.Now)
	ctx := context.Background()

	subjectRepo := repository.NewSubjectRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	dailyRepo := repository.NewDailyQuestionRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	if withSubject {
		subject := &model.Subject{Name: "Math", ScheduledDay: "Monday"}
		require.NoError(t, subjectRepo.Create(ctx, subject))
		opts, err := json.Marshal(map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"})
		require.NoError(t, err)
		require.NoError(t, questionRepo.Create(ctx, &model.Question{
			SubjectID:     subject.ID,
			Question:      "1 + 1",
			Options:       datatypes.JSON(opts),
			CorrectOption: "b",
		}))
	}

	uid := uint(7)
	require.NoError(t, studentRepo.Create(ctx, &model.Student{Name: "Asha", UserID: &uid}))

	subjects := service.NewSubjectService(subjectRepo)
	daily := service.NewDailyQuestionService(dailyRepo, questionRepo, streakRepo, subjects, cal, 30)
	answers := service.NewAnswerService(streakRepo, dailyRepo, daily, cal, nil)
	streaks := service.NewStreakService(streakRepo, cal)
	students := service.NewStudentService(studentRepo, streaks, nil)
	c := NewStreakController(daily, answers, streaks, students)

	router := gin.New()
	group := router.Group("/api", func(ctx *gin.Context) {
		if ctx.GetHeader("X-Anonymous") == "" {
			ctx.Set(util.ContextUserKey, &util.Claims{UserID: uid, Role: model.RoleStudent})
		}
		ctx.Next()
	})
	group.GET("/streak/today", c.Today)
	group.POST("/streak/answer", c.Answer)
	group.GET("/streak/summary", c.Summary)

	return &streakEnv{router: router}
}

func (e *streakEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestStreakController_TodayHidesAnswerUntilAnswered(t *testing.T) {
	env := newStreakEnv(t, true)

	w, resp := env.do(t, http.MethodGet, "/api/streak/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, true, data["available"])
	assert.Equal(t, false, data["answered"])
	question := data["question"].(map[string]any)
	assert.Empty(t, question["correctOption"])

	w, resp = env.do(t, http.MethodPost, "/api/streak/answer", map[string]any{"selectedOption": "B", "timeTaken": 12})
	require.Equal(t, http.StatusOK, w.Code)
	rec := resp["data"].(map[string]any)
	assert.Equal(t, true, rec["isCorrect"])
	assert.EqualValues(t, 200, rec["points"])
	assert.Equal(t, "2024-06-03", rec["date"])

	w, resp = env.do(t, http.MethodGet, "/api/streak/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]any)
	assert.Equal(t, true, data["answered"])
	assert.Equal(t, "b", data["question"].(map[string]any)["correctOption"])
}

func TestStreakController_AnswerErrors(t *testing.T) {
	env := newStreakEnv(t, true)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing option", map[string]any{}, http.StatusBadRequest},
		{"invalid option", map[string]any{"selectedOption": "z"}, http.StatusBadRequest},
		{"future date", map[string]any{"selectedOption": "a", "date": "2024-06-04"}, http.StatusBadRequest},
		{"bad date", map[string]any{"selectedOption": "a", "date": "03/06/2024"}, http.StatusBadRequest},
		{"previous week", map[string]any{"selectedOption": "a", "date": "2024-05-27"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodPost, "/api/streak/answer", tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.EqualValues(t, tt.want, resp["code"])
		})
	}
}

func TestStreakController_NothingScheduled(t *testing.T) {
	env := newStreakEnv(t, false)

	w, resp := env.do(t, http.MethodGet, "/api/streak/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["data"].(map[string]any)["available"])

	w, _ = env.do(t, http.MethodPost, "/api/streak/answer", map[string]any{"selectedOption": "a"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreakController_RequiresStudent(t *testing.T) {
	env := newStreakEnv(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/streak/today", nil)
	req.Header.Set("X-Anonymous", "1")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
