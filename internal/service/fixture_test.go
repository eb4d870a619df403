package service

import (
	"context"
	"encoding/json"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	clock *testutil.Clock
	cal   *Calendar

	subjectRepo  *repository.SubjectRepository
	questionRepo *repository.QuestionRepository
	dailyRepo    *repository.DailyQuestionRepository
	streakRepo   *repository.StreakRepository
	studentRepo  *repository.StudentRepository

	subjects *SubjectService
	daily    *DailyQuestionService
	answers  *AnswerService
	streaks  *StreakService
	cache    *countingInvalidator
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	clock := &testutil.Clock{T: now}

	f := &fixture{
		db:           db,
		clock:        clock,
		cal:          NewCalendar(time.UTC, clock.Now),
		subjectRepo:  repository.NewSubjectRepository(db),
		questionRepo: repository.NewQuestionRepository(db),
		dailyRepo:    repository.NewDailyQuestionRepository(db),
		streakRepo:   repository.NewStreakRepository(db),
		studentRepo:  repository.NewStudentRepository(db),
		cache:        &countingInvalidator{},
	}
	f.subjects = NewSubjectService(f.subjectRepo)
	f.daily = NewDailyQuestionService(f.dailyRepo, f.questionRepo, f.streakRepo, f.subjects, f.cal, 30)
	f.answers = NewAnswerService(f.streakRepo, f.dailyRepo, f.daily, f.cal, f.cache)
	f.streaks = NewStreakService(f.streakRepo, f.cal)
	return f
}

func (f *fixture) addSubject(t *testing.T, name, day string) *model.Subject {
	t.Helper()
	s := &model.Subject{Name: name, ScheduledDay: day}
	require.NoError(t, f.subjectRepo.Create(context.Background(), s))
	return s
}

func (f *fixture) addQuestion(t *testing.T, subjectID uint, text, correct string) *model.Question {
	t.Helper()
	opts, err := json.Marshal(map[string]string{"a": "A", "b": "B", "c": "C", "d": "D"})
	require.NoError(t, err)
	q := &model.Question{
		SubjectID:     subjectID,
		Question:      text,
		Options:       datatypes.JSON(opts),
		CorrectOption: correct,
		Explanation:   "because",
	}
	require.NoError(t, f.questionRepo.Create(context.Background(), q))
	return q
}

func (f *fixture) addStudent(t *testing.T, name, schoolCode string, userID *uint) *model.Student {
	t.Helper()
	st := &model.Student{Name: name, SchoolCode: schoolCode, UserID: userID}
	require.NoError(t, f.studentRepo.Create(context.Background(), st))
	return st
}

func (f *fixture) addRecord(t *testing.T, studentID uint, date string, correct bool, points int) {
	t.Helper()
	status := model.StreakWrong
	if correct {
		status = model.StreakCorrect
	}
	require.NoError(t, f.streakRepo.UpsertRecord(context.Background(), &model.StreakRecord{
		StudentID: studentID,
		Date:      date,
		IsCorrect: correct,
		Status:    status,
		Points:    points,
		Timestamp: f.clock.T,
	}))
}

func (f *fixture) countDaily(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.DailyQuestion{}).Count(&n).Error)
	return n
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return nil
}

func (c *countingInvalidator) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func uintPtr(v uint) *uint {
	return &v
}
