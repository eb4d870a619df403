package service

import (
	"context"
	"encoding/json"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/testutil"
	"mindleap_backend/internal/util"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestGetOrCreateDailyQuestion_SameQuestionOnRepeatCalls(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-03", 9)) // Monday
	math := f.addSubject(t, "Math", "Monday")
	for i := 0; i < 3; i++ {
		f.addQuestion(t, math.ID, "q", "a")
	}
	ctx := context.Background()

	first, err := f.daily.GetOrCreateDailyQuestion(ctx, math, "2024-06-03")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := f.daily.GetOrCreateDailyQuestion(ctx, math, "2024-06-03")
		require.NoError(t, err)
		assert.Equal(t, first.Question.ID, again.Question.ID)
	}
	assert.EqualValues(t, 1, f.countDaily(t))
	assert.Equal(t, "Math", first.Assignment.Subject)
	assert.Equal(t, "Monday", first.Assignment.ScheduledDay)
}

func TestGetOrCreateDailyQuestion_ConcurrentFirstCallsConverge(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-03", 9))
	math := f.addSubject(t, "Math", "Monday")
	for i := 0; i < 5; i++ {
		f.addQuestion(t, math.ID, "q", "b")
	}

	const workers = 8
	ids := make([]uint, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.daily.GetOrCreateDailyQuestion(context.Background(), math, "2024-06-03")
			if assert.NoError(t, err) {
				ids[i] = res.Question.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
	assert.EqualValues(t, 1, f.countDaily(t))
}

func TestGetOrCreateDailyQuestion_SkipsRecentQuestions(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-10", 9))
	math := f.addSubject(t, "Math", "Monday")
	q1 := f.addQuestion(t, math.ID, "one", "a")
	q2 := f.addQuestion(t, math.ID, "two", "a")
	q3 := f.addQuestion(t, math.ID, "three", "a")

	require.NoError(t, f.db.Create(&model.DailyQuestion{Date: "2024-05-27", QuestionID: q1.ID, Subject: "Math", SubjectID: math.ID}).Error)
	require.NoError(t, f.db.Create(&model.DailyQuestion{Date: "2024-06-03", QuestionID: q2.ID, Subject: "Math", SubjectID: math.ID}).Error)
	f.daily.intn = func(int) int { return 0 }

	res, err := f.daily.GetOrCreateDailyQuestion(context.Background(), math, "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, q3.ID, res.Question.ID)
}

func TestGetOrCreateDailyQuestion_PoolExhaustedStartsOver(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-10", 9))
	math := f.addSubject(t, "Math", "Monday")
	q1 := f.addQuestion(t, math.ID, "one", "a")
	q2 := f.addQuestion(t, math.ID, "two", "a")

	require.NoError(t, f.db.Create(&model.DailyQuestion{Date: "2024-05-27", QuestionID: q1.ID, Subject: "Math", SubjectID: math.ID}).Error)
	require.NoError(t, f.db.Create(&model.DailyQuestion{Date: "2024-06-03", QuestionID: q2.ID, Subject: "Math", SubjectID: math.ID}).Error)
	f.daily.intn = func(int) int { return 0 }

	res, err := f.daily.GetOrCreateDailyQuestion(context.Background(), math, "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, q1.ID, res.Question.ID)
}

func TestGetOrCreateDailyQuestion_RecentWindowLimitsHistory(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-10", 9))
	math := f.addSubject(t, "Math", "Monday")
	q1 := f.addQuestion(t, math.ID, "one", "a")
	q2 := f.addQuestion(t, math.ID, "two", "a")

	require.NoError(t, f.db.Create(&model.DailyQuestion{Date: "2024-05-27", QuestionID: q1.ID, Subject: "Math", SubjectID: math.ID}).Error)
	require.NoError(t, f.db.Create(&model.DailyQuestion{Date: "2024-06-03", QuestionID: q2.ID, Subject: "Math", SubjectID: math.ID}).Error)
	f.daily.SetRecentWindow(1)
	f.daily.intn = func(int) int { return 0 }

	// 只排除最近一次出过的 q2
	res, err := f.daily.GetOrCreateDailyQuestion(context.Background(), math, "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, q1.ID, res.Question.ID)
}

func TestGetOrCreateDailyQuestion_ReplacesStaleSubject(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-03", 9))
	history := f.addSubject(t, "History", "Tuesday")
	math := f.addSubject(t, "Math", "Monday")
	hq := f.addQuestion(t, history.ID, "history", "a")
	mq := f.addQuestion(t, math.ID, "math", "b")

	require.NoError(t, f.db.Create(&model.DailyQuestion{
		Date: "2024-06-03", QuestionID: hq.ID, Subject: "History", SubjectID: history.ID, TotalAttempts: 4,
	}).Error)

	res, err := f.daily.GetOrCreateDailyQuestion(context.Background(), math, "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, mq.ID, res.Question.ID)
	assert.Equal(t, "Math", res.Assignment.Subject)
	assert.Zero(t, res.Assignment.TotalAttempts)
	assert.EqualValues(t, 1, f.countDaily(t))
}

func TestGetOrCreateDailyQuestion_NoQuestions(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-03", 9))
	math := f.addSubject(t, "Math", "Monday")

	_, err := f.daily.GetOrCreateDailyQuestion(context.Background(), math, "2024-06-03")
	assert.ErrorIs(t, err, util.ErrNoQuestions)
	assert.Zero(t, f.countDaily(t))
}

func TestGetOrCreateDailyQuestion_SkipsMalformedQuestions(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-03", 9))
	math := f.addSubject(t, "Math", "Monday")

	bad := &model.Question{SubjectID: math.ID, Question: "bad", Options: datatypes.JSON(`["only","three","options"]`), CorrectOption: "a"}
	require.NoError(t, f.questionRepo.Create(context.Background(), bad))
	good := f.addQuestion(t, math.ID, "good", "c")
	f.daily.intn = func(int) int { return 0 }

	res, err := f.daily.GetOrCreateDailyQuestion(context.Background(), math, "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, good.ID, res.Question.ID)
	assert.Equal(t, "c", res.Question.CorrectOption)
}

func TestGetQuestionForDate_Deterministic(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-06", 9))
	math := f.addSubject(t, "Math", "Monday")
	var ids []uint
	for i := 0; i < 3; i++ {
		ids = append(ids, f.addQuestion(t, math.ID, "q", "a").ID)
	}
	ctx := context.Background()

	first, err := f.daily.GetQuestionForDate(ctx, math.ID, "2024-06-03")
	require.NoError(t, err)
	second, err := f.daily.GetQuestionForDate(ctx, math.ID, "2024-06-03")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, ids[dateHashIndex("2024-06-03", 3)], first.ID)
	assert.Zero(t, f.countDaily(t), "missed dates are not persisted")
}

func TestDateHashIndex(t *testing.T) {
	tests := []struct {
		date string
		n    int
		want int
	}{
		{"2024-06-03", 3, 1},
		{"2024-06-04", 3, 0},
		{"2024-06-05", 3, 2},
		{"2024-06-03", 7, 4},
		{"2024-06-03", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, dateHashIndex(tt.date, tt.n))
		})
	}
}

func TestTodayChallenge_HidesAnswerUntilAnswered(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-03", 9))
	math := f.addSubject(t, "Math", "Monday")
	f.addQuestion(t, math.ID, "q", "b")
	st := f.addStudent(t, "Asha", "", nil)
	ctx := context.Background()

	day, err := f.daily.TodayChallenge(ctx, st.ID)
	require.NoError(t, err)
	require.True(t, day.Available)
	assert.True(t, day.CanAnswer)
	assert.Empty(t, day.Question.CorrectOption)
	assert.Empty(t, day.Question.Explanation)

	_, err = f.answers.AnswerChallenge(ctx, st.ID, AnswerRequest{SelectedOption: "B"})
	require.NoError(t, err)

	day, err = f.daily.TodayChallenge(ctx, st.ID)
	require.NoError(t, err)
	assert.True(t, day.Answered)
	assert.False(t, day.CanAnswer)
	assert.Equal(t, "b", day.Question.CorrectOption)
	require.NotNil(t, day.Record)
	assert.Equal(t, PointsTodayCorrect, day.Record.Points)
}

func TestTodayChallenge_NoSubjectScheduled(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-08", 9)) // Saturday
	f.addSubject(t, "Math", "Monday")

	day, err := f.daily.TodayChallenge(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, day.Available)
	assert.Equal(t, util.ErrNoSubjectScheduled.Error(), day.Message)
	assert.Nil(t, day.Question)
}

func TestWeekChallenges_CoversSundayToToday(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-05", 9)) // Wednesday
	math := f.addSubject(t, "Math", "Monday")
	sci := f.addSubject(t, "Science", "Tuesday")
	f.addQuestion(t, math.ID, "m", "a")
	f.addQuestion(t, sci.ID, "s", "d")
	st := f.addStudent(t, "Ravi", "", nil)

	days, err := f.daily.WeekChallenges(context.Background(), st.ID)
	require.NoError(t, err)
	require.Len(t, days, 4)

	assert.Equal(t, "2024-06-02", days[0].Date)
	assert.False(t, days[0].Available) // Sunday
	assert.Equal(t, "Math", days[1].Subject)
	assert.Equal(t, "Science", days[2].Subject)
	assert.False(t, days[3].Available) // Wednesday，无排课

	raw, err := json.Marshal(days[1].Question)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correctOption")
}
