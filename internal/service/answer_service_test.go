package service

import (
	"context"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/testutil"
	"mindleap_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDateAndPoints(t *testing.T) {
	today := testutil.Day(t, "2024-06-06", 15) // Thursday

	tests := []struct {
		name    string
		target  string
		correct bool
		class   DayClass
		points  int
	}{
		{"today correct", "2024-06-06", true, DayToday, 200},
		{"today wrong", "2024-06-06", false, DayToday, 100},
		{"earlier this week correct", "2024-06-04", true, DayThisWeek, 100},
		{"earlier this week wrong", "2024-06-03", false, DayThisWeek, 100},
		{"sunday starts the week", "2024-06-02", true, DayThisWeek, 100},
		{"last saturday", "2024-06-01", true, DayOlder, 0},
		{"last month", "2024-05-15", false, DayOlder, 0},
		{"tomorrow", "2024-06-07", true, DayFuture, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := ClassifyDate(testutil.Day(t, tt.target, 0), today)
			assert.Equal(t, tt.class, class)
			assert.Equal(t, tt.points, PointsFor(class, tt.correct))
		})
	}
}

func answerFixture(t *testing.T, now string) (*fixture, *model.Subject, QuestionView) {
	t.Helper()
	f := newFixture(t, testutil.Day(t, now, 10))
	subject := f.addSubject(t, "Math", f.clock.T.Weekday().String())
	q := f.addQuestion(t, subject.ID, "2+2?", "c")
	view, err := ToQuestionView(q)
	require.NoError(t, err)
	return f, subject, view
}

func TestSubmitAnswer_TodayCorrectUpdatesState(t *testing.T) {
	f, subject, q := answerFixture(t, "2024-06-06")
	ctx := context.Background()
	_, err := f.daily.GetOrCreateDailyQuestion(ctx, subject, "2024-06-06")
	require.NoError(t, err)

	rec, err := f.answers.SubmitAnswer(ctx, SubmitAnswerInput{
		StudentID: 7, Question: q, Subject: "Math", SelectedOption: "C", TargetDate: "2024-06-06", ElapsedSeconds: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Points)
	assert.True(t, rec.IsCorrect)
	assert.Equal(t, model.StreakCorrect, rec.Status)
	assert.Equal(t, "c", rec.SelectedOption)

	state, err := f.streakRepo.GetState(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 200, state.TotalPoints)
	assert.Equal(t, 1, state.CurrentStreak)

	dq, err := f.dailyRepo.FindByDate(ctx, "2024-06-06")
	require.NoError(t, err)
	assert.Equal(t, 1, dq.TotalAttempts)
	assert.Equal(t, 1, dq.CorrectAttempts)
	assert.Equal(t, 1, f.cache.Calls())
}

func TestSubmitAnswer_TodayWrong(t *testing.T) {
	f, _, q := answerFixture(t, "2024-06-06")

	rec, err := f.answers.SubmitAnswer(context.Background(), SubmitAnswerInput{
		StudentID: 7, Question: q, Subject: "Math", SelectedOption: "a", TargetDate: "2024-06-06",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, rec.Points)
	assert.False(t, rec.IsCorrect)
	assert.Equal(t, model.StreakWrong, rec.Status)
}

func TestSubmitAnswer_ResubmissionOverwrites(t *testing.T) {
	f, _, q := answerFixture(t, "2024-06-06")
	ctx := context.Background()
	in := SubmitAnswerInput{StudentID: 7, Question: q, Subject: "Math", SelectedOption: "c", TargetDate: "2024-06-06"}

	_, err := f.answers.SubmitAnswer(ctx, in)
	require.NoError(t, err)

	in.SelectedOption = "d"
	rec, err := f.answers.SubmitAnswer(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 100, rec.Points)

	recs, err := f.streakRepo.ListRecords(ctx, 7)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "d", recs[0].SelectedOption)

	state, err := f.streakRepo.GetState(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 100, state.TotalPoints)
	assert.Equal(t, 1, state.CurrentStreak)
}

func TestSubmitAnswer_EarlierThisWeekLeavesStoredState(t *testing.T) {
	f, _, q := answerFixture(t, "2024-06-06")
	ctx := context.Background()

	rec, err := f.answers.SubmitAnswer(ctx, SubmitAnswerInput{
		StudentID: 7, Question: q, Subject: "Math", SelectedOption: "a", TargetDate: "2024-06-04",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, rec.Points)

	state, err := f.streakRepo.GetState(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, state.TotalPoints)
	assert.Zero(t, state.CurrentStreak)
}

func TestSubmitAnswer_OutsideWeekScoresZero(t *testing.T) {
	f, _, q := answerFixture(t, "2024-06-06")

	rec, err := f.answers.SubmitAnswer(context.Background(), SubmitAnswerInput{
		StudentID: 7, Question: q, Subject: "Math", SelectedOption: "c", TargetDate: "2024-05-20",
	})
	require.NoError(t, err)
	assert.Zero(t, rec.Points)
	assert.True(t, rec.IsCorrect)
}

func TestSubmitAnswer_Rejections(t *testing.T) {
	f, _, q := answerFixture(t, "2024-06-06")
	ctx := context.Background()

	_, err := f.answers.SubmitAnswer(ctx, SubmitAnswerInput{StudentID: 7, Question: q, SelectedOption: "c", TargetDate: "2024-06-07"})
	assert.ErrorIs(t, err, util.ErrFutureDate)

	_, err = f.answers.SubmitAnswer(ctx, SubmitAnswerInput{StudentID: 7, Question: q, SelectedOption: "e", TargetDate: "2024-06-06"})
	assert.ErrorIs(t, err, util.ErrInvalidOption)

	_, err = f.answers.SubmitAnswer(ctx, SubmitAnswerInput{StudentID: 7, Question: q, SelectedOption: "a", TargetDate: "06/06/2024"})
	assert.ErrorIs(t, err, util.ErrInvalidDate)

	recs, err := f.streakRepo.ListRecords(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Zero(t, f.cache.Calls())
}

func TestAnswerChallenge_ResolvesQuestionForMissedDay(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-06", 10)) // Thursday
	monday := f.addSubject(t, "Math", "Monday")
	q := f.addQuestion(t, monday.ID, "m", "b")
	ctx := context.Background()

	rec, err := f.answers.AnswerChallenge(ctx, 3, AnswerRequest{Date: "2024-06-03", SelectedOption: "b"})
	require.NoError(t, err)
	assert.Equal(t, q.ID, rec.QuestionID)
	assert.Equal(t, "Math", rec.Subject)
	assert.Equal(t, 100, rec.Points)

	_, err = f.answers.AnswerChallenge(ctx, 3, AnswerRequest{Date: "2024-05-27", SelectedOption: "b"})
	assert.ErrorIs(t, err, util.ErrDateNotAnswerable)

	_, err = f.answers.AnswerChallenge(ctx, 3, AnswerRequest{Date: "2024-06-07", SelectedOption: "b"})
	assert.ErrorIs(t, err, util.ErrFutureDate)

	_, err = f.answers.AnswerChallenge(ctx, 3, AnswerRequest{Date: "2024-06-04", SelectedOption: "b"})
	assert.ErrorIs(t, err, util.ErrNoSubjectScheduled)
}

func TestAnswerChallenge_MakeupLeavesAssignmentCounters(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-03", 9)) // Monday
	monday := f.addSubject(t, "Math", "Monday")
	f.addQuestion(t, monday.ID, "m1", "a")
	f.addQuestion(t, monday.ID, "m2", "a")
	ctx := context.Background()

	_, _, err := f.daily.QuestionForDay(ctx, f.cal.Today())
	require.NoError(t, err)

	f.clock.T = testutil.Day(t, "2024-06-06", 10) // Thursday
	rec, err := f.answers.AnswerChallenge(ctx, 42, AnswerRequest{Date: "2024-06-03", SelectedOption: "a"})
	require.NoError(t, err)
	assert.Equal(t, 100, rec.Points)

	dq, err := f.dailyRepo.FindByDate(ctx, "2024-06-03")
	require.NoError(t, err)
	assert.Zero(t, dq.TotalAttempts)
	assert.Zero(t, dq.CorrectAttempts)
}
