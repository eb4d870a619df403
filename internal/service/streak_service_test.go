package service

import (
	"context"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordsOn(dates ...string) map[string]model.StreakRecord {
	out := make(map[string]model.StreakRecord, len(dates))
	for _, d := range dates {
		out[d] = model.StreakRecord{Date: d, Status: model.StreakCorrect}
	}
	return out
}

func TestComputeCurrentStreak(t *testing.T) {
	tests := []struct {
		name    string
		today   string
		records map[string]model.StreakRecord
		want    int
	}{
		{"no records", "2024-06-06", nil, 0},
		{"mon tue answered, wed missed, seen thursday", "2024-06-06", recordsOn("2024-06-03", "2024-06-04"), 2},
		{"today counts when answered", "2024-06-06", recordsOn("2024-06-05", "2024-06-06"), 2},
		{"unanswered today is not a miss", "2024-06-06", recordsOn("2024-06-04", "2024-06-05"), 2},
		{"second miss stops the walk", "2024-06-07", recordsOn("2024-06-07", "2024-06-03"), 1},
		{"weekend gap ignored", "2024-06-10", recordsOn("2024-06-06", "2024-06-07", "2024-06-10"), 3},
		{"weekend records do not count", "2024-06-10", recordsOn("2024-06-07", "2024-06-08", "2024-06-09", "2024-06-10"), 2},
		{"only old records", "2024-06-06", recordsOn("2024-05-01"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCurrentStreak(tt.records, testutil.Day(t, tt.today, 0))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeCurrentStreak_WrongAnswersStillCount(t *testing.T) {
	recs := RecordsByDate([]model.StreakRecord{
		{Date: "2024-06-03", IsCorrect: true, Status: model.StreakCorrect},
		{Date: "2024-06-04", IsCorrect: false, Status: model.StreakWrong},
	})
	assert.Equal(t, 2, ComputeCurrentStreak(recs, testutil.Day(t, "2024-06-06", 0)))
}

func TestComputeCurrentStreak_WeekendDoesNotLowerStreak(t *testing.T) {
	friday := recordsOn("2024-06-05", "2024-06-06", "2024-06-07")
	before := ComputeCurrentStreak(friday, testutil.Day(t, "2024-06-07", 0))

	for _, day := range []string{"2024-06-08", "2024-06-09"} {
		assert.Equal(t, before, ComputeCurrentStreak(friday, testutil.Day(t, day, 0)), day)
	}
}

func TestStreakSummary(t *testing.T) {
	f := newFixture(t, testutil.Day(t, "2024-06-06", 10))
	ctx := context.Background()

	f.addRecord(t, 5, "2024-06-03", true, 200)
	f.addRecord(t, 5, "2024-06-04", false, 100)
	f.addRecord(t, 5, "2024-05-02", true, 800)

	sum, err := f.streaks.Summary(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.CurrentStreak)
	assert.Equal(t, 1100, sum.TotalPoints)
	assert.Equal(t, 3, sum.AnsweredDays)
	assert.Equal(t, 2, sum.CorrectDays)
	assert.Equal(t, "Bronze", sum.Badge)
	assert.Nil(t, sum.LastUpdated)
	assert.Zero(t, sum.StoredTotalPoints)
}

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, ""},
		{999, ""},
		{1000, "Bronze"},
		{2000, "Silver"},
		{3500, "Gold"},
		{4000, "Platinum"},
		{12000, "Platinum"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BadgeFor(tt.points), "points=%d", tt.points)
	}
}
