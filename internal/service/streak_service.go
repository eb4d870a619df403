package service

import (
	"context"
	"errors"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

const (
	streakLookbackDays = 60
	// 允许中间漏掉的工作日数，今天未答不计入。
	// 不能改成 0：周一答对、周二答错、周三漏答，周四查看时连续天数必须是 2，
	// 见 TestComputeCurrentStreak 的 "mon tue answered, wed missed, seen thursday"
	streakMissTolerance = 1
)

type StreakService struct {
	StreakRepo *repository.StreakRepository
	Calendar   *Calendar
}

func NewStreakService(streakRepo *repository.StreakRepository, calendar *Calendar) *StreakService {
	return &StreakService{StreakRepo: streakRepo, Calendar: calendar}
}

// RecordsByDate 以日期为键建立索引
func RecordsByDate(recs []model.StreakRecord) map[string]model.StreakRecord {
	out := make(map[string]model.StreakRecord, len(recs))
	for _, r := range recs {
		out[r.Date] = r
	}
	return out
}

// ComputeCurrentStreak 从今天往回最多 60 天，跳过周末。
// 有记录（无论对错）的工作日计入；今天之外的缺失工作日允许一次，第二次缺失即停止
func ComputeCurrentStreak(records map[string]model.StreakRecord, today time.Time) int {
	if len(records) == 0 {
		return 0
	}

	streak, misses := 0, 0
	for i := 0; i < streakLookbackDays; i++ {
		d := today.AddDate(0, 0, -i)
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if _, ok := records[d.Format(util.DateFormat)]; ok {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		misses++
		if misses > streakMissTolerance {
			break
		}
	}
	return streak
}

func SumPoints(recs []model.StreakRecord) int {
	total := 0
	for _, r := range recs {
		total += r.Points
	}
	return total
}

// StreakSummary 同时给出按记录重算的值和冗余存储的值
type StreakSummary struct {
	CurrentStreak       int        `json:"currentStreak"`
	TotalPoints         int        `json:"totalPoints"`
	StoredCurrentStreak int        `json:"storedCurrentStreak"`
	StoredTotalPoints   int        `json:"storedTotalPoints"`
	LastUpdated         *time.Time `json:"lastUpdated,omitempty"`
	AnsweredDays        int        `json:"answeredDays"`
	CorrectDays         int        `json:"correctDays"`
	Badge               string     `json:"badge"`
}

func (s *StreakService) Summary(ctx context.Context, studentID uint) (*StreakSummary, error) {
	recs, err := s.StreakRepo.ListRecords(ctx, studentID)
	if err != nil {
		return nil, err
	}

	sum := &StreakSummary{
		CurrentStreak: ComputeCurrentStreak(RecordsByDate(recs), s.Calendar.Today()),
		TotalPoints:   SumPoints(recs),
		AnsweredDays:  len(recs),
	}
	for _, r := range recs {
		if r.IsCorrect {
			sum.CorrectDays++
		}
	}

	st, err := s.StreakRepo.GetState(ctx, studentID)
	switch {
	case err == nil:
		sum.StoredCurrentStreak = st.CurrentStreak
		sum.StoredTotalPoints = st.TotalPoints
		lu := st.LastUpdated
		sum.LastUpdated = &lu
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	sum.Badge = BadgeFor(sum.TotalPoints)
	return sum, nil
}
