package service

import (
	"context"
	"fmt"
	"math"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"time"
)

type ReportService struct {
	StreakRepo  *repository.StreakRepository
	AttemptRepo *repository.QuizAttemptRepository
	Calendar    *Calendar
}

func NewReportService(streakRepo *repository.StreakRepository, attemptRepo *repository.QuizAttemptRepository, calendar *Calendar) *ReportService {
	return &ReportService{
		StreakRepo:  streakRepo,
		AttemptRepo: attemptRepo,
		Calendar:    calendar,
	}
}

type ReportQuiz struct {
	QuizID      uint      `json:"quizId"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// MonthlyReport 学生某月的作答统计
type MonthlyReport struct {
	Year          int                  `json:"year"`
	Month         int                  `json:"month"`
	Days          []model.StreakRecord `json:"days"`
	Attempted     int                  `json:"attempted"`
	Correct       int                  `json:"correct"`
	Wrong         int                  `json:"wrong"`
	Accuracy      float64              `json:"accuracy"`
	PointsEarned  int                  `json:"pointsEarned"`
	Quizzes       []ReportQuiz         `json:"quizzes"`
	CurrentStreak int                  `json:"currentStreak"`
	TotalPoints   int                  `json:"totalPoints"`
	Badge         string               `json:"badge"`
}

func (s *ReportService) MonthlyReport(ctx context.Context, studentID uint, year, month int) (*MonthlyReport, error) {
	if month < 1 || month > 12 || year < 2000 {
		return nil, fmt.Errorf("%w: year=%d month=%d", util.ErrInvalidDate, year, month)
	}

	loc := s.Calendar.Location()
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0)

	all, err := s.StreakRepo.ListRecords(ctx, studentID)
	if err != nil {
		return nil, err
	}

	fromKey, lastKey := util.DayKey(from, loc), util.DayKey(to.AddDate(0, 0, -1), loc)
	report := &MonthlyReport{
		Year:          year,
		Month:         month,
		Days:          []model.StreakRecord{},
		Quizzes:       []ReportQuiz{},
		CurrentStreak: ComputeCurrentStreak(RecordsByDate(all), s.Calendar.Today()),
		TotalPoints:   SumPoints(all),
	}
	report.Badge = BadgeFor(report.TotalPoints)

	for _, r := range all {
		if r.Date < fromKey || r.Date > lastKey {
			continue
		}
		report.Days = append(report.Days, r)
		report.Attempted++
		if r.IsCorrect {
			report.Correct++
		} else {
			report.Wrong++
		}
		report.PointsEarned += r.Points
	}
	if report.Attempted > 0 {
		report.Accuracy = math.Round(float64(report.Correct)*10000/float64(report.Attempted)) / 100
	}

	attempts, err := s.AttemptRepo.ListByStudentBetween(ctx, studentID, from, to)
	if err != nil {
		return nil, err
	}
	for _, a := range attempts {
		report.Quizzes = append(report.Quizzes, ReportQuiz{
			QuizID:      a.QuizID,
			Score:       a.Score,
			Total:       a.Total,
			SubmittedAt: a.SubmittedAt,
		})
	}
	return report, nil
}
