package service

import (
	"context"
	"errors"
	"fmt"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"mindleap_backend/pkg/monitoring"
	"mindleap_backend/pkg/tracing"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DayClass 作答日期相对今天的分类
type DayClass string

const (
	DayToday    DayClass = "today"
	DayThisWeek DayClass = "this_week"
	DayOlder    DayClass = "older"
	DayFuture   DayClass = "future"
)

const (
	PointsTodayCorrect = 200
	PointsTodayWrong   = 100
	PointsThisWeek     = 100
)

// ClassifyDate 本周从周日开始；target 与 today 须在同一时区
func ClassifyDate(target, today time.Time) DayClass {
	loc := today.Location()
	t := util.StartOfDay(target, loc)
	d := util.StartOfDay(today, loc)
	switch {
	case t.After(d):
		return DayFuture
	case t.Equal(d):
		return DayToday
	case !t.Before(util.StartOfWeek(d, loc)):
		return DayThisWeek
	default:
		return DayOlder
	}
}

// PointsFor 今天答对 200、答错 100；本周补答 100；更早 0
func PointsFor(class DayClass, isCorrect bool) int {
	switch class {
	case DayToday:
		if isCorrect {
			return PointsTodayCorrect
		}
		return PointsTodayWrong
	case DayThisWeek:
		return PointsThisWeek
	default:
		return 0
	}
}

// LeaderboardInvalidator 作答、注册或换学校后使排行榜缓存失效
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context) error
}

// invalidateLeaderboard 缓存失效失败只记录日志，排行榜最多延迟一个 TTL
func invalidateLeaderboard(ctx context.Context, cache LeaderboardInvalidator) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Log.Warn("Failed to invalidate leaderboard cache", zap.Error(err))
	}
}

type AnswerService struct {
	StreakRepo *repository.StreakRepository
	DailyRepo  *repository.DailyQuestionRepository
	Daily      *DailyQuestionService
	Calendar   *Calendar
	Cache      LeaderboardInvalidator
}

func NewAnswerService(
	streakRepo *repository.StreakRepository,
	dailyRepo *repository.DailyQuestionRepository,
	daily *DailyQuestionService,
	calendar *Calendar,
	cache LeaderboardInvalidator,
) *AnswerService {
	return &AnswerService{
		StreakRepo: streakRepo,
		DailyRepo:  dailyRepo,
		Daily:      daily,
		Calendar:   calendar,
		Cache:      cache,
	}
}

type SubmitAnswerInput struct {
	StudentID      uint
	Question       QuestionView
	Subject        string
	SelectedOption string
	TargetDate     string
	ElapsedSeconds int
}

// AnswerRequest 学生提交的作答，date 为空表示今天
type AnswerRequest struct {
	Date           string `json:"date"`
	SelectedOption string `json:"selectedOption" binding:"required"`
	TimeTaken      int    `json:"timeTaken"`
}

// AnswerChallenge 服务端解析 date 对应的题目后记录作答，只允许今天和本周更早的日期
func (s *AnswerService) AnswerChallenge(ctx context.Context, studentID uint, req AnswerRequest) (*model.StreakRecord, error) {
	date := req.Date
	if date == "" {
		date = s.Calendar.TodayKey()
	}
	target, err := s.Calendar.Parse(date)
	if err != nil {
		return nil, err
	}

	switch ClassifyDate(target, s.Calendar.Today()) {
	case DayFuture:
		return nil, util.ErrFutureDate
	case DayOlder:
		return nil, util.ErrDateNotAnswerable
	}

	subject, q, err := s.Daily.QuestionForDay(ctx, target)
	if err != nil {
		return nil, err
	}

	return s.SubmitAnswer(ctx, SubmitAnswerInput{
		StudentID:      studentID,
		Question:       *q,
		Subject:        subject.Name,
		SelectedOption: req.SelectedOption,
		TargetDate:     date,
		ElapsedSeconds: req.TimeTaken,
	})
}

// SubmitAnswer 评分并在同一事务内写入记录、学生状态和当日统计
func (s *AnswerService) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*model.StreakRecord, error) {
	ctx, span := tracing.Tracer.Start(ctx, "AnswerService.SubmitAnswer")
	defer span.End()
	span.SetAttributes(
		attribute.Int("studentId", int(in.StudentID)),
		attribute.String("targetDate", in.TargetDate),
	)

	selected, err := NormalizeOptionKey(in.SelectedOption, false)
	if err != nil {
		return nil, util.ErrInvalidOption
	}
	correct := strings.ToLower(in.Question.CorrectOption)

	target, err := s.Calendar.Parse(in.TargetDate)
	if err != nil {
		return nil, err
	}
	today := s.Calendar.Today()
	class := ClassifyDate(target, today)
	if class == DayFuture {
		return nil, util.ErrFutureDate
	}

	isCorrect := selected == correct
	status := model.StreakWrong
	if isCorrect {
		status = model.StreakCorrect
	}
	now := s.Calendar.Now()

	rec := &model.StreakRecord{
		StudentID:      in.StudentID,
		Date:           in.TargetDate,
		QuestionID:     in.Question.ID,
		Subject:        in.Subject,
		SelectedOption: selected,
		CorrectOption:  correct,
		IsCorrect:      isCorrect,
		TimeTaken:      in.ElapsedSeconds,
		Timestamp:      now,
		Explanation:    in.Question.Explanation,
		Status:         status,
		Points:         PointsFor(class, isCorrect),
	}

	err = s.StreakRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		streaks := s.StreakRepo.WithTx(tx)

		prevPoints, hadRecord := 0, false
		prev, err := streaks.FindRecord(ctx, in.StudentID, in.TargetDate)
		switch {
		case err == nil:
			prevPoints, hadRecord = prev.Points, true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := streaks.UpsertRecord(ctx, rec); err != nil {
			return fmt.Errorf("upsert streak record: %w", err)
		}
		if err := streaks.EnsureState(ctx, in.StudentID, now); err != nil {
			return fmt.Errorf("ensure streak state: %w", err)
		}

		if class == DayToday {
			streakDelta := 0
			if !hadRecord && !util.IsWeekend(today) {
				streakDelta = 1
			}
			if err := streaks.AddToState(ctx, in.StudentID, streakDelta, rec.Points-prevPoints, now); err != nil {
				return fmt.Errorf("update streak state: %w", err)
			}
			// 补答的题目按日期哈希选出，不一定是当天分配的题，不计入当天统计
			return s.DailyRepo.WithTx(tx).IncrementAttempts(ctx, in.TargetDate, isCorrect)
		}
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to record answer",
			zap.Uint("studentId", in.StudentID),
			zap.String("date", in.TargetDate),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "record answer")
		return nil, err
	}

	monitoring.AnswersSubmitted.WithLabelValues(string(status), string(class)).Inc()
	span.SetAttributes(attribute.Bool("correct", isCorrect), attribute.Int("points", rec.Points))

	invalidateLeaderboard(ctx, s.Cache)

	return rec, nil
}
