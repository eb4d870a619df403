package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"mindleap_backend/pkg/monitoring"
	"mindleap_backend/pkg/tracing"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultRecentWindow = 30

type DailyQuestionService struct {
	DailyRepo    *repository.DailyQuestionRepository
	QuestionRepo *repository.QuestionRepository
	StreakRepo   *repository.StreakRepository
	Subjects     *SubjectService
	Calendar     *Calendar

	recentWindow atomic.Int64
	intn         func(n int) int
}

func NewDailyQuestionService(
	dailyRepo *repository.DailyQuestionRepository,
	questionRepo *repository.QuestionRepository,
	streakRepo *repository.StreakRepository,
	subjects *SubjectService,
	calendar *Calendar,
	recentWindow int,
) *DailyQuestionService {
	s := &DailyQuestionService{
		DailyRepo:    dailyRepo,
		QuestionRepo: questionRepo,
		StreakRepo:   streakRepo,
		Subjects:     subjects,
		Calendar:     calendar,
		intn:         rand.IntN,
	}
	s.SetRecentWindow(recentWindow)
	return s
}

// SetRecentWindow 配置热更新时调用，<=0 使用默认值 30
func (s *DailyQuestionService) SetRecentWindow(n int) {
	if n <= 0 {
		n = defaultRecentWindow
	}
	s.recentWindow.Store(int64(n))
}

func (s *DailyQuestionService) RecentWindow() int {
	return int(s.recentWindow.Load())
}

// DailyQuestionResult 当日分配记录及其题目
type DailyQuestionResult struct {
	Assignment model.DailyQuestion `json:"assignment"`
	Question   QuestionView        `json:"question"`
}

// GetOrCreateDailyQuestion 返回 date 当天的题目；不存在或科目已变更时重新抽题并持久化。
// 并发首次调用依赖日期唯一键收敛到同一条记录
func (s *DailyQuestionService) GetOrCreateDailyQuestion(ctx context.Context, subject *model.Subject, date string) (*DailyQuestionResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "DailyQuestionService.GetOrCreateDailyQuestion")
	defer span.End()
	span.SetAttributes(
		attribute.String("date", date),
		attribute.String("subject", subject.Name),
	)

	existing, err := s.DailyRepo.FindByDate(ctx, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "load assignment")
			return nil, err
		}
		existing = nil
	}

	if existing != nil && existing.Subject == subject.Name {
		span.SetAttributes(attribute.Bool("reused", true))
		return s.resolve(ctx, existing)
	}

	pool, err := s.loadPool(ctx, subject.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load pool")
		return nil, err
	}

	recent, err := s.DailyRepo.RecentQuestionIDs(ctx, subject.ID, date, s.RecentWindow())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load recent questions")
		return nil, err
	}

	eligible := excludeRecent(pool, recent)
	if len(eligible) == 0 {
		// 题库已轮完一遍，重新开始
		logger.Log.Info("Question pool exhausted, starting new cycle",
			zap.Uint("subjectId", subject.ID),
			zap.Int("poolSize", len(pool)),
		)
		eligible = pool
	}
	picked := eligible[s.intn(len(eligible))]

	dq := &model.DailyQuestion{
		Date:         date,
		QuestionID:   picked.ID,
		Subject:      subject.Name,
		SubjectID:    subject.ID,
		ScheduledDay: subject.ScheduledDay,
	}

	err = s.DailyRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.DailyRepo.WithTx(tx)
		if existing == nil {
			inserted, err := repo.InsertIfAbsent(ctx, dq)
			if err != nil {
				return err
			}
			if inserted {
				monitoring.DailyAssignmentsCreated.WithLabelValues("created").Inc()
			} else {
				monitoring.DailyAssignmentsCreated.WithLabelValues("lost_race").Inc()
			}
			return nil
		}

		replaced, err := repo.ReplaceIfSubject(ctx, existing.Subject, dq)
		if err != nil {
			return err
		}
		if replaced {
			logger.Log.Info("Replaced stale daily question",
				zap.String("date", date),
				zap.String("staleSubject", existing.Subject),
				zap.String("subject", subject.Name),
			)
			monitoring.DailyAssignmentsCreated.WithLabelValues("replaced").Inc()
		} else {
			monitoring.DailyAssignmentsCreated.WithLabelValues("lost_race").Inc()
		}
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to persist daily question", zap.String("date", date), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist assignment")
		return nil, err
	}

	// 以数据库中最终胜出的记录为准
	final, err := s.DailyRepo.FindByDate(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reload assignment")
		return nil, err
	}
	span.SetAttributes(attribute.Int("questionId", int(final.QuestionID)))
	return s.resolve(ctx, final)
}

// GetQuestionForDate 补答本周漏掉的日期时使用：按日期哈希在题库中确定性选题
func (s *DailyQuestionService) GetQuestionForDate(ctx context.Context, subjectID uint, date string) (*QuestionView, error) {
	pool, err := s.loadPool(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	q := pool[dateHashIndex(date, len(pool))]
	return &q, nil
}

// QuestionForDay 今天走每日分配，本周更早的日期走哈希选题
func (s *DailyQuestionService) QuestionForDay(ctx context.Context, day time.Time) (*model.Subject, *QuestionView, error) {
	subject, err := s.Subjects.SubjectForWeekday(ctx, day.Weekday().String())
	if err != nil {
		return nil, nil, err
	}

	key := s.Calendar.Key(day)
	if key == s.Calendar.TodayKey() {
		res, err := s.GetOrCreateDailyQuestion(ctx, subject, key)
		if err != nil {
			return nil, nil, err
		}
		return subject, &res.Question, nil
	}

	q, err := s.GetQuestionForDate(ctx, subject.ID, key)
	if err != nil {
		return nil, nil, err
	}
	return subject, q, nil
}

// ChallengeDay 某一天的挑战状态
type ChallengeDay struct {
	Date      string              `json:"date"`
	Weekday   string              `json:"weekday"`
	Available bool                `json:"available"`
	Subject   string              `json:"subject,omitempty"`
	Question  *QuestionView       `json:"question,omitempty"`
	Record    *model.StreakRecord `json:"record,omitempty"`
	Answered  bool                `json:"answered"`
	CanAnswer bool                `json:"canAnswer"`
	Message   string              `json:"message,omitempty"`
}

// TodayChallenge 今日挑战；未作答时题目不含答案
func (s *DailyQuestionService) TodayChallenge(ctx context.Context, studentID uint) (*ChallengeDay, error) {
	today := s.Calendar.Today()
	day := &ChallengeDay{
		Date:    s.Calendar.Key(today),
		Weekday: today.Weekday().String(),
	}

	rec, err := s.StreakRepo.FindRecord(ctx, studentID, day.Date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		day.Record = rec
		day.Answered = true
	}

	subject, q, err := s.QuestionForDay(ctx, today)
	if err != nil {
		if errors.Is(err, util.ErrNoSubjectScheduled) || errors.Is(err, util.ErrNoQuestions) {
			day.Message = err.Error()
			return day, nil
		}
		return nil, err
	}

	day.Available = true
	day.Subject = subject.Name
	day.CanAnswer = !day.Answered
	if !day.Answered {
		pub := q.Public()
		q = &pub
	}
	day.Question = q
	return day, nil
}

// WeekChallenges 本周（周日起）到今天为止每一天的挑战状态
func (s *DailyQuestionService) WeekChallenges(ctx context.Context, studentID uint) ([]ChallengeDay, error) {
	today := s.Calendar.Today()
	start := util.StartOfWeek(today, s.Calendar.Location())

	recs, err := s.StreakRepo.ListRecordsBetween(ctx, studentID, s.Calendar.Key(start), s.Calendar.Key(today))
	if err != nil {
		return nil, err
	}
	byDate := RecordsByDate(recs)

	days := make([]ChallengeDay, 0, 7)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		day := ChallengeDay{
			Date:    s.Calendar.Key(d),
			Weekday: d.Weekday().String(),
		}
		if rec, ok := byDate[day.Date]; ok {
			day.Record = &rec
			day.Answered = true
		}

		subject, q, err := s.QuestionForDay(ctx, d)
		switch {
		case errors.Is(err, util.ErrNoSubjectScheduled), errors.Is(err, util.ErrNoQuestions):
			day.Message = err.Error()
		case err != nil:
			return nil, err
		default:
			day.Available = true
			day.Subject = subject.Name
			day.CanAnswer = !day.Answered
			if !day.Answered {
				pub := q.Public()
				q = &pub
			}
			day.Question = q
		}
		days = append(days, day)
	}
	return days, nil
}

// loadPool 科目下格式正确的题目，按 id 升序
func (s *DailyQuestionService) loadPool(ctx context.Context, subjectID uint) ([]QuestionView, error) {
	questions, err := s.QuestionRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	pool := make([]QuestionView, 0, len(questions))
	for i := range questions {
		v, err := ToQuestionView(&questions[i])
		if err != nil {
			logger.Log.Warn("Excluding malformed question from pool",
				zap.Uint("questionId", questions[i].ID),
				zap.Error(err),
			)
			continue
		}
		pool = append(pool, v)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("subject %d: %w", subjectID, util.ErrNoQuestions)
	}
	return pool, nil
}

func (s *DailyQuestionService) resolve(ctx context.Context, dq *model.DailyQuestion) (*DailyQuestionResult, error) {
	q, err := s.QuestionRepo.FindByID(ctx, dq.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("daily question %s: %w", dq.Date, util.ErrQuestionNotFound)
		}
		return nil, err
	}
	view, err := ToQuestionView(q)
	if err != nil {
		return nil, err
	}
	return &DailyQuestionResult{Assignment: *dq, Question: view}, nil
}

func excludeRecent(pool []QuestionView, recent []uint) []QuestionView {
	if len(recent) == 0 {
		return pool
	}
	seen := make(map[uint]struct{}, len(recent))
	for _, id := range recent {
		seen[id] = struct{}{}
	}
	out := make([]QuestionView, 0, len(pool))
	for _, q := range pool {
		if _, ok := seen[q.ID]; !ok {
			out = append(out, q)
		}
	}
	return out
}

// dateHashIndex 32 位字符串哈希 h = 31*h + c，取绝对值后对 n 取模
func dateHashIndex(date string, n int) int {
	var h int32
	for _, c := range date {
		h = 31*h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v % int64(n))
}
