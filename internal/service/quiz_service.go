package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.QuizAttemptRepository
	Calendar    *Calendar
}

func NewQuizService(quizRepo *repository.QuizRepository, attemptRepo *repository.QuizAttemptRepository, calendar *Calendar) *QuizService {
	return &QuizService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		Calendar:    calendar,
	}
}

type QuizQuestionRequest struct {
	Question      string          `json:"question" binding:"required"`
	Options       json.RawMessage `json:"options" binding:"required" swaggertype:"object"`
	CorrectOption string          `json:"correctOption" binding:"required"`
	Explanation   string          `json:"explanation"`
}

type QuizRequest struct {
	Title           string                `json:"title" binding:"required"`
	Description     string                `json:"description"`
	SubjectID       *uint                 `json:"subjectId"`
	DurationMinutes int                   `json:"durationMinutes"`
	Questions       []QuizQuestionRequest `json:"questions" binding:"required,min=1,dive"`
	Active          *bool                 `json:"active"`
	StartsAt        *time.Time            `json:"startsAt"`
	EndsAt          *time.Time            `json:"endsAt"`
}

// QuizQuestionView 作答时下发的题目，不含答案
type QuizQuestionView struct {
	Index    int           `json:"index"`
	Question string        `json:"question"`
	Options  model.Options `json:"options"`
}

// QuizView 学生端测验
type QuizView struct {
	ID              uint               `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	SubjectID       *uint              `json:"subjectId,omitempty"`
	DurationMinutes int                `json:"durationMinutes"`
	QuestionCount   int                `json:"questionCount"`
	Questions       []QuizQuestionView `json:"questions,omitempty"`
	EndsAt          *time.Time         `json:"endsAt,omitempty"`
	Attempted       bool               `json:"attempted"`
}

// QuizReviewItem 提交后逐题对照
type QuizReviewItem struct {
	Index         int    `json:"index"`
	Selected      string `json:"selected"`
	CorrectOption string `json:"correctOption"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation"`
}

type QuizResult struct {
	Attempt *model.QuizAttempt `json:"attempt"`
	Review  []QuizReviewItem   `json:"review"`
}

// ListOpen 当前开放的测验列表（不含题目）
func (s *QuizService) ListOpen(ctx context.Context, studentID uint) ([]QuizView, error) {
	quizzes, err := s.QuizRepo.ListOpen(ctx, s.Calendar.Now())
	if err != nil {
		return nil, err
	}
	attempts, err := s.AttemptRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	done := make(map[uint]bool, len(attempts))
	for _, a := range attempts {
		done[a.QuizID] = true
	}

	views := make([]QuizView, 0, len(quizzes))
	for i := range quizzes {
		v := quizSummary(&quizzes[i])
		v.Attempted = done[quizzes[i].ID]
		views = append(views, v)
	}
	return views, nil
}

// GetForStudent 获取测验题目用于作答
func (s *QuizService) GetForStudent(ctx context.Context, id uint) (*QuizView, error) {
	quiz, err := s.openQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	v := quizSummary(quiz)
	for i, q := range quiz.Questions {
		opts, err := NormalizeOptions(q.Options)
		if err != nil {
			return nil, fmt.Errorf("quiz %d question %d: %w", quiz.ID, i, err)
		}
		v.Questions = append(v.Questions, QuizQuestionView{Index: i, Question: q.Question, Options: opts})
	}
	return &v, nil
}

// SubmitAttempt 评分并保存；每个学生每个测验只能提交一次
func (s *QuizService) SubmitAttempt(ctx context.Context, quizID, studentID uint, answers map[string]string) (*QuizResult, error) {
	quiz, err := s.openQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	exists, err := s.AttemptRepo.Exists(ctx, quizID, studentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrQuizAlreadyAttempted
	}

	stored := datatypes.JSONMap{}
	review := make([]QuizReviewItem, 0, len(quiz.Questions))
	score := 0
	for i, q := range quiz.Questions {
		key := strconv.Itoa(i)
		correct, err := NormalizeCorrectOption(q.CorrectOption)
		if err != nil {
			return nil, fmt.Errorf("quiz %d question %d: %w", quiz.ID, i, err)
		}

		item := QuizReviewItem{Index: i, CorrectOption: correct, Explanation: q.Explanation}
		if raw, ok := answers[key]; ok && raw != "" {
			selected, err := NormalizeOptionKey(raw, false)
			if err != nil {
				return nil, util.ErrInvalidOption
			}
			item.Selected = selected
			stored[key] = selected
		}
		item.IsCorrect = item.Selected == correct
		if item.IsCorrect {
			score++
		}
		review = append(review, item)
	}

	attempt := &model.QuizAttempt{
		QuizID:      quizID,
		StudentID:   studentID,
		Answers:     stored,
		Score:       score,
		Total:       len(quiz.Questions),
		SubmittedAt: s.Calendar.Now(),
	}
	if err := s.AttemptRepo.Create(ctx, attempt); err != nil {
		// 并发提交由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrQuizAlreadyAttempted
		}
		return nil, err
	}

	logger.Log.Info("Quiz attempt submitted",
		zap.Uint("quizId", quizID),
		zap.Uint("studentId", studentID),
		zap.Int("score", score),
		zap.Int("total", attempt.Total),
	)
	return &QuizResult{Attempt: attempt, Review: review}, nil
}

func (s *QuizService) MyAttempts(ctx context.Context, studentID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByStudent(ctx, studentID)
}

func (s *QuizService) List(ctx context.Context) ([]model.Quiz, error) {
	return s.QuizRepo.List(ctx)
}

func (s *QuizService) Get(ctx context.Context, id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Create(ctx context.Context, req QuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{Active: true}
	if err := applyQuizRequest(quiz, req); err != nil {
		return nil, err
	}
	if err := s.QuizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Update(ctx context.Context, id uint, req QuizRequest) (*model.Quiz, error) {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyQuizRequest(quiz, req); err != nil {
		return nil, err
	}
	if err := s.QuizRepo.Update(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.QuizRepo.Delete(ctx, id)
}

func (s *QuizService) Attempts(ctx context.Context, quizID uint) ([]model.QuizAttempt, error) {
	if _, err := s.Get(ctx, quizID); err != nil {
		return nil, err
	}
	return s.AttemptRepo.ListByQuiz(ctx, quizID)
}

func (s *QuizService) openQuiz(ctx context.Context, id uint) (*model.Quiz, error) {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.Calendar.Now()
	if !quiz.Active ||
		(quiz.StartsAt != nil && now.Before(*quiz.StartsAt)) ||
		(quiz.EndsAt != nil && now.After(*quiz.EndsAt)) {
		return nil, util.ErrQuizNotAvailable
	}
	return quiz, nil
}

func quizSummary(q *model.Quiz) QuizView {
	return QuizView{
		ID:              q.ID,
		Title:           q.Title,
		Description:     q.Description,
		SubjectID:       q.SubjectID,
		DurationMinutes: q.DurationMinutes,
		QuestionCount:   len(q.Questions),
		EndsAt:          q.EndsAt,
	}
}

func applyQuizRequest(quiz *model.Quiz, req QuizRequest) error {
	questions := make([]model.QuizQuestion, 0, len(req.Questions))
	for i, q := range req.Questions {
		opts, err := NormalizeOptions(q.Options)
		if err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
		correct, err := NormalizeCorrectOption(q.CorrectOption)
		if err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
		raw, err := json.Marshal(opts)
		if err != nil {
			return err
		}
		questions = append(questions, model.QuizQuestion{
			Question:      q.Question,
			Options:       datatypes.JSON(raw),
			CorrectOption: correct,
			Explanation:   q.Explanation,
		})
	}
	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		return fmt.Errorf("%w: endsAt before startsAt", util.ErrInvalidDate)
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.SubjectID = req.SubjectID
	quiz.DurationMinutes = req.DurationMinutes
	if quiz.DurationMinutes <= 0 {
		quiz.DurationMinutes = 10
	}
	quiz.Questions = questions
	if req.Active != nil {
		quiz.Active = *req.Active
	}
	quiz.StartsAt = req.StartsAt
	quiz.EndsAt = req.EndsAt
	return nil
}
