package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	SubjectRepo  *repository.SubjectRepository
	Storage      *StorageService
}

func NewQuestionService(questionRepo *repository.QuestionRepository, subjectRepo *repository.SubjectRepository, storage *StorageService) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		SubjectRepo:  subjectRepo,
		Storage:      storage,
	}
}

// QuestionRequest options 可以是对象或数组，写入前会校验
type QuestionRequest struct {
	Question      string          `json:"question" binding:"required"`
	Options       json.RawMessage `json:"options" binding:"required" swaggertype:"object"`
	CorrectOption string          `json:"correctOption" binding:"required"`
	Explanation   string          `json:"explanation"`
}

// ListBySubject 列出科目下题目；格式异常的题目被跳过并记录日志
func (s *QuestionService) ListBySubject(ctx context.Context, subjectID uint) ([]QuestionView, error) {
	if _, err := s.SubjectRepo.FindByID(ctx, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}

	questions, err := s.QuestionRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	views := make([]QuestionView, 0, len(questions))
	for i := range questions {
		v, err := ToQuestionView(&questions[i])
		if err != nil {
			logger.Log.Warn("Skipping malformed question", zap.Uint("questionId", questions[i].ID), zap.Error(err))
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *QuestionService) Get(ctx context.Context, id uint) (*QuestionView, error) {
	q, err := s.QuestionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	v, err := ToQuestionView(q)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *QuestionService) Create(ctx context.Context, subjectID uint, req QuestionRequest) (*QuestionView, error) {
	if _, err := s.SubjectRepo.FindByID(ctx, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}

	q := &model.Question{SubjectID: subjectID}
	if err := applyQuestionRequest(q, req); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	v, err := ToQuestionView(q)
	return &v, err
}

func (s *QuestionService) Update(ctx context.Context, id uint, req QuestionRequest) (*QuestionView, error) {
	q, err := s.QuestionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if err := applyQuestionRequest(q, req); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	v, err := ToQuestionView(q)
	return &v, err
}

func (s *QuestionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.QuestionRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return s.QuestionRepo.Delete(ctx, id)
}

// UploadImage 题干/选项 HTML 中引用的图片
func (s *QuestionService) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !slices.Contains(util.AllowedImageExtensions, ext) {
		return "", util.ErrInvalidImageExt
	}
	if file.Size > util.MaxImageSize {
		return "", util.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.SniffUpload(src, util.UploadQuestionImage)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrInvalidImageExt, err)
	}
	if !util.IsImage(mimeType) {
		if ext != ".svg" {
			return "", util.ErrInvalidImageExt
		}
		mimeType = "image/svg+xml"
	}

	name := fmt.Sprintf("questions/%s/%s%s", time.Now().Format("200601"), uuid.New().String(), ext)
	return s.Storage.Upload(ctx, name, src, file.Size, mimeType)
}

// applyQuestionRequest 统一存成 {"a","b","c","d"} 小写键
func applyQuestionRequest(q *model.Question, req QuestionRequest) error {
	opts, err := NormalizeOptions(req.Options)
	if err != nil {
		return err
	}
	correct, err := NormalizeCorrectOption(req.CorrectOption)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Question = req.Question
	q.Options = datatypes.JSON(raw)
	q.CorrectOption = correct
	q.Explanation = req.Explanation
	return nil
}
