package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EventService struct {
	EventRepo *repository.EventRepository
	Storage   *StorageService
	Calendar  *Calendar
}

func NewEventService(eventRepo *repository.EventRepository, storage *StorageService, calendar *Calendar) *EventService {
	return &EventService{
		EventRepo: eventRepo,
		Storage:   storage,
		Calendar:  calendar,
	}
}

type WebinarRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	Speaker         string    `json:"speaker"`
	StartsAt        time.Time `json:"startsAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`
	Link            string    `json:"link"`
	Thumbnail       string    `json:"thumbnail"`
	Published       *bool     `json:"published"`
}

type WorkshopRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	Instructor      string    `json:"instructor"`
	StartsAt        time.Time `json:"startsAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`
	Venue           string    `json:"venue"`
	Thumbnail       string    `json:"thumbnail"`
	Seats           int       `json:"seats"`
	Published       *bool     `json:"published"`
}

// WebinarListing 公开页面按开始时间拆分为即将开始和往期
type WebinarListing struct {
	Upcoming []model.Webinar `json:"upcoming"`
	Past     []model.Webinar `json:"past"`
}

type WorkshopListing struct {
	Upcoming []model.Workshop `json:"upcoming"`
	Past     []model.Workshop `json:"past"`
}

func (s *EventService) PublicWebinars(ctx context.Context) (*WebinarListing, error) {
	list, err := s.EventRepo.ListWebinars(ctx, true)
	if err != nil {
		return nil, err
	}
	now := s.Calendar.Now()
	out := &WebinarListing{Upcoming: []model.Webinar{}, Past: []model.Webinar{}}
	for _, w := range list {
		if w.StartsAt.Before(now) {
			out.Past = append(out.Past, w)
		} else {
			out.Upcoming = append(out.Upcoming, w)
		}
	}
	// 即将开始的按时间正序
	slices.Reverse(out.Upcoming)
	return out, nil
}

func (s *EventService) PublicWorkshops(ctx context.Context) (*WorkshopListing, error) {
	list, err := s.EventRepo.ListWorkshops(ctx, true)
	if err != nil {
		return nil, err
	}
	now := s.Calendar.Now()
	out := &WorkshopListing{Upcoming: []model.Workshop{}, Past: []model.Workshop{}}
	for _, w := range list {
		if w.StartsAt.Before(now) {
			out.Past = append(out.Past, w)
		} else {
			out.Upcoming = append(out.Upcoming, w)
		}
	}
	slices.Reverse(out.Upcoming)
	return out, nil
}

func (s *EventService) ListWebinars(ctx context.Context) ([]model.Webinar, error) {
	return s.EventRepo.ListWebinars(ctx, false)
}

func (s *EventService) ListWorkshops(ctx context.Context) ([]model.Workshop, error) {
	return s.EventRepo.ListWorkshops(ctx, false)
}

func (s *EventService) SaveWebinar(ctx context.Context, id uint, req WebinarRequest) (*model.Webinar, error) {
	w := &model.Webinar{Published: true}
	if id != 0 {
		found, err := s.EventRepo.FindWebinar(ctx, id)
		if err != nil {
			return nil, notFoundAs(err, util.ErrEventNotFound)
		}
		w = found
	}

	w.Title = req.Title
	w.Description = req.Description
	w.Speaker = req.Speaker
	w.StartsAt = req.StartsAt
	w.DurationMinutes = req.DurationMinutes
	w.Link = req.Link
	if req.Thumbnail != "" {
		w.Thumbnail = req.Thumbnail
	}
	if req.Published != nil {
		w.Published = *req.Published
	}

	if err := s.EventRepo.SaveWebinar(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *EventService) SaveWorkshop(ctx context.Context, id uint, req WorkshopRequest) (*model.Workshop, error) {
	w := &model.Workshop{Published: true}
	if id != 0 {
		found, err := s.EventRepo.FindWorkshop(ctx, id)
		if err != nil {
			return nil, notFoundAs(err, util.ErrEventNotFound)
		}
		w = found
	}

	w.Title = req.Title
	w.Description = req.Description
	w.Instructor = req.Instructor
	w.StartsAt = req.StartsAt
	w.DurationMinutes = req.DurationMinutes
	w.Venue = req.Venue
	w.Seats = req.Seats
	if req.Thumbnail != "" {
		w.Thumbnail = req.Thumbnail
	}
	if req.Published != nil {
		w.Published = *req.Published
	}

	if err := s.EventRepo.SaveWorkshop(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *EventService) DeleteWebinar(ctx context.Context, id uint) error {
	ok, err := s.EventRepo.DeleteWebinar(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrEventNotFound
	}
	return nil
}

func (s *EventService) DeleteWorkshop(ctx context.Context, id uint) error {
	ok, err := s.EventRepo.DeleteWorkshop(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrEventNotFound
	}
	return nil
}

// UploadRecording 保存讲座录播；时长探测和封面截图失败只记录日志，不影响上传
func (s *EventService) UploadRecording(ctx context.Context, webinarID uint, file *multipart.FileHeader) (*model.Webinar, error) {
	webinar, err := s.EventRepo.FindWebinar(ctx, webinarID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrEventNotFound)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !slices.Contains(util.AllowedVideoExtensions, ext) {
		return nil, util.ErrInvalidVideoExt
	}
	if file.Size > util.MaxRecordingSize {
		return nil, util.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := util.SniffUpload(src, util.UploadRecording); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidVideoExt, err)
	}

	// 临时保存到本地进行处理
	if err := os.MkdirAll(s.Storage.TempDir, 0755); err != nil {
		return nil, err
	}
	id := uuid.New().String()
	videoPath := filepath.Join(s.Storage.TempDir, id+ext)
	defer os.Remove(videoPath)

	if err := copyToFile(videoPath, src); err != nil {
		return nil, err
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeVideo + strings.TrimPrefix(ext, ".")
	}
	videoURL, err := s.Storage.UploadFile(ctx, fmt.Sprintf("recordings/%d/%s%s", webinar.ID, id, ext), videoPath, contentType)
	if err != nil {
		return nil, err
	}
	webinar.RecordingURL = videoURL

	if info, err := util.GetVideoInfo(videoPath); err != nil {
		logger.Log.Warn("Failed to read recording metadata", zap.Uint("webinarId", webinar.ID), zap.Error(err))
	} else {
		webinar.RecordingSecs = info.Duration
		if webinar.DurationMinutes == 0 {
			webinar.DurationMinutes = int(info.Duration / 60)
		}
	}

	if webinar.Thumbnail == "" {
		thumbPath := filepath.Join(s.Storage.TempDir, id+".jpg")
		defer os.Remove(thumbPath)
		if err := util.GenerateThumbnail(videoPath, thumbPath, "3"); err != nil {
			logger.Log.Warn("Failed to generate recording thumbnail", zap.Uint("webinarId", webinar.ID), zap.Error(err))
		} else if url, err := s.Storage.UploadFile(ctx, fmt.Sprintf("thumbnails/webinar-%d-%s.jpg", webinar.ID, id), thumbPath, "image/jpeg"); err != nil {
			logger.Log.Warn("Failed to upload recording thumbnail", zap.Uint("webinarId", webinar.ID), zap.Error(err))
		} else {
			webinar.Thumbnail = url
		}
	}

	if err := s.EventRepo.SaveWebinar(ctx, webinar); err != nil {
		return nil, err
	}
	return webinar, nil
}

func copyToFile(path string, r io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// notFoundAs 把 gorm 的记录不存在转换成业务错误
func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
