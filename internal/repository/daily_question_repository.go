package repository

import (
	"context"
	"mindleap_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyQuestionRepository struct {
	DB *gorm.DB
}

func NewDailyQuestionRepository(db *gorm.DB) *DailyQuestionRepository {
	return &DailyQuestionRepository{DB: db}
}

func (r *DailyQuestionRepository) WithTx(tx *gorm.DB) *DailyQuestionRepository {
	return &DailyQuestionRepository{DB: tx}
}

func (r *DailyQuestionRepository) FindByDate(ctx context.Context, date string) (*model.DailyQuestion, error) {
	var dq model.DailyQuestion
	err := r.DB.WithContext(ctx).Where("date = ?", date).First(&dq).Error
	return &dq, err
}

// RecentQuestionIDs 返回该科目在 date 之前最近 limit 次出过的题目
func (r *DailyQuestionRepository) RecentQuestionIDs(ctx context.Context, subjectID uint, before string, limit int) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.DailyQuestion{}).
		Where("subject_id = ? AND date < ?", subjectID, before).
		Order("date DESC").
		Limit(limit).
		Pluck("question_id", &ids).Error
	return ids, err
}

// InsertIfAbsent 日期已存在时什么也不做，返回是否真正插入
func (r *DailyQuestionRepository) InsertIfAbsent(ctx context.Context, dq *model.DailyQuestion) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "date"}}, DoNothing: true}).
		Create(dq)
	return res.RowsAffected > 0, res.Error
}

// ReplaceIfSubject 仅当记录仍属于 staleSubject 时替换，相当于一次 compare-and-set
func (r *DailyQuestionRepository) ReplaceIfSubject(ctx context.Context, staleSubject string, dq *model.DailyQuestion) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.DailyQuestion{}).
		Where("date = ? AND subject = ?", dq.Date, staleSubject).
		Updates(map[string]interface{}{
			"question_id":      dq.QuestionID,
			"subject":          dq.Subject,
			"subject_id":       dq.SubjectID,
			"scheduled_day":    dq.ScheduledDay,
			"total_attempts":   0,
			"correct_attempts": 0,
		})
	return res.RowsAffected > 0, res.Error
}

// IncrementAttempts 原子累加作答次数
func (r *DailyQuestionRepository) IncrementAttempts(ctx context.Context, date string, correct bool) error {
	updates := map[string]interface{}{
		"total_attempts": gorm.Expr("total_attempts + ?", 1),
	}
	if correct {
		updates["correct_attempts"] = gorm.Expr("correct_attempts + ?", 1)
	}
	return r.DB.WithContext(ctx).Model(&model.DailyQuestion{}).
		Where("date = ?", date).
		Updates(updates).Error
}
