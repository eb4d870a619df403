package repository

import (
	"context"
	"mindleap_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakRepository struct {
	DB *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{DB: db}
}

func (r *StreakRepository) WithTx(tx *gorm.DB) *StreakRepository {
	return &StreakRepository{DB: tx}
}

func (r *StreakRepository) FindRecord(ctx context.Context, studentID uint, date string) (*model.StreakRecord, error) {
	var rec model.StreakRecord
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND date = ?", studentID, date).
		First(&rec).Error
	return &rec, err
}

// UpsertRecord 同一天重复提交直接覆盖
func (r *StreakRepository) UpsertRecord(ctx context.Context, rec *model.StreakRecord) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"question_id",
			"subject",
			"selected_option",
			"correct_option",
			"is_correct",
			"time_taken",
			"timestamp",
			"explanation",
			"status",
			"points",
		}),
	}).Create(rec).Error
}

func (r *StreakRepository) ListRecords(ctx context.Context, studentID uint) ([]model.StreakRecord, error) {
	var recs []model.StreakRecord
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date ASC").
		Find(&recs).Error
	return recs, err
}

// ListRecordsBetween from/to 均为 YYYY-MM-DD，闭区间
func (r *StreakRepository) ListRecordsBetween(ctx context.Context, studentID uint, from, to string) ([]model.StreakRecord, error) {
	var recs []model.StreakRecord
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND date >= ? AND date <= ?", studentID, from, to).
		Order("date ASC").
		Find(&recs).Error
	return recs, err
}

// PointsByStudent 一次查询汇总多个学生的记录积分与记录条数
func (r *StreakRepository) PointsByStudent(ctx context.Context, studentIDs []uint) (map[uint]PointsTotal, error) {
	out := make(map[uint]PointsTotal, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		StudentID uint
		Points    int
		Records   int
	}
	err := r.DB.WithContext(ctx).Model(&model.StreakRecord{}).
		Select("student_id, COALESCE(SUM(points), 0) AS points, COUNT(*) AS records").
		Where("student_id IN ?", studentIDs).
		Group("student_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.StudentID] = PointsTotal{Points: row.Points, Records: row.Records}
	}
	return out, nil
}

type PointsTotal struct {
	Points  int
	Records int
}

func (r *StreakRepository) GetState(ctx context.Context, studentID uint) (*model.StudentStreak, error) {
	var st model.StudentStreak
	err := r.DB.WithContext(ctx).Where("student_id = ?", studentID).First(&st).Error
	return &st, err
}

func (r *StreakRepository) ListStates(ctx context.Context, studentIDs []uint) (map[uint]model.StudentStreak, error) {
	out := make(map[uint]model.StudentStreak, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}
	var states []model.StudentStreak
	if err := r.DB.WithContext(ctx).Where("student_id IN ?", studentIDs).Find(&states).Error; err != nil {
		return nil, err
	}
	for _, st := range states {
		out[st.StudentID] = st
	}
	return out, nil
}

// EnsureState 不存在时创建空状态行
func (r *StreakRepository) EnsureState(ctx context.Context, studentID uint, now time.Time) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "student_id"}}, DoNothing: true}).
		Create(&model.StudentStreak{StudentID: studentID, LastUpdated: now}).Error
}

// AddToState 以 SQL 表达式累加冗余字段，避免读改写丢失更新
func (r *StreakRepository) AddToState(ctx context.Context, studentID uint, streakDelta, pointsDelta int, now time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.StudentStreak{}).
		Where("student_id = ?", studentID).
		Updates(map[string]interface{}{
			"current_streak": gorm.Expr("current_streak + ?", streakDelta),
			"total_points":   gorm.Expr("total_points + ?", pointsDelta),
			"last_updated":   now,
		}).Error
}
