package model

import "time"

type StreakStatus string

const (
	StreakCorrect StreakStatus = "correct"
	StreakWrong   StreakStatus = "wrong"
	StreakSkipped StreakStatus = "skipped"
	StreakPending StreakStatus = "pending"
)

// StreakRecord 学生某一天的作答记录，(student_id, date) 唯一，重复提交覆盖
// swagger:model StreakRecord
type StreakRecord struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"-"`
	StudentID      uint         `gorm:"uniqueIndex:idx_streak_student_date;not null" json:"-"`
	Date           string       `gorm:"uniqueIndex:idx_streak_student_date;size:10;not null" json:"date"`
	QuestionID     uint         `json:"questionId"`
	Subject        string       `gorm:"size:100" json:"subject"`
	SelectedOption string       `gorm:"size:10" json:"selectedOption"`
	CorrectOption  string       `gorm:"size:10" json:"correctOption"`
	IsCorrect      bool         `json:"isCorrect"`
	TimeTaken      int          `json:"timeTaken"`
	Timestamp      time.Time    `json:"timestamp"`
	Explanation    string       `gorm:"type:text" json:"explanation"`
	Status         StreakStatus `gorm:"size:10" json:"status"`
	Points         int          `json:"points"`
}

func (StreakRecord) TableName() string {
	return "streak_records"
}

// StudentStreak 冗余存储的连续天数与总积分
type StudentStreak struct {
	StudentID     uint      `gorm:"primaryKey" json:"studentId"`
	CurrentStreak int       `gorm:"default:0" json:"currentStreak"`
	TotalPoints   int       `gorm:"default:0" json:"totalPoints"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

func (StudentStreak) TableName() string {
	return "student_streaks"
}
