package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizQuestion 测验内嵌题目，Options 与 Question 一样在读取时规整
type QuizQuestion struct {
	Question      string         `json:"question"`
	Options       datatypes.JSON `json:"options" swaggertype:"object"`
	CorrectOption string         `json:"correctOption,omitempty"`
	Explanation   string         `json:"explanation,omitempty"`
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title           string                            `gorm:"size:200;not null" json:"title"`
	Description     string                            `gorm:"type:text" json:"description"`
	SubjectID       *uint                             `gorm:"index" json:"subjectId,omitempty"`
	DurationMinutes int                               `gorm:"default:10" json:"durationMinutes"`
	Questions       datatypes.JSONSlice[QuizQuestion] `json:"questions"`
	Active          bool                              `gorm:"not null" json:"active"`
	StartsAt        *time.Time                        `json:"startsAt,omitempty"`
	EndsAt          *time.Time                        `json:"endsAt,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizAttempt 每个学生每个测验只能提交一次
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	QuizID      uint              `gorm:"uniqueIndex:idx_quiz_attempt;not null" json:"quizId"`
	StudentID   uint              `gorm:"uniqueIndex:idx_quiz_attempt;not null" json:"studentId"`
	Answers     datatypes.JSONMap `json:"answers" swaggertype:"object"`
	Score       int               `json:"score"`
	Total       int               `json:"total"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
