package model

import "time"

// DailyQuestion 某一天所有学生共用的题目，日期唯一
// swagger:model DailyQuestion
type DailyQuestion struct {
	Date            string    `gorm:"primaryKey;size:10" json:"date"`
	QuestionID      uint      `gorm:"not null" json:"questionId"`
	Subject         string    `gorm:"size:100;not null" json:"subject"`
	SubjectID       uint      `gorm:"index;not null" json:"subjectId"`
	ScheduledDay    string    `gorm:"size:10" json:"scheduledDay"`
	TotalAttempts   int       `gorm:"default:0" json:"totalAttempts"`
	CorrectAttempts int       `gorm:"default:0" json:"correctAttempts"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (DailyQuestion) TableName() string {
	return "daily_questions"
}
