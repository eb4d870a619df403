package model

import "time"

// Weekdays 合法的 scheduledDay 取值
var Weekdays = []string{
	time.Sunday.String(),
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
}

func IsWeekdayName(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Subject 每个科目固定在一周中的某一天出题
// swagger:model Subject
type Subject struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	ScheduledDay string `gorm:"size:10;index;not null" json:"scheduledDay"`
}

func (Subject) TableName() string {
	return "subjects"
}
