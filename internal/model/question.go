package model

import "gorm.io/datatypes"

const (
	OptionA = "a"
	OptionB = "b"
	OptionC = "c"
	OptionD = "d"
)

var OptionKeys = []string{OptionA, OptionB, OptionC, OptionD}

// Question 题干、选项、解析均为 HTML。Options 保留原始 JSON，读取时统一规整
// swagger:model Question
type Question struct {
	BaseModel
	SubjectID     uint           `gorm:"index;not null" json:"subjectId"`
	Question      string         `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSON `json:"options" swaggertype:"object"`
	CorrectOption string         `gorm:"size:10;not null" json:"correctOption"`
	Explanation   string         `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}

// Options 规整后的四个选项
type Options struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
	D string `json:"d"`
}

func (o Options) Get(key string) string {
	switch key {
	case OptionA:
		return o.A
	case OptionB:
		return o.B
	case OptionC:
		return o.C
	case OptionD:
		return o.D
	}
	return ""
}
