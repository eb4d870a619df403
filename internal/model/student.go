package model

import "fmt"

// Student 学生资料。UserID 为空时表示由管理员导入、尚未开通登录的学生
// swagger:model Student
type Student struct {
	BaseModel
	UserID     *uint  `gorm:"index" json:"uid,omitempty"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Email      string `gorm:"size:100;index" json:"email"`
	Grade      string `gorm:"size:20" json:"grade"`
	SchoolName string `gorm:"size:200" json:"schoolName"`
	SchoolCode string `gorm:"size:50;index" json:"schoolCode"`
	District   string `gorm:"size:100" json:"district"`
	Phone      string `gorm:"size:30" json:"phone"`
}

func (Student) TableName() string {
	return "students"
}

// IdentityKey 排行榜去重键：优先使用登录身份，否则使用学生记录 ID
func (s *Student) IdentityKey() string {
	if s.UserID != nil && *s.UserID != 0 {
		return fmt.Sprintf("uid:%d", *s.UserID)
	}
	return fmt.Sprintf("student:%d", s.ID)
}
