package model

import (
	"time"
)

type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleSubAdmin UserRole = "subadmin"
	RoleAdmin    UserRole = "admin"
)

// User 登录身份，学生资料见 Student
// swagger:model User
type User struct {
	BaseModel
	Email     string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"size:100;not null" json:"-"`
	Role      UserRole   `gorm:"size:20;default:'student'" json:"role"`
	Disabled  bool       `gorm:"default:false" json:"disabled"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}
