package model

import "gorm.io/datatypes"

// SubAdmin 子管理员资料，对应一个 role=subadmin 的 User
type SubAdmin struct {
	BaseModel
	UserID      uint           `gorm:"uniqueIndex;not null" json:"userId"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Email       string         `gorm:"size:100;not null" json:"email"`
	Permissions datatypes.JSON `json:"permissions"`
	CreatedBy   uint           `json:"createdBy"`
}

func (SubAdmin) TableName() string {
	return "sub_admins"
}
