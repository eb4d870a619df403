package model

type SchoolRequestStatus string

const (
	SchoolRequestNew       SchoolRequestStatus = "new"
	SchoolRequestContacted SchoolRequestStatus = "contacted"
	SchoolRequestClosed    SchoolRequestStatus = "closed"
)

// SchoolRequest 学校合作申请
// swagger:model SchoolRequest
type SchoolRequest struct {
	BaseModel
	SchoolName  string              `gorm:"size:200;not null" json:"schoolName"`
	ContactName string              `gorm:"size:100;not null" json:"contactName"`
	Email       string              `gorm:"size:100;not null" json:"email"`
	Phone       string              `gorm:"size:30" json:"phone"`
	City        string              `gorm:"size:100" json:"city"`
	Message     string              `gorm:"type:text" json:"message"`
	Status      SchoolRequestStatus `gorm:"size:20;default:'new';index" json:"status"`
}

func (SchoolRequest) TableName() string {
	return "school_requests"
}

// swagger:model ContactQuery
type ContactQuery struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;not null" json:"email"`
	Phone    string `gorm:"size:30" json:"phone"`
	Subject  string `gorm:"size:200" json:"subject"`
	Message  string `gorm:"type:text;not null" json:"message"`
	Resolved bool   `gorm:"default:false;index" json:"resolved"`
}

func (ContactQuery) TableName() string {
	return "contact_queries"
}
