package model

import "time"

// swagger:model Webinar
type Webinar struct {
	BaseModel
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Speaker         string    `gorm:"size:100" json:"speaker"`
	StartsAt        time.Time `gorm:"index" json:"startsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Link            string    `gorm:"size:500" json:"link"`
	Thumbnail       string    `gorm:"size:500" json:"thumbnail"`
	RecordingURL    string    `gorm:"size:500" json:"recordingUrl"`
	RecordingSecs   float64   `json:"recordingSeconds"`
	Published       bool      `gorm:"not null" json:"published"`
}

func (Webinar) TableName() string {
	return "webinars"
}

// swagger:model Workshop
type Workshop struct {
	BaseModel
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Instructor      string    `gorm:"size:100" json:"instructor"`
	StartsAt        time.Time `gorm:"index" json:"startsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Venue           string    `gorm:"size:300" json:"venue"`
	Thumbnail       string    `gorm:"size:500" json:"thumbnail"`
	Seats           int       `json:"seats"`
	Published       bool      `gorm:"not null" json:"published"`
}

func (Workshop) TableName() string {
	return "workshops"
}
