package models

import "time"

type ScheduleException struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"index" json:"provider_id"`

	Type      string    `gorm:"size:20;not null" json:"type"`
	DateFrom  time.Time `gorm:"type:date" json:"date_from"`
	DateTo    time.Time `gorm:"type:date" json:"date_to"`
	IsWorking bool      `json:"is_working"`
	StartTime string    `gorm:"size:5" json:"start_time"`
	EndTime   string    `gorm:"size:5" json:"end_time"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
