package models

import "time"

type ProviderSchedule struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"uniqueIndex:idx_provider_weekday" json:"provider_id"`

	Weekday int `gorm:"uniqueIndex:idx_provider_weekday" json:"weekday"`

	StartTime    string `gorm:"size:5" json:"start_time"`
	EndTime      string `gorm:"size:5" json:"end_time"`
	BreakStart   string `gorm:"size:5" json:"break_start"`
	BreakEnd     string `gorm:"size:5" json:"break_end"`
	IsWorkingDay bool   `json:"is_working_day"`
	SlotDuration int    `gorm:"default:60" json:"slot_duration"`
	BufferTime   int    `gorm:"default:0" json:"buffer_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
