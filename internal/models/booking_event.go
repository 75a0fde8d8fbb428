package models

import "time"

// BookingEvent is the audit trail of notifications emitted for bookings.
type BookingEvent struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	EventID string `gorm:"size:36;uniqueIndex" json:"event_id"`

	BookingID  uint   `gorm:"index" json:"booking_id"`
	Number     string `gorm:"size:20" json:"number"`
	ProviderID uint   `json:"provider_id"`
	ClientID   *uint  `json:"client_id"`
	Kind       string `gorm:"size:50;not null" json:"kind"`
	Actor      string `gorm:"size:20" json:"actor"`
	Payload    string `gorm:"type:text" json:"payload"`

	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
