package models

import "time"

type Booking struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Number string `gorm:"size:20;uniqueIndex;not null" json:"number"`

	ClientID    *uint  `json:"client_id"`
	ClientName  string `gorm:"size:100" json:"client_name"`
	ClientPhone string `gorm:"size:20;index" json:"client_phone"`

	ProviderID uint    `gorm:"not null;index" json:"provider_id"`
	ServiceID  uint    `json:"service_id"`
	Service    Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	Type            string    `gorm:"size:20;not null" json:"type"`
	BookingDate     time.Time `gorm:"type:date" json:"booking_date"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Location    string `gorm:"size:10" json:"location"`
	Address     string `gorm:"size:255" json:"address"`
	MeetingLink string `gorm:"size:255" json:"meeting_link"`
	Notes       string `gorm:"size:500" json:"notes"`

	ServicePrice   float64 `gorm:"type:numeric(10,2)" json:"service_price"`
	TravelFee      float64 `gorm:"type:numeric(10,2)" json:"travel_fee"`
	DiscountAmount float64 `gorm:"type:numeric(10,2)" json:"discount_amount"`
	TotalPrice     float64 `gorm:"type:numeric(10,2)" json:"total_price"`
	PlatformFee    float64 `gorm:"type:numeric(10,2)" json:"platform_fee"`
	ProviderPayout float64 `gorm:"type:numeric(10,2)" json:"provider_payout"`
	PromoCode      string  `gorm:"size:32" json:"promo_code"`

	PaymentMethod string  `gorm:"size:10;default:'cash'" json:"payment_method"`
	PaymentStatus string  `gorm:"size:20;default:'unpaid'" json:"payment_status"`
	PaymentID     string  `gorm:"size:64" json:"payment_id"`
	PaidAmount    float64 `gorm:"type:numeric(10,2)" json:"paid_amount"`

	RescheduleCount         int `json:"reschedule_count"`
	ClientRescheduleCount   int `json:"client_reschedule_count"`
	ProviderRescheduleCount int `json:"provider_reschedule_count"`

	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`
	CancellationFee    float64    `gorm:"type:numeric(10,2)" json:"cancellation_fee"`
	CancelledBy        string     `gorm:"size:20" json:"cancelled_by"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	ReminderSent    bool `gorm:"default:false" json:"reminder_sent"`
	ReviewRequested bool `gorm:"default:false" json:"review_requested"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
