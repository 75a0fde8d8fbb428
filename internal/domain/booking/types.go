package booking

import (
	"strings"
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
)

// Type is the booking type. It selects a Policy bundle.
type Type string

const (
	TypeIncall  Type = "incall"
	TypeOutcall Type = "outcall"
	TypeOnline  Type = "online"
	TypePackage Type = "package"
)

// Policy holds the rules attached to a booking type.
type Policy struct {
	Type                Type
	MinAdvance          time.Duration
	DefaultDuration     time.Duration
	SlotInterval        time.Duration
	HasDeliveryFee      bool
	MaxDuration         time.Duration
	RequiresAddress     bool
	RequiresMeetingLink bool
}

var policies = map[Type]Policy{
	TypeIncall: {
		Type:            TypeIncall,
		MinAdvance:      2 * time.Hour,
		DefaultDuration: 60 * time.Minute,
		SlotInterval:    30 * time.Minute,
		MaxDuration:     4 * time.Hour,
	},
	TypeOutcall: {
		Type:            TypeOutcall,
		MinAdvance:      3 * time.Hour,
		DefaultDuration: 90 * time.Minute,
		SlotInterval:    30 * time.Minute,
		HasDeliveryFee:  true,
		MaxDuration:     6 * time.Hour,
		RequiresAddress: true,
	},
	TypeOnline: {
		Type:                TypeOnline,
		MinAdvance:          1 * time.Hour,
		DefaultDuration:     60 * time.Minute,
		SlotInterval:        15 * time.Minute,
		MaxDuration:         2 * time.Hour,
		RequiresMeetingLink: true,
	},
	TypePackage: {
		Type:            TypePackage,
		MinAdvance:      24 * time.Hour,
		DefaultDuration: 180 * time.Minute,
		SlotInterval:    60 * time.Minute,
		MaxDuration:     8 * time.Hour,
	},
}

// ParseType accepts an empty value as incall.
func ParseType(v string) (Type, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return TypeIncall, nil
	}
	t := Type(v)
	if _, ok := policies[t]; !ok {
		return "", httperr.ValidationField("invalid_booking_type", "type", "unknown booking type "+v)
	}
	return t, nil
}

func (t Type) IsValid() bool {
	_, ok := policies[t]
	return ok
}

// Policy returns the rules of t; unknown types fall back to incall.
func (t Type) Policy() Policy {
	if p, ok := policies[t]; ok {
		return p
	}
	return policies[TypeIncall]
}

func (p Policy) SlotPolicy() schedule.SlotPolicy {
	return schedule.SlotPolicy{Step: p.SlotInterval, MinAdvance: p.MinAdvance}
}

// Details carries the per-type fields a booking request may need.
type Details struct {
	Location    Location
	Address     string
	MeetingLink string
}

// ValidateDetails checks the fields required by the booking type.
func (p Policy) ValidateDetails(d Details) error {
	if p.RequiresAddress && strings.TrimSpace(d.Address) == "" {
		return httperr.ValidationField("address_required", "address", "address is required for "+string(p.Type)+" bookings")
	}
	if p.RequiresMeetingLink && strings.TrimSpace(d.MeetingLink) == "" {
		return httperr.ValidationField("meeting_link_required", "meeting_link", "meeting link is required for online bookings")
	}
	if d.Location != "" && !d.Location.IsValid() {
		return httperr.ValidationField("invalid_location", "location", "location must be salon or home")
	}
	return nil
}

// ValidateDuration rejects non-positive and over-long durations.
func (p Policy) ValidateDuration(d time.Duration) error {
	if d <= 0 {
		return httperr.ValidationField("invalid_duration", "duration", "duration must be positive")
	}
	if p.MaxDuration > 0 && d > p.MaxDuration {
		return httperr.ValidationField(
			"duration_too_long",
			"duration",
			"duration exceeds "+p.MaxDuration.String()+" for "+string(p.Type)+" bookings",
		)
	}
	return nil
}
