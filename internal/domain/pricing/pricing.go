package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
)

const (
	DefaultDeliveryFee    = 500.0
	DefaultCommissionRate = 0.15

	FirstBookingRate  = 0.10
	SalonDiscount     = 200.0
	WeekdayRate       = 0.05
	EarlyBookingRate  = 0.03
	EarlyBookingAfter = 3 * 24 * time.Hour
	MaxDiscountRate   = 0.30
)

type DiscountKind string

const (
	DiscountFirstBooking DiscountKind = "first_booking"
	DiscountSalon        DiscountKind = "salon"
	DiscountWeekday      DiscountKind = "weekday"
	DiscountEarly        DiscountKind = "early_booking"
	DiscountPromo        DiscountKind = "promo"
)

type Config struct {
	DeliveryFee          float64
	DeliveryFeeOverrides map[time.Weekday]float64
	// PromoCodes maps an upper-case code to a fraction of the price.
	PromoCodes     map[string]float64
	CommissionRate float64
}

func DefaultConfig() Config {
	return Config{
		DeliveryFee:          DefaultDeliveryFee,
		DeliveryFeeOverrides: map[time.Weekday]float64{},
		PromoCodes:           map[string]float64{},
		CommissionRate:       DefaultCommissionRate,
	}
}

// Context is what the engine needs to know about the booking being priced.
type Context struct {
	StartTime      time.Time
	Now            time.Time
	Location       booking.Location
	IsFirstBooking bool
	PromoCode      string
}

type Discount struct {
	Kind   DiscountKind `json:"kind"`
	Amount float64      `json:"amount"`
}

type Breakdown struct {
	ServicePrice   float64    `json:"service_price"`
	DeliveryFee    float64    `json:"delivery_fee"`
	DiscountAmount float64    `json:"discount_amount"`
	TotalPrice     float64    `json:"total_price"`
	PlatformFee    float64    `json:"platform_fee"`
	ProviderPayout float64    `json:"provider_payout"`
	PromoCode      string     `json:"promo_code,omitempty"`
	Discounts      []Discount `json:"discounts"`
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.CommissionRate <= 0 {
		cfg.CommissionRate = DefaultCommissionRate
	}
	if cfg.DeliveryFee < 0 {
		cfg.DeliveryFee = 0
	}
	return &Engine{cfg: cfg}
}

// DeliveryFee returns the fee for a booking of type t starting at start.
func (e *Engine) DeliveryFee(t booking.Type, start time.Time) float64 {
	if !t.Policy().HasDeliveryFee {
		return 0
	}
	if fee, ok := e.cfg.DeliveryFeeOverrides[start.Weekday()]; ok {
		return fee
	}
	return e.cfg.DeliveryFee
}

// Compute prices one booking. Discounts add up and are capped at 30% of the
// service price; an unknown promo code is ignored here.
func (e *Engine) Compute(servicePrice float64, t booking.Type, pc Context) Breakdown {
	if servicePrice < 0 {
		servicePrice = 0
	}

	out := Breakdown{
		ServicePrice: round(servicePrice),
		DeliveryFee:  round(e.DeliveryFee(t, pc.StartTime)),
		Discounts:    []Discount{},
	}

	add := func(kind DiscountKind, amount float64) {
		if amount > 0 {
			out.Discounts = append(out.Discounts, Discount{Kind: kind, Amount: round(amount)})
		}
	}

	if pc.IsFirstBooking {
		add(DiscountFirstBooking, servicePrice*FirstBookingRate)
	}
	if t == booking.TypeIncall || pc.Location == booking.LocationSalon {
		add(DiscountSalon, SalonDiscount)
	}
	if isWeekday(pc.StartTime) {
		add(DiscountWeekday, servicePrice*WeekdayRate)
	}
	if !pc.Now.IsZero() && pc.StartTime.Sub(pc.Now) > EarlyBookingAfter {
		add(DiscountEarly, servicePrice*EarlyBookingRate)
	}
	if promo := e.ApplyPromo(pc.PromoCode, servicePrice); promo.Valid {
		add(DiscountPromo, promo.Discount)
		out.PromoCode = normalizeCode(pc.PromoCode)
	}

	var sum float64
	for _, d := range out.Discounts {
		sum += d.Amount
	}
	out.DiscountAmount = round(math.Min(sum, servicePrice*MaxDiscountRate))

	out.TotalPrice = round(math.Max(0, out.ServicePrice+out.DeliveryFee-out.DiscountAmount))
	out.PlatformFee = round(out.TotalPrice * e.cfg.CommissionRate)
	out.ProviderPayout = round(out.TotalPrice - out.PlatformFee)
	return out
}

type PromoResult struct {
	Valid      bool    `json:"valid"`
	Code       string  `json:"code,omitempty"`
	Discount   float64 `json:"discount"`
	FinalPrice float64 `json:"final_price"`
}

func (e *Engine) ApplyPromo(code string, price float64) PromoResult {
	code = normalizeCode(code)
	rate, ok := e.cfg.PromoCodes[code]
	if code == "" || !ok || rate <= 0 {
		return PromoResult{Valid: false, Discount: 0, FinalPrice: round(price)}
	}
	discount := round(price * math.Min(rate, 1))
	return PromoResult{
		Valid:      true,
		Code:       code,
		Discount:   discount,
		FinalPrice: round(math.Max(0, price-discount)),
	}
}

type PackageQuote struct {
	Subtotal     float64 `json:"subtotal"`
	DiscountRate float64 `json:"discount_rate"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

// PackagePrice sums several services: 10% off for three or more, 5% for two.
func PackagePrice(prices []float64) PackageQuote {
	var subtotal float64
	for _, p := range prices {
		subtotal += math.Max(0, p)
	}

	rate := 0.0
	switch {
	case len(prices) >= 3:
		rate = 0.10
	case len(prices) == 2:
		rate = 0.05
	}

	discount := round(subtotal * rate)
	return PackageQuote{
		Subtotal:     round(subtotal),
		DiscountRate: rate,
		Discount:     discount,
		Total:        round(subtotal - discount),
	}
}

func isWeekday(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
