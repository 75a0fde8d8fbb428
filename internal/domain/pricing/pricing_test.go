package pricing

import (
	"testing"
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
)

// 2026-10-19 is a Monday, 2026-10-24 a Saturday.
var (
	mondayStart   = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	saturdayStart = time.Date(2026, 10, 24, 15, 0, 0, 0, time.UTC)
)

func testEngine() *Engine {
	cfg := DefaultConfig()
	cfg.DeliveryFeeOverrides[time.Saturday] = 700
	cfg.PromoCodes["SPA10"] = 0.10
	return NewEngine(cfg)
}

func TestCompute_DiscountCap(t *testing.T) {
	e := testEngine()

	got := e.Compute(1000, booking.TypeIncall, Context{
		StartTime:      mondayStart,
		Now:            mondayStart.Add(-4 * 24 * time.Hour),
		IsFirstBooking: true,
	})

	if len(got.Discounts) != 4 {
		t.Fatalf("expected 4 discounts, got %+v", got.Discounts)
	}
	if got.DiscountAmount != 300 {
		t.Fatalf("expected discount capped at 300, got %.2f", got.DiscountAmount)
	}
	if got.TotalPrice != 700 || got.PlatformFee != 105 || got.ProviderPayout != 595 {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

func TestCompute_DeliveryFeeOverride(t *testing.T) {
	e := testEngine()

	got := e.Compute(2000, booking.TypeOutcall, Context{
		StartTime: saturdayStart,
		Now:       saturdayStart.Add(-24 * time.Hour),
		Location:  booking.LocationHome,
	})
	if got.DeliveryFee != 700 || got.DiscountAmount != 0 || got.TotalPrice != 2700 {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
	if got.PlatformFee != 405 || got.ProviderPayout != 2295 {
		t.Fatalf("unexpected commission split: %+v", got)
	}

	weekday := e.Compute(2000, booking.TypeOutcall, Context{StartTime: mondayStart, Now: mondayStart.Add(-time.Hour * 24)})
	if weekday.DeliveryFee != DefaultDeliveryFee {
		t.Fatalf("expected default fee, got %.2f", weekday.DeliveryFee)
	}
}

func TestCompute_NoFeeWithoutDelivery(t *testing.T) {
	e := testEngine()
	for _, tp := range []booking.Type{booking.TypeIncall, booking.TypeOnline, booking.TypePackage} {
		if fee := e.Compute(1000, tp, Context{StartTime: saturdayStart}).DeliveryFee; fee != 0 {
			t.Errorf("%s: expected no delivery fee, got %.2f", tp, fee)
		}
	}
}

func TestCompute_Invariants(t *testing.T) {
	e := testEngine()
	types := []booking.Type{booking.TypeIncall, booking.TypeOutcall, booking.TypeOnline, booking.TypePackage}

	for _, price := range []float64{0, 50, 199.99, 1000, 12345.67} {
		for _, tp := range types {
			for _, first := range []bool{false, true} {
				b := e.Compute(price, tp, Context{
					StartTime:      mondayStart,
					Now:            mondayStart.Add(-10 * 24 * time.Hour),
					IsFirstBooking: first,
					Location:       booking.LocationSalon,
					PromoCode:      "spa10",
				})
				if b.DiscountAmount > price*MaxDiscountRate+0.005 {
					t.Errorf("price %.2f %s: discount %.2f above cap", price, tp, b.DiscountAmount)
				}
				if b.TotalPrice < 0 {
					t.Errorf("price %.2f %s: negative total", price, tp)
				}
				if diff := b.ServicePrice + b.DeliveryFee - b.DiscountAmount - b.TotalPrice; diff > 0.01 || diff < -0.01 {
					t.Errorf("price %.2f %s: total does not match breakdown: %+v", price, tp, b)
				}
			}
		}
	}
}

func TestApplyPromo(t *testing.T) {
	e := testEngine()

	got := e.ApplyPromo(" spa10 ", 1000)
	if !got.Valid || got.Discount != 100 || got.FinalPrice != 900 || got.Code != "SPA10" {
		t.Fatalf("unexpected promo result: %+v", got)
	}

	got = e.ApplyPromo("NOPE", 1000)
	if got.Valid || got.Discount != 0 || got.FinalPrice != 1000 {
		t.Fatalf("unexpected result for unknown code: %+v", got)
	}
}

func TestPackagePrice(t *testing.T) {
	tests := []struct {
		prices []float64
		want   float64
	}{
		{[]float64{1000, 1000, 1000}, 2700},
		{[]float64{1000, 500}, 1425},
		{[]float64{800}, 800},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := PackagePrice(tt.prices).Total; got != tt.want {
			t.Errorf("%v: expected %.2f, got %.2f", tt.prices, tt.want, got)
		}
	}
}
