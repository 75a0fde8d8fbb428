package booking

import (
	"context"
	"testing"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/pricing"
	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
)

func TestQuote_Promo(t *testing.T) {
	e := newEnv()
	cfg := pricing.DefaultConfig()
	cfg.PromoCodes["SPA10"] = 0.10
	q := NewQuote(e.catalog, e.repo, pricing.NewEngine(cfg), e.clock)

	res, err := q.Promo(context.Background(), "spa10", serviceID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Valid || res.Discount != 100 || res.FinalPrice != 900 {
		t.Fatalf("unexpected promo result %+v", res)
	}

	res, err = q.Promo(context.Background(), "NOPE", serviceID)
	if err != nil || res.Valid || res.FinalPrice != 1000 {
		t.Fatalf("unknown code: %+v, %v", res, err)
	}

	if _, err := q.Promo(context.Background(), "SPA10", 999); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuote_Package(t *testing.T) {
	e := newEnv()
	e.catalog[2] = &domain.Service{ID: 2, ProviderID: providerID, Name: "Hot stones", Price: 1500, DurationMinutes: 90, Active: true}
	e.catalog[3] = &domain.Service{ID: 3, ProviderID: providerID, Name: "Aroma", Price: 500, DurationMinutes: 30, Active: true}
	e.catalog[4] = &domain.Service{ID: 4, ProviderID: providerID + 1, Name: "Elsewhere", Price: 500, DurationMinutes: 30, Active: true}

	got, err := e.quote.Package(context.Background(), []uint{serviceID, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Subtotal != 3000 || got.Discount != 300 || got.Total != 2700 {
		t.Fatalf("unexpected package %+v", got)
	}

	if _, err := e.quote.Package(context.Background(), nil); !httperr.IsBusiness(err, "services_required") {
		t.Fatalf("expected services_required, got %v", err)
	}
	if _, err := e.quote.Package(context.Background(), []uint{serviceID, 4}); !httperr.IsBusiness(err, "service_provider_mismatch") {
		t.Fatalf("expected service_provider_mismatch, got %v", err)
	}
}
