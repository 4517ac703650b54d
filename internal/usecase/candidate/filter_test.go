package candidate

import (
	"context"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/kailas-cloud/propmatch/internal/domain/profile"
	"github.com/kailas-cloud/propmatch/internal/domain/property"
)

var fixedNow = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func newFilter() *Filter {
	return New(0, func() time.Time { return fixedNow })
}

func prop(id, zone, typ string, amount float64, currency, observed string) *property.Property {
	p := &property.Property{
		ID:         id,
		Type:       typ,
		Location:   property.Location{Zone: zone},
		ObservedAt: observed,
	}
	if amount > 0 {
		p.Price = &property.Price{Amount: amount, Currency: currency}
	}
	p.Normalize(property.DefaultDateLayout)
	return p
}

func ids(ps []*property.Property) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func catalog() []*property.Property {
	return []*property.Property{
		prop("a", "Equipetrol Norte", "departamento", 100000, "USD", "2026-10-10"),
		prop("b", "Equipetrol", "casa", 250000, "USD", "2026-10-01"),
		prop("c", "Urbari", "departamento", 90000, "USD", "2026-09-30"),
		prop("d", "Las Palmas", "casa", 120000, "BOB", "2025-01-01"),
		prop("e", "Equipetról", "terreno", 0, "", "not a date"),
	}
}

func TestApply_NarrowsInOrder(t *testing.T) {
	pr := &profile.Profile{
		Budget:    profile.Budget{Min: 80000, Max: 150000, Currency: "USD"},
		Preferred: profile.Preferred{Zone: "equipetrol"},
	}
	res := newFilter().Apply(context.Background(), pr, catalog())

	if got := ids(res.Candidates); !slices.Equal(got, []string{"a"}) {
		t.Errorf("candidates: got %v, want [a]", got)
	}
	wantApplied := []string{CriterionZone, CriterionPrice, CriterionCurrency, CriterionRecency}
	if !slices.Equal(res.Applied, wantApplied) {
		t.Errorf("applied: got %v, want %v", res.Applied, wantApplied)
	}
	if len(res.Relaxed) != 0 {
		t.Errorf("nothing should be relaxed, got %v", res.Relaxed)
	}
}

func TestApply_ZoneBidirectional(t *testing.T) {
	pr := &profile.Profile{Preferred: profile.Preferred{Zone: "Equipetrol Norte Sector 2"}}
	res := newFilter().Apply(context.Background(), pr, catalog())
	// "Equipetrol" and "Equipetról" are contained by the preferred zone.
	for _, id := range []string{"b", "e"} {
		if !slices.Contains(ids(res.Candidates), id) {
			t.Errorf("expected %s in %v", id, ids(res.Candidates))
		}
	}
}

func TestApply_SkipsEmptyingCriterion(t *testing.T) {
	pr := &profile.Profile{
		Budget:    profile.Budget{Min: 1, Max: 10},
		Preferred: profile.Preferred{Zone: "Urbari"},
	}
	res := newFilter().Apply(context.Background(), pr, catalog())

	if got := ids(res.Candidates); !slices.Equal(got, []string{"c"}) {
		t.Errorf("candidates: got %v, want [c]", got)
	}
	if !slices.Contains(res.Relaxed, CriterionPrice) {
		t.Errorf("price should be relaxed, got %v", res.Relaxed)
	}
}

func TestApply_TypeUsesSynonyms(t *testing.T) {
	pr := &profile.Profile{Preferred: profile.Preferred{Type: "apartment"}}
	res := newFilter().Apply(context.Background(), pr, catalog())
	if got := ids(res.Candidates); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("got %v, want [a c]", got)
	}
}

func TestApply_CurrencyAfterPrice(t *testing.T) {
	pr := &profile.Profile{Budget: profile.Budget{Min: 110000, Max: 130000, Currency: "USD"}}
	res := newFilter().Apply(context.Background(), pr, catalog())

	// Only "d" is in range, and it is priced in BOB: currency is sacrificed.
	if got := ids(res.Candidates); !slices.Equal(got, []string{"d"}) {
		t.Errorf("got %v, want [d]", got)
	}
	if !slices.Equal(res.Relaxed, []string{CriterionCurrency, CriterionRecency}) {
		t.Errorf("relaxed: got %v", res.Relaxed)
	}
}

func TestApply_RecencyKeepsUnparsableDates(t *testing.T) {
	res := newFilter().Apply(context.Background(), &profile.Profile{}, catalog())
	got := ids(res.Candidates)
	if slices.Contains(got, "d") {
		t.Errorf("stale listing d should be dropped: %v", got)
	}
	if !slices.Contains(got, "e") {
		t.Errorf("undated listing e should be kept: %v", got)
	}
}

func TestApply_ProfileRecencyWindow(t *testing.T) {
	pr := &profile.Profile{RecencyWindowDays: 10}
	res := newFilter().Apply(context.Background(), pr, catalog())
	if got := ids(res.Candidates); !slices.Equal(got, []string{"a", "e"}) {
		t.Errorf("got %v, want [a e]", got)
	}
}

func TestApply_EmptyInput(t *testing.T) {
	res := newFilter().Apply(context.Background(), &profile.Profile{Preferred: profile.Preferred{Zone: "x"}}, nil)
	if len(res.Candidates) != 0 || len(res.Relaxed) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := catalog()
	before := ids(in)
	newFilter().Apply(context.Background(), &profile.Profile{Preferred: profile.Preferred{Zone: "Urbari"}}, in)
	if !slices.Equal(ids(in), before) {
		t.Errorf("input reordered: %v", ids(in))
	}
}

func TestApply_NeverEmptiesNonEmptyInput(t *testing.T) {
	zones := []string{"Equipetrol", "Urbari", "Norte", "Sur", ""}
	types := []string{"casa", "departamento", "oficina", ""}
	currencies := []string{"USD", "BOB", ""}
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 300; i++ {
		n := 1 + rng.Intn(8)
		props := make([]*property.Property, n)
		for j := range props {
			props[j] = prop("p", zones[rng.Intn(len(zones))], types[rng.Intn(len(types))],
				float64(rng.Intn(300000)), currencies[rng.Intn(len(currencies))],
				fixedNow.AddDate(0, 0, -rng.Intn(400)).Format(property.DefaultDateLayout))
		}
		lo := float64(rng.Intn(200000))
		pr := &profile.Profile{
			Budget: profile.Budget{Min: lo, Max: lo + float64(rng.Intn(100000)),
				Currency: currencies[rng.Intn(len(currencies))]},
			Preferred:         profile.Preferred{Zone: zones[rng.Intn(len(zones))], Type: types[rng.Intn(len(types))]},
			RecencyWindowDays: rng.Intn(120),
		}
		if res := newFilter().Apply(context.Background(), pr, props); len(res.Candidates) == 0 {
			t.Fatalf("filter emptied %d candidates for profile %+v", n, pr)
		}
	}
}
