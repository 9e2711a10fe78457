package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDeriveMixQuantities(t *testing.T) {
	quantities, err := DeriveMixQuantities(MixDerivationInput{
		DryFactor:     d("0.4"),
		WoodPowderTon: d("0.2"),
		PeanutHuskTon: d("0.1"),
		FireCutTon:    d("0.05"),
		DryerTon:      d("0.5"),
		BriquetteTon:  d("3.0"),
	})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !quantities[MaterialSawdust].Equal(d("1.25")) {
		t.Fatalf("sawdust = %s, want 0.5 / 0.4 = 1.25", quantities[MaterialSawdust])
	}
	if !quantities[MaterialWoodShaving].Equal(d("2.2")) {
		t.Fatalf("wood shaving = %s, want 3.0 - 0.5 - 0.2 - 0.1 = 2.2", quantities[MaterialWoodShaving])
	}
	if !quantities[MaterialWoodPowder].Equal(d("0.2")) {
		t.Fatalf("wood powder = %s, want 0.2", quantities[MaterialWoodPowder])
	}
	if !quantities[MaterialFireCut].Equal(d("0.05")) {
		t.Fatalf("fire cut = %s, want 0.05", quantities[MaterialFireCut])
	}
}

func TestDeriveMixQuantitiesSawdustRounding(t *testing.T) {
	quantities, err := DeriveMixQuantities(MixDerivationInput{
		DryFactor:    d("0.6"),
		DryerTon:     d("10"),
		BriquetteTon: d("30"),
	})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !quantities[MaterialSawdust].Equal(d("16.667")) {
		t.Fatalf("sawdust = %s, want 10 / 0.6 rounded to 16.667", quantities[MaterialSawdust])
	}
}

func TestDeriveMixQuantitiesZeroDryFactor(t *testing.T) {
	quantities, err := DeriveMixQuantities(MixDerivationInput{
		DryFactor:    decimal.Zero,
		DryerTon:     d("2"),
		BriquetteTon: d("5"),
	})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !quantities[MaterialSawdust].IsZero() {
		t.Fatalf("zero dry factor must yield zero sawdust, got %s", quantities[MaterialSawdust])
	}
}

func TestDeriveMixQuantitiesNegativeWoodShaving(t *testing.T) {
	_, err := DeriveMixQuantities(MixDerivationInput{
		DryFactor:     d("0.5"),
		WoodPowderTon: d("1"),
		PeanutHuskTon: d("1"),
		DryerTon:      d("2"),
		BriquetteTon:  d("3"),
	})
	var cerr *ConsistencyError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
	want := "Invalid mix: Wood shaving quantity cannot be negative. Please check inputs."
	if cerr.Error() != want {
		t.Fatalf("message = %q, want %q", cerr.Error(), want)
	}
}

func stockSnapshot(stocks map[MaterialKey][2]string) *LedgerSnapshot {
	snapshot := &LedgerSnapshot{Materials: make(map[MaterialKey]*MaterialSnapshot)}
	for material, s := range stocks {
		snapshot.Materials[material] = &MaterialSnapshot{
			OpeningKg:   d(s[0]),
			PurchasesKg: d(s[1]),
		}
	}
	return snapshot
}

func TestValidateStockAvailability(t *testing.T) {
	snapshot := stockSnapshot(map[MaterialKey][2]string{
		MaterialSawdust:     {"1000", "0"},
		MaterialWoodShaving: {"500", "250"},
		MaterialWoodPowder:  {"0", "100"},
	})

	err := ValidateStockAvailability(snapshot, map[MaterialKey]decimal.Decimal{
		MaterialSawdust:     d("1000"),
		MaterialWoodShaving: d("750"),
		MaterialWoodPowder:  d("100"),
	})
	if err != nil {
		t.Fatalf("consuming exactly the available stock must pass, got %v", err)
	}
}

func TestValidateStockAvailabilityRejectsOverdraft(t *testing.T) {
	snapshot := stockSnapshot(map[MaterialKey][2]string{
		MaterialSawdust:    {"1000", "0"},
		MaterialWoodPowder: {"50", "25"},
	})

	err := ValidateStockAvailability(snapshot, map[MaterialKey]decimal.Decimal{
		MaterialSawdust:    d("500"),
		MaterialWoodPowder: d("75.001"),
	})
	var serr *InsufficientStockError
	if !errors.As(err, &serr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if serr.Material != MaterialWoodPowder {
		t.Fatalf("rejected material = %s, want wood_powder", serr.Material)
	}
	if !serr.AvailableKg.Equal(d("75")) {
		t.Fatalf("available = %s, want opening + purchases = 75", serr.AvailableKg)
	}
	want := "Insufficient stock for Wood Powder. Entry not saved. System does not allow negative stock."
	if serr.Error() != want {
		t.Fatalf("message = %q, want %q", serr.Error(), want)
	}
}

func TestValidateStockAvailabilityUnknownMaterial(t *testing.T) {
	snapshot := stockSnapshot(map[MaterialKey][2]string{
		MaterialSawdust: {"1000", "0"},
	})

	err := ValidateStockAvailability(snapshot, map[MaterialKey]decimal.Decimal{
		MaterialFireCut: d("10"),
	})
	var serr *InsufficientStockError
	if !errors.As(err, &serr) {
		t.Fatalf("expected InsufficientStockError for untracked material, got %v", err)
	}
	if !serr.AvailableKg.IsZero() {
		t.Fatalf("available = %s, want 0", serr.AvailableKg)
	}
}

func TestValidateStockAvailabilitySkipsZeroRequests(t *testing.T) {
	snapshot := stockSnapshot(map[MaterialKey][2]string{})

	err := ValidateStockAvailability(snapshot, map[MaterialKey]decimal.Decimal{
		MaterialSawdust: decimal.Zero,
		MaterialFireCut: d("-3"),
	})
	if err != nil {
		t.Fatalf("zero and negative requests must be ignored, got %v", err)
	}
}
