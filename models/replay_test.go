package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sawdustOnlyBaseline() BaselineConfig {
	return BaselineConfig{
		Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		RawOpening: map[MaterialKey]OpeningStock{
			MaterialSawdust: {QuantityKg: d("18195"), UnitCostPerKg: d("8.12")},
		},
	}
}

func TestReplayConsumesBaselineThenReceipt(t *testing.T) {
	baseline := sawdustOnlyBaseline()
	day1 := baseline.Date.AddDate(0, 0, 1)

	builder := NewTimelineBuilder(baseline.Date, time.Time{})
	builder.AddReceipt(ReceiptEvent{
		Material:      MaterialSawdust,
		Date:          day1,
		QuantityKg:    d("5000"),
		UnitCostPerKg: d("9.00"),
	})
	builder.AddMix(&MixConsumption{
		EntryID: 1,
		Date:    day1,
		QuantitiesKg: map[MaterialKey]decimal.Decimal{
			MaterialSawdust: d("20000"),
		},
		OutputKg: d("20000"),
	})
	tl := builder.Build()

	var results []DayCostResult
	err := ReplayRecompute(baseline, tl, func(result DayCostResult) error {
		results = append(results, result)
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 production day, got %d", len(results))
	}

	// 18195 kg from the baseline layer at 8.12, then 1805 kg from the
	// day's receipt at 9.00.
	wantCost := d("18195").Mul(d("8.12")).Add(d("1805").Mul(d("9.00")))
	if !results[0].TotalMaterialCost.Equal(wantCost) {
		t.Fatalf("total cost = %s, want %s", results[0].TotalMaterialCost, wantCost)
	}

	snapshot, err := ReplaySnapshot(baseline, tl, day1)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	ms := snapshot.Materials[MaterialSawdust]
	if !ms.OpeningKg.Equal(d("18195")) {
		t.Fatalf("opening = %s, want 18195", ms.OpeningKg)
	}
	if !ms.PurchasesKg.Equal(d("5000")) {
		t.Fatalf("purchases = %s, want 5000", ms.PurchasesKg)
	}
	if !ms.ConsumptionKg.Equal(d("20000")) {
		t.Fatalf("consumption = %s, want 20000", ms.ConsumptionKg)
	}
	if !ms.ClosingKg.Equal(d("3195")) {
		t.Fatalf("closing = %s, want remaining layer quantity 3195", ms.ClosingKg)
	}
	if !ms.ClosingValue.Equal(d("3195").Mul(d("9.00"))) {
		t.Fatalf("closing value = %s, want 3195 x 9.00", ms.ClosingValue)
	}
}

func TestReplayFullMixScenario(t *testing.T) {
	baseline := DefaultBaseline()
	baseline.Date = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	day0 := baseline.Date.AddDate(0, 0, 1)
	day1 := baseline.Date.AddDate(0, 0, 2)

	builder := NewTimelineBuilder(baseline.Date, time.Time{})
	builder.AddReceipt(ReceiptEvent{Material: MaterialWoodPowder, Date: day0, QuantityKg: d("500"), UnitCostPerKg: d("12.00")})
	builder.AddReceipt(ReceiptEvent{Material: MaterialPeanutHusk, Date: day0, QuantityKg: d("300"), UnitCostPerKg: d("7.00")})
	builder.AddMix(&MixConsumption{
		EntryID: 7,
		Date:    day1,
		QuantitiesKg: map[MaterialKey]decimal.Decimal{
			MaterialSawdust:     d("1250"),
			MaterialWoodShaving: d("2200"),
			MaterialWoodPowder:  d("200"),
			MaterialPeanutHusk:  d("100"),
			MaterialFireCut:     d("50"),
		},
		OutputKg: d("3000"),
	})
	builder.AddProduction(day1, d("3000"))
	tl := builder.Build()

	var result *DayCostResult
	err := ReplayRecompute(baseline, tl, func(r DayCostResult) error {
		result = &r
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result == nil {
		t.Fatal("no production day result")
	}
	if !result.TotalMaterialCost.Equal(d("35254.50")) {
		t.Fatalf("total cost = %s, want 35254.50", result.TotalMaterialCost)
	}
	if !result.UnitCostPerKg.Equal(d("11.7515")) {
		t.Fatalf("unit cost = %s, want 11.7515", result.UnitCostPerKg)
	}
	if len(result.Breakdown) != 5 {
		t.Fatalf("expected 5 breakdown rows, got %d", len(result.Breakdown))
	}
	if result.Breakdown[0].Material != MaterialSawdust || !result.Breakdown[0].TotalCost.Equal(d("10150.00")) {
		t.Fatalf("sawdust row = %+v, want 1250 x 8.12 = 10150.00", result.Breakdown[0])
	}
}

func TestReplayZeroOutputProducesZeroUnitCost(t *testing.T) {
	baseline := sawdustOnlyBaseline()
	day1 := baseline.Date.AddDate(0, 0, 1)

	builder := NewTimelineBuilder(baseline.Date, time.Time{})
	builder.AddMix(&MixConsumption{
		EntryID: 2,
		Date:    day1,
		QuantitiesKg: map[MaterialKey]decimal.Decimal{
			MaterialSawdust: d("100"),
		},
		OutputKg: decimal.Zero,
	})
	tl := builder.Build()

	err := ReplayRecompute(baseline, tl, func(result DayCostResult) error {
		if !result.UnitCostPerKg.IsZero() {
			t.Fatalf("zero output must yield zero unit cost, got %s", result.UnitCostPerKg)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
}

func TestReplayNoInputsWithOutputProducesZeroUnitCost(t *testing.T) {
	baseline := sawdustOnlyBaseline()
	day1 := baseline.Date.AddDate(0, 0, 1)

	builder := NewTimelineBuilder(baseline.Date, time.Time{})
	builder.AddMix(&MixConsumption{
		EntryID:      3,
		Date:         day1,
		QuantitiesKg: map[MaterialKey]decimal.Decimal{},
		OutputKg:     d("50000"),
	})
	tl := builder.Build()

	err := ReplayRecompute(baseline, tl, func(result DayCostResult) error {
		if !result.TotalMaterialCost.IsZero() {
			t.Fatalf("no inputs must cost zero, got %s", result.TotalMaterialCost)
		}
		if !result.UnitCostPerKg.IsZero() {
			t.Fatalf("unit cost = %s, want 0", result.UnitCostPerKg)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
}

func TestReplayIsIdempotent(t *testing.T) {
	baseline := sawdustOnlyBaseline()
	day1 := baseline.Date.AddDate(0, 0, 1)
	day2 := baseline.Date.AddDate(0, 0, 2)

	builder := NewTimelineBuilder(baseline.Date, time.Time{})
	builder.AddReceipt(ReceiptEvent{Material: MaterialSawdust, Date: day1, QuantityKg: d("1000"), UnitCostPerKg: d("9.50")})
	builder.AddMix(&MixConsumption{
		EntryID: 1, Date: day1,
		QuantitiesKg: map[MaterialKey]decimal.Decimal{MaterialSawdust: d("500")},
		OutputKg:     d("600"),
	})
	builder.AddMix(&MixConsumption{
		EntryID: 2, Date: day2,
		QuantitiesKg: map[MaterialKey]decimal.Decimal{MaterialSawdust: d("19000")},
		OutputKg:     d("21000"),
	})
	tl := builder.Build()

	run := func() []byte {
		var results []DayCostResult
		if err := ReplayRecompute(baseline, tl, func(result DayCostResult) error {
			results = append(results, result)
			return nil
		}); err != nil {
			t.Fatalf("replay: %v", err)
		}
		raw, err := json.Marshal(results)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return raw
	}

	first := run()
	second := run()
	if string(first) != string(second) {
		t.Fatalf("recompute is not idempotent:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestSnapshotClosingMatchesNextDayOpening(t *testing.T) {
	baseline := sawdustOnlyBaseline()
	day1 := baseline.Date.AddDate(0, 0, 1)
	day2 := baseline.Date.AddDate(0, 0, 2)

	builder := NewTimelineBuilder(baseline.Date, time.Time{})
	builder.AddReceipt(ReceiptEvent{Material: MaterialSawdust, Date: day1, QuantityKg: d("4000"), UnitCostPerKg: d("8.50")})
	builder.AddMix(&MixConsumption{
		EntryID: 1, Date: day1,
		QuantitiesKg: map[MaterialKey]decimal.Decimal{MaterialSawdust: d("6000")},
		OutputKg:     d("6500"),
	})
	tl := builder.Build()

	atDay1, err := ReplaySnapshot(baseline, tl, day1)
	if err != nil {
		t.Fatalf("snapshot day1: %v", err)
	}
	atDay2, err := ReplaySnapshot(baseline, tl, day2)
	if err != nil {
		t.Fatalf("snapshot day2: %v", err)
	}

	closing := atDay1.Materials[MaterialSawdust]
	opening := atDay2.Materials[MaterialSawdust]
	if !closing.ClosingKg.Equal(opening.OpeningKg) {
		t.Fatalf("day1 closing %s != day2 opening %s", closing.ClosingKg, opening.OpeningKg)
	}
	if !closing.ClosingValue.Equal(opening.OpeningValue) {
		t.Fatalf("day1 closing value %s != day2 opening value %s", closing.ClosingValue, opening.OpeningValue)
	}

	// Cross-check against a hand-replayed queue.
	q := NewLayerQueue()
	q.Append(d("18195"), d("8.12"))
	q.Append(d("4000"), d("8.50"))
	q.Consume(d("6000"), d("8.12"))
	wantQty, wantValue := q.Balance()
	if !closing.ClosingKg.Equal(wantQty) || !closing.ClosingValue.Equal(wantValue) {
		t.Fatalf("snapshot closing (%s, %s) disagrees with direct replay (%s, %s)",
			closing.ClosingKg, closing.ClosingValue, wantQty, wantValue)
	}
}

func TestSnapshotBeforeBaselineFails(t *testing.T) {
	baseline := sawdustOnlyBaseline()
	tl := NewTimelineBuilder(baseline.Date, time.Time{}).Build()

	if _, err := ReplaySnapshot(baseline, tl, baseline.Date.AddDate(0, 0, -1)); err == nil {
		t.Fatal("expected error for target before baseline")
	}
}
