package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpeningStock is one material's baseline position: quantity in kg and
// unit cost per kg.
type OpeningStock struct {
	QuantityKg    decimal.Decimal
	UnitCostPerKg decimal.Decimal
}

// BaselineConfig is the fixed inventory snapshot every replay starts
// from. It is passed explicitly into the opening-balance builder and
// never mutated, so tests can replay against alternate baselines.
type BaselineConfig struct {
	Date time.Time

	// Raw materials, in kilograms.
	RawOpening map[MaterialKey]OpeningStock

	// Finished goods (briquettes), in kilograms.
	FinishedOpeningKg     decimal.Decimal
	FinishedUnitCostPerKg decimal.Decimal
}

// DefaultBaseline is the production cut-over snapshot taken when the
// ledger went live.
func DefaultBaseline() BaselineConfig {
	return BaselineConfig{
		Date: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		RawOpening: map[MaterialKey]OpeningStock{
			MaterialSawdust: {
				QuantityKg:    decimal.NewFromInt(18195),
				UnitCostPerKg: decimal.RequireFromString("8.12"),
			},
			MaterialWoodShaving: {
				QuantityKg:    decimal.NewFromInt(340298),
				UnitCostPerKg: decimal.RequireFromString("9.80"),
			},
			MaterialWoodPowder: {
				QuantityKg:    decimal.Zero,
				UnitCostPerKg: decimal.Zero,
			},
			MaterialPeanutHusk: {
				QuantityKg:    decimal.Zero,
				UnitCostPerKg: decimal.Zero,
			},
			MaterialFireCut: {
				QuantityKg:    decimal.NewFromInt(2000),
				UnitCostPerKg: decimal.RequireFromString("8.89"),
			},
		},
		FinishedOpeningKg:     decimal.Zero,
		FinishedUnitCostPerKg: decimal.Zero,
	}
}

// BuildOpeningQueues materializes the baseline into fresh layer queues
// plus the last-known unit cost map the replay threads through
// consumption fallback. Pure: every call returns new queues, so callers
// can mutate them freely during replay.
func (b BaselineConfig) BuildOpeningQueues() (map[MaterialKey]*LayerQueue, map[MaterialKey]decimal.Decimal) {
	queues := make(map[MaterialKey]*LayerQueue, len(MaterialOrder))
	lastUnitCost := make(map[MaterialKey]decimal.Decimal, len(MaterialOrder))

	for _, material := range MaterialOrder {
		queue := NewLayerQueue()
		opening := b.RawOpening[material]
		queue.Append(opening.QuantityKg, opening.UnitCostPerKg)
		queues[material] = queue
		lastUnitCost[material] = QuantizeUnitCost(opening.UnitCostPerKg)
	}
	return queues, lastUnitCost
}

// BuildFinishedQueue materializes the finished-goods baseline.
func (b BaselineConfig) BuildFinishedQueue() (*LayerQueue, decimal.Decimal) {
	queue := NewLayerQueue()
	queue.Append(b.FinishedOpeningKg, b.FinishedUnitCostPerKg)
	return queue, QuantizeUnitCost(b.FinishedUnitCostPerKg)
}

// OpeningTotals sums the raw baseline into (quantity kg, value) for the
// stock-status report's synthetic opening_total row.
func (b BaselineConfig) OpeningTotals() (decimal.Decimal, decimal.Decimal) {
	quantity := decimal.Zero
	value := decimal.Zero
	for _, material := range MaterialOrder {
		opening := b.RawOpening[material]
		if opening.QuantityKg.LessThanOrEqual(decimal.Zero) {
			continue
		}
		quantity = QuantizeKg(quantity.Add(opening.QuantityKg))
		value = QuantizeCurrency(value.Add(QuantizeCurrency(opening.QuantityKg.Mul(opening.UnitCostPerKg))))
	}
	return quantity, value
}
