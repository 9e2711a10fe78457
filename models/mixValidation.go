package models

import (
	"github.com/shopspring/decimal"
)

// MixDerivationInput carries the supplied and measured quantities a
// day's mix is derived from. Supplied quantities come from the payload;
// dryer and briquette output come from that day's production entries.
type MixDerivationInput struct {
	DryFactor     decimal.Decimal
	WoodPowderTon decimal.Decimal
	PeanutHuskTon decimal.Decimal
	FireCutTon    decimal.Decimal
	DryerTon      decimal.Decimal
	BriquetteTon  decimal.Decimal
}

// DeriveMixQuantities computes the full per-material consumption, in
// tons, for one production day:
//   - sawdust is dryer output divided by the dry factor (zero factor
//     means no sawdust went through the dryer);
//   - wood shaving is the balancing material: total briquette output
//     minus dryer output minus the directly-supplied powder and husk.
//     Fire cut is a binder outside that mass balance.
//
// A negative wood-shaving balance means the reported dryer output
// exceeds the finished output, which is a data problem, not a stock
// problem; the mix is rejected outright.
func DeriveMixQuantities(in MixDerivationInput) (map[MaterialKey]decimal.Decimal, error) {
	sawdust := decimal.Zero
	if in.DryFactor.GreaterThan(decimal.Zero) {
		sawdust = QuantizeTon(in.DryerTon.Div(in.DryFactor))
	}

	woodShaving := QuantizeTon(in.BriquetteTon.
		Sub(in.DryerTon).
		Sub(in.WoodPowderTon).
		Sub(in.PeanutHuskTon))
	if woodShaving.LessThan(decimal.Zero) {
		return nil, &ConsistencyError{
			Message: "Invalid mix: Wood shaving quantity cannot be negative. Please check inputs.",
		}
	}

	return map[MaterialKey]decimal.Decimal{
		MaterialSawdust:     sawdust,
		MaterialWoodShaving: woodShaving,
		MaterialWoodPowder:  QuantizeTon(in.WoodPowderTon),
		MaterialPeanutHusk:  QuantizeTon(in.PeanutHuskTon),
		MaterialFireCut:     QuantizeTon(in.FireCutTon),
	}, nil
}

// ValidateStockAvailability is the negative-stock guard: given the
// snapshot for the proposal's date (opening balances plus that day's
// receipts) and the proposed consumption in kg, it rejects the first
// material in ledger order that would go below zero. The snapshot must
// be built WITHOUT the entry being replaced, or an edit would count its
// own old consumption against itself.
func ValidateStockAvailability(snapshot *LedgerSnapshot, proposedKg map[MaterialKey]decimal.Decimal) error {
	for _, material := range MaterialOrder {
		requested := proposedKg[material]
		if requested.LessThanOrEqual(decimal.Zero) {
			continue
		}
		ms, ok := snapshot.Materials[material]
		if !ok {
			return &InsufficientStockError{
				Material:    material,
				RequestedKg: requested,
				AvailableKg: decimal.Zero,
			}
		}
		available := QuantizeKg(ms.OpeningKg.Add(ms.PurchasesKg))
		if requested.GreaterThan(available) {
			return &InsufficientStockError{
				Material:    material,
				RequestedKg: requested,
				AvailableKg: available,
			}
		}
	}
	return nil
}
