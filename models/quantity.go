package models

import "github.com/shopspring/decimal"

// Quantization scales. Every intermediate arithmetic result is
// quantized immediately at its natural scale; rounding is never
// deferred to output time. decimal.Round is half-away-from-zero, which
// equals round-half-up on this ledger's non-negative domain.
const (
	tonScale      = 3
	kgScale       = 3
	currencyScale = 2
	unitCostScale = 4
	hoursScale    = 1
)

var TonToKg = decimal.NewFromInt(1000)

func QuantizeTon(d decimal.Decimal) decimal.Decimal {
	return d.Round(tonScale)
}

func QuantizeKg(d decimal.Decimal) decimal.Decimal {
	return d.Round(kgScale)
}

func QuantizeCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(currencyScale)
}

func QuantizeUnitCost(d decimal.Decimal) decimal.Decimal {
	return d.Round(unitCostScale)
}

func QuantizeHours(d decimal.Decimal) decimal.Decimal {
	return d.Round(hoursScale)
}

// TonsToKg converts a ton quantity to kilograms at kg scale.
func TonsToKg(tons decimal.Decimal) decimal.Decimal {
	return QuantizeKg(tons.Mul(TonToKg))
}

func KgToTons(kg decimal.Decimal) decimal.Decimal {
	return QuantizeTon(kg.Div(TonToKg))
}

// SafeUnitCost divides value by quantity at unit-cost scale.
// Division by zero quantity is not an error here; ok=false tells the
// caller the unit cost is undefined (reported as null / 0.0000).
func SafeUnitCost(value, quantity decimal.Decimal) (decimal.Decimal, bool) {
	if quantity.IsZero() {
		return decimal.Zero, false
	}
	return QuantizeUnitCost(value.Div(quantity)), true
}
