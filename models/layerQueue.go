package models

import "github.com/shopspring/decimal"

// InventoryLayer is one batch of stock carried at a fixed unit cost.
// Created by a receipt (or the baseline), reduced by consumption,
// evicted from its queue the moment its quantity reaches zero.
type InventoryLayer struct {
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// LayerQueue holds the FIFO cost layers for one material. Insertion
// order is receipt chronological order; the oldest layer is always
// consumed first.
type LayerQueue struct {
	layers []InventoryLayer
}

func NewLayerQueue() *LayerQueue {
	return &LayerQueue{}
}

// Append adds a receipt layer at the tail. Zero/negative quantities are
// skipped; they carry no stock and would only pollute head eviction.
func (q *LayerQueue) Append(quantity, unitCost decimal.Decimal) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return
	}
	q.layers = append(q.layers, InventoryLayer{
		Quantity: QuantizeKg(quantity),
		UnitCost: QuantizeUnitCost(unitCost),
	})
}

// Consume takes quantity oldest-first and returns the accumulated cost.
// If the layers run out before the request is satisfied, the shortfall
// is priced at fallbackUnitCost (the material's last known unit cost).
// The queue never blocks on missing history; the mix-entry validator is
// the gatekeeper against negative stock, not this method.
func (q *LayerQueue) Consume(quantity, fallbackUnitCost decimal.Decimal) decimal.Decimal {
	cost := decimal.Zero
	if quantity.LessThanOrEqual(decimal.Zero) {
		return cost
	}
	remaining := QuantizeKg(quantity)

	for remaining.GreaterThan(decimal.Zero) && len(q.layers) > 0 {
		head := &q.layers[0]
		take := decimal.Min(remaining, head.Quantity)
		cost = QuantizeCurrency(cost.Add(QuantizeCurrency(take.Mul(head.UnitCost))))
		head.Quantity = QuantizeKg(head.Quantity.Sub(take))
		remaining = QuantizeKg(remaining.Sub(take))
		if head.Quantity.LessThanOrEqual(decimal.Zero) {
			q.layers = q.layers[1:]
		}
	}

	if remaining.GreaterThan(decimal.Zero) {
		cost = QuantizeCurrency(cost.Add(QuantizeCurrency(remaining.Mul(fallbackUnitCost))))
	}
	return cost
}

// Balance sums the remaining layers into (quantity, value).
func (q *LayerQueue) Balance() (decimal.Decimal, decimal.Decimal) {
	quantity := decimal.Zero
	value := decimal.Zero
	for _, layer := range q.layers {
		quantity = QuantizeKg(quantity.Add(layer.Quantity))
		value = QuantizeCurrency(value.Add(QuantizeCurrency(layer.Quantity.Mul(layer.UnitCost))))
	}
	return quantity, value
}

// HeadUnitCost returns the oldest layer's unit cost, ok=false when the
// queue is empty.
func (q *LayerQueue) HeadUnitCost() (decimal.Decimal, bool) {
	if len(q.layers) == 0 {
		return decimal.Zero, false
	}
	return q.layers[0].UnitCost, true
}

// Layers exposes a copy of the current layers for tests and reports.
func (q *LayerQueue) Layers() []InventoryLayer {
	out := make([]InventoryLayer, len(q.layers))
	copy(out, q.layers)
	return out
}
