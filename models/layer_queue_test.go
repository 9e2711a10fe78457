package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLayerQueueConsumeFIFO(t *testing.T) {
	q := NewLayerQueue()
	q.Append(d("10"), d("1"))
	q.Append(d("5"), d("2"))

	cost := q.Consume(d("12"), decimal.Zero)
	if !cost.Equal(d("14")) {
		t.Fatalf("expected cost 14, got %s", cost)
	}

	layers := q.Layers()
	if len(layers) != 1 {
		t.Fatalf("expected 1 remaining layer, got %d", len(layers))
	}
	if !layers[0].Quantity.Equal(d("3")) || !layers[0].UnitCost.Equal(d("2")) {
		t.Fatalf("expected remaining layer (3,@2), got (%s,@%s)", layers[0].Quantity, layers[0].UnitCost)
	}
}

func TestLayerQueueExactDepletionEvictsLayer(t *testing.T) {
	q := NewLayerQueue()
	q.Append(d("10"), d("1.5"))

	cost := q.Consume(d("10"), decimal.Zero)
	if !cost.Equal(d("15")) {
		t.Fatalf("expected cost 15, got %s", cost)
	}
	if len(q.Layers()) != 0 {
		t.Fatalf("zero-quantity layer was not evicted: %+v", q.Layers())
	}
}

func TestLayerQueueShortfallUsesFallbackCost(t *testing.T) {
	q := NewLayerQueue()
	q.Append(d("100"), d("2"))

	cost := q.Consume(d("150"), d("3"))
	// 100 @ 2 from the layer, 50 @ 3 priced at the fallback
	if !cost.Equal(d("350")) {
		t.Fatalf("expected cost 350, got %s", cost)
	}
	if len(q.Layers()) != 0 {
		t.Fatalf("expected empty queue, got %+v", q.Layers())
	}
}

func TestLayerQueueConsumeFromEmptyQueue(t *testing.T) {
	q := NewLayerQueue()

	cost := q.Consume(d("25"), d("4"))
	if !cost.Equal(d("100")) {
		t.Fatalf("expected full shortfall at fallback cost 100, got %s", cost)
	}
	if cost = q.Consume(decimal.Zero, d("4")); !cost.IsZero() {
		t.Fatalf("consuming zero should cost zero, got %s", cost)
	}
}

func TestLayerQueueConsumeNonPositiveIsNoOp(t *testing.T) {
	q := NewLayerQueue()
	q.Append(d("10"), d("1"))

	if cost := q.Consume(d("-5"), d("9")); !cost.IsZero() {
		t.Fatalf("negative consume should be a no-op, got cost %s", cost)
	}
	quantity, value := q.Balance()
	if !quantity.Equal(d("10")) || !value.Equal(d("10")) {
		t.Fatalf("balance changed by no-op consume: qty=%s value=%s", quantity, value)
	}
}

func TestLayerQueueAppendSkipsNonPositive(t *testing.T) {
	q := NewLayerQueue()
	q.Append(decimal.Zero, d("5"))
	q.Append(d("-1"), d("5"))
	if len(q.Layers()) != 0 {
		t.Fatalf("non-positive layers should be skipped, got %+v", q.Layers())
	}
}

func TestLayerQueueBalance(t *testing.T) {
	q := NewLayerQueue()
	q.Append(d("10"), d("1.25"))
	q.Append(d("4"), d("2"))

	quantity, value := q.Balance()
	if !quantity.Equal(d("14")) {
		t.Fatalf("expected quantity 14, got %s", quantity)
	}
	if !value.Equal(d("20.5")) {
		t.Fatalf("expected value 20.5, got %s", value)
	}
}
