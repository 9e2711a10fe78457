package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptEvent is one raw-material receipt line resolved to a ledger
// day, quantity in kg and unit cost per kg.
type ReceiptEvent struct {
	Material      MaterialKey
	Date          time.Time
	QuantityKg    decimal.Decimal
	UnitCostPerKg decimal.Decimal
}

// MixConsumption is one production day's raw-material out, already
// derived and quantized. EntryID links back to the stored mix entry so
// recompute mode knows which record to refresh.
type MixConsumption struct {
	EntryID      int
	Date         time.Time
	QuantitiesKg map[MaterialKey]decimal.Decimal
	OutputKg     decimal.Decimal
}

// DayEvents groups everything dated one ledger day, in the order events
// apply within a day: receipts, then consumption, then production, then
// sales.
type DayEvents struct {
	Date         time.Time
	Receipts     []ReceiptEvent
	Mix          *MixConsumption
	ProductionKg decimal.Decimal
	SalesKg      decimal.Decimal
}

// Timeline is the sorted day sequence a replay walks.
type Timeline struct {
	Days []*DayEvents
}

// timelineBuilder accumulates events into day buckets before sorting.
type timelineBuilder struct {
	baseline time.Time
	through  time.Time // zero = unbounded
	days     map[time.Time]*DayEvents
}

// NewTimelineBuilder bounds the timeline to (baseline, through]. A zero
// `through` means end of history (recompute mode). Events on or before
// the baseline, or after the upper bound, are clamped out.
func NewTimelineBuilder(baseline, through time.Time) *timelineBuilder {
	return &timelineBuilder{
		baseline: baseline,
		through:  through,
		days:     make(map[time.Time]*DayEvents),
	}
}

func (b *timelineBuilder) inRange(date time.Time) bool {
	if !date.After(b.baseline) {
		return false
	}
	if !b.through.IsZero() && date.After(b.through) {
		return false
	}
	return true
}

func (b *timelineBuilder) day(date time.Time) *DayEvents {
	if d, ok := b.days[date]; ok {
		return d
	}
	d := &DayEvents{Date: date}
	b.days[date] = d
	return d
}

// AddReceipt appends a receipt in call order; callers must feed receipt
// lines sorted by their source creation order.
func (b *timelineBuilder) AddReceipt(ev ReceiptEvent) {
	if ev.QuantityKg.LessThanOrEqual(decimal.Zero) {
		return
	}
	if !b.inRange(ev.Date) {
		return
	}
	b.day(ev.Date).Receipts = append(b.day(ev.Date).Receipts, ev)
}

func (b *timelineBuilder) AddMix(mix *MixConsumption) {
	if mix == nil || !b.inRange(mix.Date) {
		return
	}
	b.day(mix.Date).Mix = mix
}

func (b *timelineBuilder) AddProduction(date time.Time, quantityKg decimal.Decimal) {
	if quantityKg.LessThanOrEqual(decimal.Zero) || !b.inRange(date) {
		return
	}
	d := b.day(date)
	d.ProductionKg = QuantizeKg(d.ProductionKg.Add(quantityKg))
}

func (b *timelineBuilder) AddSale(date time.Time, quantityKg decimal.Decimal) {
	if quantityKg.LessThanOrEqual(decimal.Zero) || !b.inRange(date) {
		return
	}
	d := b.day(date)
	d.SalesKg = QuantizeKg(d.SalesKg.Add(quantityKg))
}

func (b *timelineBuilder) Build() *Timeline {
	days := make([]*DayEvents, 0, len(b.days))
	for _, d := range b.days {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return &Timeline{Days: days}
}

// ResolveReceiptDate picks the ledger day for a receipt line. Source
// records carry heterogeneous timestamps, so resolution follows a fixed
// fallback order: header date, then line created-at, then header
// created-at, then today.
func ResolveReceiptDate(headerDate *time.Time, lineCreatedAt, headerCreatedAt time.Time, now time.Time) time.Time {
	if headerDate != nil && !headerDate.IsZero() {
		return dateOnly(*headerDate)
	}
	if !lineCreatedAt.IsZero() {
		return dateOnly(lineCreatedAt)
	}
	if !headerCreatedAt.IsZero() {
		return dateOnly(headerCreatedAt)
	}
	return dateOnly(now)
}

// ResolveReceiptUnitCost converts a per-ton price to per-kg, preferring
// the approved price and flooring negatives at zero.
func ResolveReceiptUnitCost(unitPricePerTon decimal.Decimal, approvedUnitPricePerTon *decimal.Decimal) decimal.Decimal {
	price := unitPricePerTon
	if approvedUnitPricePerTon != nil && approvedUnitPricePerTon.GreaterThan(decimal.Zero) {
		price = *approvedUnitPricePerTon
	}
	if price.LessThan(decimal.Zero) {
		price = decimal.Zero
	}
	return QuantizeUnitCost(price.Div(TonToKg))
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
