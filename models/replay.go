package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CostBreakdownRow is one material's share of a production day's cost.
type CostBreakdownRow struct {
	Material    MaterialKey     `json:"material"`
	Label       string          `json:"label"`
	QuantityKg  decimal.Decimal `json:"quantity_kg"`
	QuantityTon decimal.Decimal `json:"quantity_ton"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// DayCostResult is recompute mode's output for one production day.
type DayCostResult struct {
	EntryID           int
	Date              time.Time
	Breakdown         []CostBreakdownRow
	TotalMaterialCost decimal.Decimal
	TotalOutputKg     decimal.Decimal
	UnitCostPerKg     decimal.Decimal
}

// MaterialSnapshot is snapshot mode's per-material aggregate for the
// target date: balances entering the day, the day's deltas, and the
// closing position.
type MaterialSnapshot struct {
	OpeningKg        decimal.Decimal
	OpeningValue     decimal.Decimal
	PurchasesKg      decimal.Decimal
	PurchasesValue   decimal.Decimal
	ConsumptionKg    decimal.Decimal
	ConsumptionValue decimal.Decimal
	ClosingKg        decimal.Decimal
	ClosingValue     decimal.Decimal
}

// FinishedSnapshot mirrors MaterialSnapshot for finished goods, which
// move by production and sales instead of purchases and consumption.
type FinishedSnapshot struct {
	OpeningKg    decimal.Decimal
	OpeningValue decimal.Decimal
	ProductionKg decimal.Decimal
	SalesKg      decimal.Decimal
	ClosingKg    decimal.Decimal
	ClosingValue decimal.Decimal
}

// LedgerSnapshot is the balance position as of one target date.
type LedgerSnapshot struct {
	Date      time.Time
	Materials map[MaterialKey]*MaterialSnapshot
	Finished  FinishedSnapshot
}

// replayState carries the live queues between days. A fresh state is
// built per replay; nothing is shared across calls.
type replayState struct {
	queues           map[MaterialKey]*LayerQueue
	lastUnitCost     map[MaterialKey]decimal.Decimal
	finished         *LayerQueue
	finishedUnitCost decimal.Decimal
}

func newReplayState(baseline BaselineConfig) *replayState {
	queues, lastUnitCost := baseline.BuildOpeningQueues()
	finished, finishedUnitCost := baseline.BuildFinishedQueue()
	return &replayState{
		queues:           queues,
		lastUnitCost:     lastUnitCost,
		finished:         finished,
		finishedUnitCost: finishedUnitCost,
	}
}

func (s *replayState) applyReceipts(day *DayEvents) {
	for _, receipt := range day.Receipts {
		queue, ok := s.queues[receipt.Material]
		if !ok {
			continue
		}
		queue.Append(receipt.QuantityKg, receipt.UnitCostPerKg)
	}
}

// consumeMix walks the fixed material order, consuming each requested
// quantity FIFO and pricing shortfalls at the material's last known
// unit cost. After each consume the last-known cost is advanced to the
// new head layer so later fallbacks track the current batch.
func (s *replayState) consumeMix(mix *MixConsumption) ([]CostBreakdownRow, decimal.Decimal) {
	rows := make([]CostBreakdownRow, 0, len(MaterialOrder))
	totalCost := decimal.Zero

	for _, material := range MaterialOrder {
		quantityKg := mix.QuantitiesKg[material]
		if quantityKg.LessThanOrEqual(decimal.Zero) {
			continue
		}
		queue := s.queues[material]
		cost := queue.Consume(quantityKg, s.lastUnitCost[material])
		if head, ok := queue.HeadUnitCost(); ok {
			s.lastUnitCost[material] = head
		}
		unitPrice, _ := SafeUnitCost(cost, quantityKg)
		rows = append(rows, CostBreakdownRow{
			Material:    material,
			Label:       material.Label(),
			QuantityKg:  QuantizeKg(quantityKg),
			QuantityTon: KgToTons(quantityKg),
			UnitPrice:   unitPrice,
			TotalCost:   QuantizeCurrency(cost),
		})
		totalCost = QuantizeCurrency(totalCost.Add(cost))
	}
	return rows, totalCost
}

func (s *replayState) applyProduction(day *DayEvents, unitCostPerKg decimal.Decimal) {
	if day.ProductionKg.LessThanOrEqual(decimal.Zero) {
		return
	}
	s.finished.Append(day.ProductionKg, unitCostPerKg)
	s.finishedUnitCost = unitCostPerKg
}

func (s *replayState) applySales(day *DayEvents) {
	if day.SalesKg.LessThanOrEqual(decimal.Zero) {
		return
	}
	s.finished.Consume(day.SalesKg, s.finishedUnitCost)
	if head, ok := s.finished.HeadUnitCost(); ok {
		s.finishedUnitCost = head
	}
}

// applyDay runs one day's events in their fixed order and returns the
// day's cost result when it is a production day.
func (s *replayState) applyDay(day *DayEvents) *DayCostResult {
	s.applyReceipts(day)

	var result *DayCostResult
	productionUnitCost := s.finishedUnitCost
	if day.Mix != nil {
		rows, totalCost := s.consumeMix(day.Mix)
		unitCost, ok := SafeUnitCost(totalCost, day.Mix.OutputKg)
		if !ok {
			unitCost = decimal.Zero
		}
		result = &DayCostResult{
			EntryID:           day.Mix.EntryID,
			Date:              day.Date,
			Breakdown:         rows,
			TotalMaterialCost: totalCost,
			TotalOutputKg:     QuantizeKg(day.Mix.OutputKg),
			UnitCostPerKg:     unitCost,
		}
		productionUnitCost = unitCost
	}

	s.applyProduction(day, productionUnitCost)
	s.applySales(day)
	return result
}

// ReplayRecompute walks the whole timeline from the baseline and
// delivers every production day's refreshed costs to sink, in timeline
// order. The sink persists; a sink error aborts the replay so the
// caller's transaction rolls back with nothing half-written.
func ReplayRecompute(baseline BaselineConfig, tl *Timeline, sink func(DayCostResult) error) error {
	state := newReplayState(baseline)
	for _, day := range tl.Days {
		if result := state.applyDay(day); result != nil && sink != nil {
			if err := sink(*result); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReplaySnapshot replays up to the target date and returns the balance
// position for exactly that day. Days before the target are applied in
// full; the target day's balances are captured before its events apply,
// then the day's deltas accumulate separately. Days after the target
// terminate the loop — the assembler already excludes them, but the
// engine re-checks rather than trusting its input.
func ReplaySnapshot(baseline BaselineConfig, tl *Timeline, target time.Time) (*LedgerSnapshot, error) {
	if target.Before(baseline.Date) {
		return nil, fmt.Errorf("snapshot target %s precedes baseline %s",
			target.Format("2006-01-02"), baseline.Date.Format("2006-01-02"))
	}
	target = dateOnly(target)
	state := newReplayState(baseline)

	snapshot := &LedgerSnapshot{
		Date:      target,
		Materials: make(map[MaterialKey]*MaterialSnapshot, len(MaterialOrder)),
	}

	for _, day := range tl.Days {
		if day.Date.After(target) {
			break
		}
		if day.Date.Before(target) {
			state.applyDay(day)
			continue
		}

		// at-target: capture opening, then accumulate the day's deltas
		captureOpening(state, snapshot)
		accumulateTargetDay(state, day, snapshot)
		captureClosing(state, snapshot)
		return snapshot, nil
	}

	// No events on the target date itself: opening == closing.
	captureOpening(state, snapshot)
	captureClosing(state, snapshot)
	return snapshot, nil
}

func captureOpening(state *replayState, snapshot *LedgerSnapshot) {
	for _, material := range MaterialOrder {
		quantity, value := state.queues[material].Balance()
		snapshot.Materials[material] = &MaterialSnapshot{
			OpeningKg:    quantity,
			OpeningValue: value,
		}
	}
	quantity, value := state.finished.Balance()
	snapshot.Finished.OpeningKg = quantity
	snapshot.Finished.OpeningValue = value
}

func accumulateTargetDay(state *replayState, day *DayEvents, snapshot *LedgerSnapshot) {
	for _, receipt := range day.Receipts {
		ms, ok := snapshot.Materials[receipt.Material]
		if !ok {
			continue
		}
		ms.PurchasesKg = QuantizeKg(ms.PurchasesKg.Add(receipt.QuantityKg))
		ms.PurchasesValue = QuantizeCurrency(ms.PurchasesValue.Add(
			QuantizeCurrency(receipt.QuantityKg.Mul(receipt.UnitCostPerKg))))
	}
	state.applyReceipts(day)

	productionUnitCost := state.finishedUnitCost
	if day.Mix != nil {
		rows, totalCost := state.consumeMix(day.Mix)
		for _, row := range rows {
			ms := snapshot.Materials[row.Material]
			ms.ConsumptionKg = QuantizeKg(ms.ConsumptionKg.Add(row.QuantityKg))
			ms.ConsumptionValue = QuantizeCurrency(ms.ConsumptionValue.Add(row.TotalCost))
		}
		unitCost, ok := SafeUnitCost(totalCost, day.Mix.OutputKg)
		if !ok {
			unitCost = decimal.Zero
		}
		productionUnitCost = unitCost
	}

	snapshot.Finished.ProductionKg = QuantizeKg(snapshot.Finished.ProductionKg.Add(day.ProductionKg))
	snapshot.Finished.SalesKg = QuantizeKg(snapshot.Finished.SalesKg.Add(day.SalesKg))
	state.applyProduction(day, productionUnitCost)
	state.applySales(day)
}

func captureClosing(state *replayState, snapshot *LedgerSnapshot) {
	for _, material := range MaterialOrder {
		quantity, value := state.queues[material].Balance()
		ms := snapshot.Materials[material]
		ms.ClosingKg = quantity
		ms.ClosingValue = value
	}
	quantity, value := state.finished.Balance()
	snapshot.Finished.ClosingKg = quantity
	snapshot.Finished.ClosingValue = value
}
