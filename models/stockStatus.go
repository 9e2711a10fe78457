package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockStatusMetrics carries a row's day-level movement, all in kg.
type StockStatusMetrics struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Purchases      decimal.Decimal `json:"purchases"`
	Production     decimal.Decimal `json:"production"`
	Sales          decimal.Decimal `json:"sales"`
	Consumption    decimal.Decimal `json:"consumption"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	TotalAvailable decimal.Decimal `json:"totalAvailable"`
}

// StockStatusRow is one line of the stock-status report. UnitCost is
// the weighted average over remaining layers, null when quantity is
// zero.
type StockStatusRow struct {
	Key      string             `json:"key"`
	Label    string             `json:"label"`
	Quantity decimal.Decimal    `json:"quantity"`
	UnitCost *decimal.Decimal   `json:"unitCost"`
	Value    decimal.Decimal    `json:"value"`
	Metrics  StockStatusMetrics `json:"metrics"`
}

type StockStatusReport struct {
	AsOf time.Time        `json:"asOf"`
	Rows []StockStatusRow `json:"rows"`
}

// BuildStockStatusReport formats a snapshot into the report shape the
// frontend renders: one row per raw material, a synthetic opening_total
// row summing the baseline, and a briquettes row for finished goods
// with purchases/consumption forced to zero (finished goods are not
// purchased or consumed directly).
func BuildStockStatusReport(baseline BaselineConfig, snapshot *LedgerSnapshot) *StockStatusReport {
	report := &StockStatusReport{AsOf: snapshot.Date}

	openingQty, openingValue := baseline.OpeningTotals()
	openingUnitCost := unitCostOrNil(openingValue, openingQty)
	report.Rows = append(report.Rows, StockStatusRow{
		Key:      "opening_total",
		Label:    "Opening Total",
		Quantity: openingQty,
		UnitCost: openingUnitCost,
		Value:    openingValue,
		Metrics: StockStatusMetrics{
			OpeningBalance: openingQty,
			ClosingBalance: openingQty,
			TotalAvailable: openingQty,
		},
	})

	for _, material := range MaterialOrder {
		ms := snapshot.Materials[material]
		if ms == nil {
			ms = &MaterialSnapshot{}
		}
		totalAvailable := QuantizeKg(ms.OpeningKg.Add(ms.PurchasesKg))
		report.Rows = append(report.Rows, StockStatusRow{
			Key:      string(material),
			Label:    material.Label(),
			Quantity: ms.ClosingKg,
			UnitCost: unitCostOrNil(ms.ClosingValue, ms.ClosingKg),
			Value:    ms.ClosingValue,
			Metrics: StockStatusMetrics{
				OpeningBalance: ms.OpeningKg,
				Purchases:      ms.PurchasesKg,
				Consumption:    ms.ConsumptionKg,
				ClosingBalance: ms.ClosingKg,
				TotalAvailable: totalAvailable,
			},
		})
	}

	fin := snapshot.Finished
	finAvailable := QuantizeKg(fin.OpeningKg.Add(fin.ProductionKg))
	report.Rows = append(report.Rows, StockStatusRow{
		Key:      "briquettes",
		Label:    "Briquettes",
		Quantity: fin.ClosingKg,
		UnitCost: unitCostOrNil(fin.ClosingValue, fin.ClosingKg),
		Value:    fin.ClosingValue,
		Metrics: StockStatusMetrics{
			OpeningBalance: fin.OpeningKg,
			Production:     fin.ProductionKg,
			Sales:          fin.SalesKg,
			ClosingBalance: fin.ClosingKg,
			TotalAvailable: finAvailable,
		},
	})

	return report
}

func unitCostOrNil(value, quantity decimal.Decimal) *decimal.Decimal {
	unitCost, ok := SafeUnitCost(value, quantity)
	if !ok {
		return nil
	}
	return &unitCost
}
