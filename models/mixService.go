package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bitbucket.org/samproxdata/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultProductionListLimit = 120
	MaxProductionListLimit     = 365
)

// ProductionDay is one day's machine output split by ledger role.
type ProductionDay struct {
	DryerTon     decimal.Decimal
	BriquetteTon decimal.Decimal
}

// BriquetteMixView is the API shape of one mix entry after recompute.
type BriquetteMixView struct {
	Date              string             `json:"date"`
	DryFactor         decimal.Decimal    `json:"dryFactor"`
	SawdustTon        decimal.Decimal    `json:"sawdustTon"`
	WoodShavingTon    decimal.Decimal    `json:"woodShavingTon"`
	WoodPowderTon     decimal.Decimal    `json:"woodPowderTon"`
	PeanutHuskTon     decimal.Decimal    `json:"peanutHuskTon"`
	FireCutTon        decimal.Decimal    `json:"fireCutTon"`
	DryerTon          decimal.Decimal    `json:"dryerTon"`
	BriquetteTon      decimal.Decimal    `json:"briquetteTon"`
	TotalMaterialCost decimal.Decimal    `json:"totalMaterialCost"`
	UnitCostPerKg     decimal.Decimal    `json:"unitCostPerKg"`
	TotalOutputKg     decimal.Decimal    `json:"totalOutputKg"`
	CostBreakdown     []CostBreakdownRow `json:"costBreakdown"`
}

// ProductionSummary is one row of the recent-production listing.
type ProductionSummary struct {
	Date              string          `json:"date"`
	TotalOutputKg     decimal.Decimal `json:"totalOutputKg"`
	TotalMaterialCost decimal.Decimal `json:"totalMaterialCost"`
	UnitCostPerKg     decimal.Decimal `json:"unitCostPerKg"`
}

// LoadProductionDays aggregates daily production entries into per-day
// dryer and briquette totals, keyed by UTC day.
func LoadProductionDays(ctx context.Context, db *gorm.DB, machines MachineCodes, through time.Time) (map[time.Time]ProductionDay, error) {
	var entries []DailyProductionEntry
	dbCtx := db.WithContext(ctx).Preload("MachineAsset").Order("date ASC, created_at ASC")
	if !through.IsZero() {
		dbCtx = dbCtx.Where("date < ?", startOfNextDay(through))
	}
	if err := dbCtx.Find(&entries).Error; err != nil {
		return nil, err
	}

	days := make(map[time.Time]ProductionDay)
	for _, entry := range entries {
		if entry.QuantityTon.LessThanOrEqual(decimal.Zero) {
			continue
		}
		day := utils.DateOnly(entry.Date)
		pd := days[day]
		switch {
		case machines.IsDryer(entry.MachineAsset.Code):
			pd.DryerTon = QuantizeTon(pd.DryerTon.Add(entry.QuantityTon))
		case machines.IsBriquette(entry.MachineAsset.Code):
			pd.BriquetteTon = QuantizeTon(pd.BriquetteTon.Add(entry.QuantityTon))
		default:
			continue
		}
		days[day] = pd
	}
	return days, nil
}

// loadReceiptEvents turns MRN lines into dated receipt events, ordered
// by header date, then header creation, then line creation, so same-day
// layers keep their original insertion sequence.
func loadReceiptEvents(ctx context.Context, db *gorm.DB, through time.Time) ([]ReceiptEvent, error) {
	var headers []MaterialReceiptHeader
	if err := db.WithContext(ctx).
		Preload("Lines", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Preload("Lines.MaterialItem").
		Order("date ASC, created_at ASC, id ASC").
		Find(&headers).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	var events []ReceiptEvent
	for _, header := range headers {
		for _, line := range header.Lines {
			if line.QuantityTon.LessThanOrEqual(decimal.Zero) {
				continue
			}
			material, ok := ResolveMaterialName(line.MaterialItem.Name)
			if !ok {
				continue
			}
			date := ResolveReceiptDate(header.Date, line.CreatedAt, header.CreatedAt, now)
			if !through.IsZero() && date.After(utils.DateOnly(through)) {
				continue
			}
			events = append(events, ReceiptEvent{
				Material:      material,
				Date:          date,
				QuantityKg:    TonsToKg(line.QuantityTon),
				UnitCostPerKg: ResolveReceiptUnitCost(line.UnitPrice, line.ApprovedUnitPrice),
			})
		}
	}
	return events, nil
}

// AssembleOptions bounds a timeline build. Through zero means end of
// history; ExcludeMixDate drops the stored entry for one date so a
// proposal can be dry-run in its place.
type AssembleOptions struct {
	Through        time.Time
	ExcludeMixDate *time.Time
}

// AssembleLedgerTimeline loads every event source and produces the
// sorted day sequence the replay engine consumes.
func AssembleLedgerTimeline(ctx context.Context, db *gorm.DB, baseline BaselineConfig, machines MachineCodes, opts AssembleOptions) (*Timeline, error) {
	builder := NewTimelineBuilder(utils.DateOnly(baseline.Date), opts.Through)

	receipts, err := loadReceiptEvents(ctx, db, opts.Through)
	if err != nil {
		return nil, err
	}
	for _, receipt := range receipts {
		builder.AddReceipt(receipt)
	}

	productionDays, err := LoadProductionDays(ctx, db, machines, opts.Through)
	if err != nil {
		return nil, err
	}

	var mixEntries []BriquetteMixEntry
	mixQuery := db.WithContext(ctx).Order("date ASC")
	if !opts.Through.IsZero() {
		mixQuery = mixQuery.Where("date < ?", startOfNextDay(opts.Through))
	}
	if err := mixQuery.Find(&mixEntries).Error; err != nil {
		return nil, err
	}
	for i := range mixEntries {
		entry := &mixEntries[i]
		day := utils.DateOnly(entry.Date)
		if opts.ExcludeMixDate != nil && day.Equal(utils.DateOnly(*opts.ExcludeMixDate)) {
			continue
		}
		builder.AddMix(mixConsumptionFromEntry(entry, productionDays[day]))
	}

	for day, pd := range productionDays {
		builder.AddProduction(day, TonsToKg(pd.BriquetteTon))
	}

	var sales []BriquetteSaleEntry
	saleQuery := db.WithContext(ctx).Order("date ASC, created_at ASC")
	if !opts.Through.IsZero() {
		saleQuery = saleQuery.Where("date < ?", startOfNextDay(opts.Through))
	}
	if err := saleQuery.Find(&sales).Error; err != nil {
		return nil, err
	}
	for _, sale := range sales {
		builder.AddSale(utils.DateOnly(sale.Date), TonsToKg(sale.QuantityTon))
	}

	return builder.Build(), nil
}

func mixConsumptionFromEntry(entry *BriquetteMixEntry, pd ProductionDay) *MixConsumption {
	quantitiesKg := make(map[MaterialKey]decimal.Decimal, len(MaterialOrder))
	for material, tons := range entry.QuantitiesTon() {
		quantitiesKg[material] = TonsToKg(tons)
	}
	return &MixConsumption{
		EntryID:      entry.ID,
		Date:         utils.DateOnly(entry.Date),
		QuantitiesKg: quantitiesKg,
		OutputKg:     TonsToKg(pd.BriquetteTon),
	}
}

// GetStockStatus replays the ledger through asOf and formats the
// per-material stock-status report.
func GetStockStatus(ctx context.Context, db *gorm.DB, baseline BaselineConfig, machines MachineCodes, asOf time.Time) (*StockStatusReport, error) {
	asOf = utils.DateOnly(asOf)
	tl, err := AssembleLedgerTimeline(ctx, db, baseline, machines, AssembleOptions{Through: asOf})
	if err != nil {
		return nil, err
	}
	snapshot, err := ReplaySnapshot(baseline, tl, asOf)
	if err != nil {
		return nil, err
	}
	return BuildStockStatusReport(baseline, snapshot), nil
}

// GetBriquetteMixDetail returns one day's mix entry with its recomputed
// cost fields and that day's machine output.
func GetBriquetteMixDetail(ctx context.Context, db *gorm.DB, machines MachineCodes, date time.Time) (*BriquetteMixView, error) {
	date = utils.DateOnly(date)

	var entry BriquetteMixEntry
	err := db.WithContext(ctx).
		Where("date >= ? AND date < ?", date, startOfNextDay(date)).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	productionDays, err := LoadProductionDays(ctx, db, machines, date)
	if err != nil {
		return nil, err
	}
	return buildMixView(&entry, productionDays[date]), nil
}

func buildMixView(entry *BriquetteMixEntry, pd ProductionDay) *BriquetteMixView {
	view := &BriquetteMixView{
		Date:              utils.FormatDate(entry.Date),
		DryFactor:         entry.DryFactor,
		SawdustTon:        entry.SawdustTon,
		WoodShavingTon:    entry.WoodShavingTon,
		WoodPowderTon:     entry.WoodPowderTon,
		PeanutHuskTon:     entry.PeanutHuskTon,
		FireCutTon:        entry.FireCutTon,
		DryerTon:          pd.DryerTon,
		BriquetteTon:      pd.BriquetteTon,
		TotalMaterialCost: entry.TotalMaterialCost,
		UnitCostPerKg:     entry.UnitCostPerKg,
		TotalOutputKg:     entry.TotalOutputKg,
	}
	if entry.CostBreakdown != "" {
		// tolerate legacy rows with malformed breakdown JSON
		_ = json.Unmarshal([]byte(entry.CostBreakdown), &view.CostBreakdown)
	}
	return view
}

// ListBriquetteProductionEntries returns recent production days, most
// recent first. Limit defaults to 120 and caps at 365.
func ListBriquetteProductionEntries(ctx context.Context, db *gorm.DB, limit int) ([]ProductionSummary, error) {
	if limit <= 0 {
		limit = DefaultProductionListLimit
	}
	if limit > MaxProductionListLimit {
		limit = MaxProductionListLimit
	}

	var entries []BriquetteMixEntry
	if err := db.WithContext(ctx).
		Order("date DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	summaries := make([]ProductionSummary, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		summaries = append(summaries, ProductionSummary{
			Date:              utils.FormatDate(entry.Date),
			TotalOutputKg:     entry.TotalOutputKg,
			TotalMaterialCost: entry.TotalMaterialCost,
			UnitCostPerKg:     entry.UnitCostPerKg,
		})
	}
	return summaries, nil
}

// startOfNextDay is the exclusive upper bound for day-range queries.
// MySQL rounds sub-second bounds up at column precision, so closed
// ranges ending just before midnight can leak next-day rows; half-open
// ranges do not.
func startOfNextDay(t time.Time) time.Time {
	return utils.DateOnly(t).AddDate(0, 0, 1)
}
