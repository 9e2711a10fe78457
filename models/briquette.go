package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialItem is the catalog row receipt lines reference by name.
type MaterialItem struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// MaterialReceiptHeader is one MRN (material receipt note) from the
// weighbridge. Date is nullable; older records only carry created-at.
type MaterialReceiptHeader struct {
	ID                 int                   `gorm:"primaryKey" json:"id"`
	ReceiptNumber      string                `gorm:"size:50;index" json:"receiptNumber"`
	SupplierName       string                `gorm:"size:200" json:"supplierName"`
	WeighingSlipNumber string                `gorm:"size:50" json:"weighingSlipNumber"`
	Date               *time.Time            `gorm:"index" json:"date"`
	Lines              []MaterialReceiptLine `gorm:"foreignKey:HeaderID" json:"lines"`
	CreatedAt          time.Time             `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time             `gorm:"autoUpdateTime" json:"updatedAt"`
}

// MaterialReceiptLine is one material on an MRN. Prices are per ton;
// ApprovedUnitPrice is set after office review and wins over the
// weighbridge price when present.
type MaterialReceiptLine struct {
	ID                int              `gorm:"primaryKey" json:"id"`
	HeaderID          int              `gorm:"index" json:"headerId"`
	MaterialItemID    int              `gorm:"index" json:"materialItemId"`
	MaterialItem      MaterialItem     `json:"materialItem"`
	QuantityTon       decimal.Decimal  `gorm:"type:decimal(20,4)" json:"quantityTon"`
	UnitPrice         decimal.Decimal  `gorm:"type:decimal(20,4)" json:"unitPrice"`
	ApprovedUnitPrice *decimal.Decimal `gorm:"type:decimal(20,4)" json:"approvedUnitPrice"`
	WetFactor         decimal.Decimal  `gorm:"type:decimal(20,4)" json:"wetFactor"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"createdAt"`
}

// MachineAsset is a plant machine. Codes decide the ledger role: the
// briquette machines produce finished goods, the dryer feeds sawdust.
type MachineAsset struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:20;uniqueIndex" json:"code"`
	Name      string    `gorm:"size:100" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// DailyProductionEntry is one machine's output for one day.
type DailyProductionEntry struct {
	ID             int             `gorm:"primaryKey" json:"id"`
	Date           time.Time       `gorm:"index:idx_production_date_machine,priority:1" json:"date"`
	MachineAssetID int             `gorm:"index:idx_production_date_machine,priority:2" json:"machineAssetId"`
	MachineAsset   MachineAsset    `json:"machineAsset"`
	QuantityTon    decimal.Decimal `gorm:"type:decimal(20,4)" json:"quantityTon"`
	RunHours       decimal.Decimal `gorm:"type:decimal(20,4)" json:"runHours"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BriquetteMixEntry is one production day's raw-material mix. The cost
// fields are outputs of the history recompute, never written directly
// by a request handler.
type BriquetteMixEntry struct {
	ID             int             `gorm:"primaryKey" json:"id"`
	Date           time.Time       `gorm:"uniqueIndex" json:"date"`
	DryFactor      decimal.Decimal `gorm:"type:decimal(20,4)" json:"dryFactor"`
	SawdustTon     decimal.Decimal `gorm:"type:decimal(20,4)" json:"sawdustTon"`
	WoodShavingTon decimal.Decimal `gorm:"type:decimal(20,4)" json:"woodShavingTon"`
	WoodPowderTon  decimal.Decimal `gorm:"type:decimal(20,4)" json:"woodPowderTon"`
	PeanutHuskTon  decimal.Decimal `gorm:"type:decimal(20,4)" json:"peanutHuskTon"`
	FireCutTon     decimal.Decimal `gorm:"type:decimal(20,4)" json:"fireCutTon"`

	TotalMaterialCost decimal.Decimal `gorm:"type:decimal(20,4)" json:"totalMaterialCost"`
	UnitCostPerKg     decimal.Decimal `gorm:"type:decimal(20,4)" json:"unitCostPerKg"`
	TotalOutputKg     decimal.Decimal `gorm:"type:decimal(20,4)" json:"totalOutputKg"`
	CostBreakdown     string          `gorm:"type:json" json:"costBreakdown"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// QuantitiesTon returns the entry's stored per-material tons in ledger
// order form.
func (e *BriquetteMixEntry) QuantitiesTon() map[MaterialKey]decimal.Decimal {
	return map[MaterialKey]decimal.Decimal{
		MaterialSawdust:     e.SawdustTon,
		MaterialWoodShaving: e.WoodShavingTon,
		MaterialWoodPowder:  e.WoodPowderTon,
		MaterialPeanutHusk:  e.PeanutHuskTon,
		MaterialFireCut:     e.FireCutTon,
	}
}

// BriquetteSaleEntry is one finished-goods dispatch.
type BriquetteSaleEntry struct {
	ID           int             `gorm:"primaryKey" json:"id"`
	Date         time.Time       `gorm:"index" json:"date"`
	CustomerName string          `gorm:"size:200" json:"customerName"`
	QuantityTon  decimal.Decimal `gorm:"type:decimal(20,4)" json:"quantityTon"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}
