package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportStockStatusXLSX renders a stock-status report into a workbook
// for the office's daily stock sheet.
func ExportStockStatusXLSX(report *StockStatusReport) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Stock Status"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Stock Status as of %s", report.AsOf.Format("2006-01-02"))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	headers := []string{
		"Material", "Opening (kg)", "Purchases (kg)", "Production (kg)",
		"Sales (kg)", "Consumption (kg)", "Closing (kg)", "Unit Cost", "Value",
	}
	for i, h := range headers {
		cell, cellErr := excelize.CoordinatesToCellName(i+1, 3)
		if cellErr != nil {
			return nil, cellErr
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range report.Rows {
		values := []interface{}{
			row.Label,
			decimalCell(row.Metrics.OpeningBalance),
			decimalCell(row.Metrics.Purchases),
			decimalCell(row.Metrics.Production),
			decimalCell(row.Metrics.Sales),
			decimalCell(row.Metrics.Consumption),
			decimalCell(row.Metrics.ClosingBalance),
			unitCostCell(row.UnitCost),
			decimalCell(row.Value),
		}
		for colIdx, value := range values {
			cell, cellErr := excelize.CoordinatesToCellName(colIdx+1, rowIdx+4)
			if cellErr != nil {
				return nil, cellErr
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "I", 14); err != nil {
		return nil, err
	}
	return f, nil
}

// Quantities and values go in as numbers so the sheet's totals work;
// only the undefined unit cost renders as an empty cell.
func decimalCell(d decimal.Decimal) interface{} {
	return d.InexactFloat64()
}

func unitCostCell(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}
