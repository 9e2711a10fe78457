package workflow

import (
	"context"
	"encoding/json"

	"bitbucket.org/samproxdata/erp_backend/models"
	"gorm.io/gorm"
)

// RecomputeBriquetteHistory rebuilds every stored mix entry's cost
// fields by replaying the whole event history from the baseline. FIFO
// layer boundaries are globally order-dependent, so an edit to an early
// date can change every later day's cost; refreshing the full history
// is the correctness guarantee, not an inefficiency to patch around.
//
// Run inside the caller's transaction: either every entry is refreshed
// or none is.
func RecomputeBriquetteHistory(ctx context.Context, tx *gorm.DB, baseline models.BaselineConfig, machines models.MachineCodes) error {
	tl, err := models.AssembleLedgerTimeline(ctx, tx, baseline, machines, models.AssembleOptions{})
	if err != nil {
		return err
	}

	return models.ReplayRecompute(baseline, tl, func(result models.DayCostResult) error {
		breakdown, err := json.Marshal(result.Breakdown)
		if err != nil {
			return err
		}
		return tx.WithContext(ctx).
			Model(&models.BriquetteMixEntry{}).
			Where("id = ?", result.EntryID).
			Updates(map[string]interface{}{
				"total_material_cost": result.TotalMaterialCost,
				"unit_cost_per_kg":    result.UnitCostPerKg,
				"total_output_kg":     result.TotalOutputKg,
				"cost_breakdown":      string(breakdown),
			}).Error
	})
}
