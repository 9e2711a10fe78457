package main

import (
	"context"
	"flag"
	"log"
	"time"

	"bitbucket.org/samproxdata/erp_backend/config"
	"bitbucket.org/samproxdata/erp_backend/models"
	"bitbucket.org/samproxdata/erp_backend/workflow"
	"gorm.io/gorm"
)

// Forces a full-history cost recompute outside the request path. Used
// after out-of-band data fixes (manual SQL corrections, backfilled
// receipts) that bypass the mix-entry workflow.
func main() {
	dryRun := flag.Bool("dry-run", false, "replay and report without writing cost fields")
	timeout := flag.Duration("timeout", 10*time.Minute, "abort if the recompute runs longer than this")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	baseline := models.DefaultBaseline()
	machines := models.DefaultMachineCodes()

	if *dryRun {
		tl, err := models.AssembleLedgerTimeline(ctx, db, baseline, machines, models.AssembleOptions{})
		if err != nil {
			log.Fatalf("assemble timeline: %v", err)
		}
		var days int
		err = models.ReplayRecompute(baseline, tl, func(result models.DayCostResult) error {
			days++
			log.Printf("%s entry=%d total_cost=%s unit_cost=%s output_kg=%s",
				result.Date.Format("2006-01-02"), result.EntryID,
				result.TotalMaterialCost, result.UnitCostPerKg, result.TotalOutputKg)
			return nil
		})
		if err != nil {
			log.Fatalf("replay: %v", err)
		}
		log.Printf("dry run complete: %d production days", days)
		return
	}

	start := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		return workflow.RecomputeBriquetteHistory(ctx, tx, baseline, machines)
	})
	if err != nil {
		log.Fatalf("recompute: %v", err)
	}
	log.Printf("recompute committed in %s", time.Since(start).Round(time.Millisecond))
}
