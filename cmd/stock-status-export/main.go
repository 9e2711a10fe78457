package main

import (
	"context"
	"flag"
	"log"
	"time"

	"bitbucket.org/samproxdata/erp_backend/config"
	"bitbucket.org/samproxdata/erp_backend/models"
	"bitbucket.org/samproxdata/erp_backend/utils"
)

// Exports the stock-status report to an xlsx file, for the daily stock
// sheet the office prints.
func main() {
	asOfFlag := flag.String("as-of", "", "report date (YYYY-MM-DD, default today)")
	outFlag := flag.String("out", "", "output path (default stock-status-<date>.xlsx)")
	flag.Parse()

	asOf := utils.TodayInTimezone(utils.DefaultTimezone)
	if *asOfFlag != "" {
		parsed, err := utils.ParseDateString(*asOfFlag, utils.DefaultTimezone)
		if err != nil {
			log.Fatalf("invalid -as-of: %v", err)
		}
		asOf = parsed
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := models.GetStockStatus(ctx, db, models.DefaultBaseline(), models.DefaultMachineCodes(), asOf)
	if err != nil {
		log.Fatalf("build report: %v", err)
	}

	file, err := models.ExportStockStatusXLSX(report)
	if err != nil {
		log.Fatalf("render xlsx: %v", err)
	}

	out := *outFlag
	if out == "" {
		out = "stock-status-" + report.AsOf.Format("2006-01-02") + ".xlsx"
	}
	if err := file.SaveAs(out); err != nil {
		log.Fatalf("save %s: %v", out, err)
	}
	log.Printf("wrote %s (%d rows)", out, len(report.Rows))
}
