package models

import (
	"log"

	"bitbucket.org/samproxdata/erp_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&MaterialItem{},
		&MaterialReceiptHeader{}, &MaterialReceiptLine{},
		&MachineAsset{}, &DailyProductionEntry{},
		&BriquetteMixEntry{}, &BriquetteSaleEntry{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
