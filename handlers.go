package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bitbucket.org/samproxdata/erp_backend/config"
	"bitbucket.org/samproxdata/erp_backend/models"
	"bitbucket.org/samproxdata/erp_backend/utils"
	"bitbucket.org/samproxdata/erp_backend/workflow"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func getStockStatusHandler(c *gin.Context) {
	asOf := utils.TodayInTimezone(utils.DefaultTimezone)
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := utils.ParseDateString(raw, utils.DefaultTimezone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of date: " + raw})
			return
		}
		asOf = parsed
	}

	report, err := models.GetStockStatus(c.Request.Context(), config.GetDB(),
		models.DefaultBaseline(), models.DefaultMachineCodes(), asOf)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "getStockStatusHandler", "build report", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build stock status"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func exportStockStatusHandler(c *gin.Context) {
	asOf := utils.TodayInTimezone(utils.DefaultTimezone)
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := utils.ParseDateString(raw, utils.DefaultTimezone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of date: " + raw})
			return
		}
		asOf = parsed
	}

	report, err := models.GetStockStatus(c.Request.Context(), config.GetDB(),
		models.DefaultBaseline(), models.DefaultMachineCodes(), asOf)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "exportStockStatusHandler", "build report", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build stock status"})
		return
	}

	file, err := models.ExportStockStatusXLSX(report)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "exportStockStatusHandler", "render xlsx", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}

	filename := fmt.Sprintf("stock-status-%s.xlsx", report.AsOf.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "handlers", "exportStockStatusHandler", "write response", nil, err)
	}
}

func listProductionHandler(c *gin.Context) {
	limit := models.DefaultProductionListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit: " + raw})
			return
		}
		limit = parsed
	}

	summaries, err := models.ListBriquetteProductionEntries(c.Request.Context(), config.GetDB(), limit)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "listProductionHandler", "list entries", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list production entries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": summaries})
}

func getMixDetailHandler(c *gin.Context) {
	date, err := utils.ParseDateString(c.Param("date"), utils.DefaultTimezone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date: " + c.Param("date")})
		return
	}

	view, err := models.GetBriquetteMixDetail(c.Request.Context(), config.GetDB(),
		models.DefaultMachineCodes(), date)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no mix entry for " + c.Param("date")})
			return
		}
		config.LogError(config.GetLogger(), "handlers", "getMixDetailHandler", "load mix detail", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load mix entry"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func saveMixEntryHandler(c *gin.Context) {
	var input workflow.MixEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	input.Date = c.Param("date")

	view, err := workflow.SaveBriquetteMixEntry(c.Request.Context(), input)
	if err != nil {
		status, ok := validationStatus(err)
		if ok {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		config.LogError(config.GetLogger(), "handlers", "saveMixEntryHandler", "save mix entry", input, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save mix entry"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// validationStatus maps the expected, user-facing rejection kinds to
// HTTP statuses. Anything else is a persistence problem and is the only
// kind logged as unexpected.
func validationStatus(err error) (int, bool) {
	var inputErr *models.InputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest, true
	}
	var consistencyErr *models.ConsistencyError
	if errors.As(err, &consistencyErr) {
		return http.StatusUnprocessableEntity, true
	}
	var stockErr *models.InsufficientStockError
	if errors.As(err, &stockErr) {
		return http.StatusConflict, true
	}
	return 0, false
}

// runFullRecompute is the scheduler/CLI entry for a standalone
// full-history recompute wrapped in its own transaction.
func runFullRecompute(ctx context.Context) error {
	db := config.GetDB()
	baseline := models.DefaultBaseline()
	machines := models.DefaultMachineCodes()
	return db.Transaction(func(tx *gorm.DB) error {
		return workflow.RecomputeBriquetteHistory(ctx, tx, baseline, machines)
	})
}
