package workflow

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/samproxdata/erp_backend/config"
	"bitbucket.org/samproxdata/erp_backend/models"
	"bitbucket.org/samproxdata/erp_backend/utils"
	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// mixEntryLockKey serializes mix mutations across instances. The DB
// transaction remains the correctness boundary; the lock only keeps two
// full-history recomputes from racing each other.
const mixEntryLockKey = "lock:briquette-mix"

var validate = validator.New()

// MixEntryInput is the mutation payload. Quantities the operator types
// in directly; sawdust and wood shaving are derived server-side from
// that day's machine output.
type MixEntryInput struct {
	Date          string          `json:"date" validate:"required"`
	DryFactor     decimal.Decimal `json:"dry_factor"`
	WoodPowderTon decimal.Decimal `json:"wood_powder_ton"`
	PeanutHuskTon decimal.Decimal `json:"peanut_husk_ton"`
	FireCutTon    decimal.Decimal `json:"fire_cut_ton"`
}

func validateMixInput(input MixEntryInput) error {
	if err := validate.Struct(input); err != nil {
		return models.NewInputError("date", "date is required")
	}
	if input.DryFactor.LessThan(decimal.Zero) {
		return models.NewInputError("dry_factor", "dry factor cannot be negative")
	}
	for field, qty := range map[string]decimal.Decimal{
		"wood_powder_ton": input.WoodPowderTon,
		"peanut_husk_ton": input.PeanutHuskTon,
		"fire_cut_ton":    input.FireCutTon,
	} {
		if qty.LessThan(decimal.Zero) {
			return models.NewInputError(field, field+" cannot be negative")
		}
	}
	return nil
}

// SaveBriquetteMixEntry validates, dry-runs, persists and recomputes
// one day's mix. The order is fixed: input checks, derived-quantity
// consistency check, negative-stock dry run, then a single transaction
// that upserts the entry and refreshes the full cost history.
func SaveBriquetteMixEntry(ctx context.Context, input MixEntryInput) (*models.BriquetteMixView, error) {
	logger := config.GetLogger()

	if err := validateMixInput(input); err != nil {
		return nil, err
	}
	date, err := utils.ParseDateString(input.Date, utils.DefaultTimezone)
	if err != nil {
		return nil, models.NewInputError("date", "invalid date: "+input.Date)
	}
	date = utils.DateOnly(date)

	if locker := config.GetRedisLock(); locker != nil {
		lock, lockErr := locker.Obtain(ctx, mixEntryLockKey, 30*time.Second, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(250 * time.Millisecond),
		})
		if lockErr != nil {
			config.LogError(logger, "workflow", "SaveBriquetteMixEntry", "obtain mix lock", input, lockErr)
			return nil, lockErr
		}
		defer lock.Release(context.Background())
	}

	db := config.GetDB()
	baseline := models.DefaultBaseline()
	machines := models.DefaultMachineCodes()

	productionDays, err := models.LoadProductionDays(ctx, db, machines, date)
	if err != nil {
		config.LogError(logger, "workflow", "SaveBriquetteMixEntry", "load production days", input, err)
		return nil, err
	}
	pd := productionDays[date]

	quantitiesTon, err := models.DeriveMixQuantities(models.MixDerivationInput{
		DryFactor:     input.DryFactor,
		WoodPowderTon: input.WoodPowderTon,
		PeanutHuskTon: input.PeanutHuskTon,
		FireCutTon:    input.FireCutTon,
		DryerTon:      pd.DryerTon,
		BriquetteTon:  pd.BriquetteTon,
	})
	if err != nil {
		return nil, err
	}

	// Dry run: replay up to the proposal's date with the stored entry
	// for that date excluded, then check opening+receipts covers the
	// proposed consumption. Nothing is persisted on rejection.
	tl, err := models.AssembleLedgerTimeline(ctx, db, baseline, machines, models.AssembleOptions{
		Through:        date,
		ExcludeMixDate: &date,
	})
	if err != nil {
		config.LogError(logger, "workflow", "SaveBriquetteMixEntry", "assemble dry-run timeline", input, err)
		return nil, err
	}
	snapshot, err := models.ReplaySnapshot(baseline, tl, date)
	if err != nil {
		return nil, models.NewInputError("date", err.Error())
	}
	proposedKg := make(map[models.MaterialKey]decimal.Decimal, len(quantitiesTon))
	for material, tons := range quantitiesTon {
		proposedKg[material] = models.TonsToKg(tons)
	}
	if err := models.ValidateStockAvailability(snapshot, proposedKg); err != nil {
		return nil, err
	}

	entry := models.BriquetteMixEntry{
		Date:           date,
		DryFactor:      models.QuantizeUnitCost(input.DryFactor),
		SawdustTon:     quantitiesTon[models.MaterialSawdust],
		WoodShavingTon: quantitiesTon[models.MaterialWoodShaving],
		WoodPowderTon:  quantitiesTon[models.MaterialWoodPowder],
		PeanutHuskTon:  quantitiesTon[models.MaterialPeanutHusk],
		FireCutTon:     quantitiesTon[models.MaterialFireCut],
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.BriquetteMixEntry
		findErr := tx.Where("date >= ? AND date < ?", date, date.AddDate(0, 0, 1)).
			First(&existing).Error
		switch {
		case findErr == nil:
			entry.ID = existing.ID
			entry.CreatedAt = existing.CreatedAt
			if saveErr := tx.Save(&entry).Error; saveErr != nil {
				return saveErr
			}
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			if createErr := tx.Create(&entry).Error; createErr != nil {
				return createErr
			}
		default:
			return findErr
		}

		return RecomputeBriquetteHistory(ctx, tx, baseline, machines)
	})
	if err != nil {
		config.LogError(logger, "workflow", "SaveBriquetteMixEntry", "persist and recompute", input, err)
		return nil, err
	}

	return models.GetBriquetteMixDetail(ctx, db, machines, date)
}
