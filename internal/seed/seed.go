// Package seed bootstraps a default rate catalog so a fresh install
// can price quotes immediately.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	ratedomain "github.com/siamtransfer/fareengine/internal/servicerate/domain"
	"github.com/siamtransfer/fareengine/pkg/repository"
	"gorm.io/gorm"
)

type defaultRate struct {
	vehicleType  string
	basePrice    string
	distanceRate string
	minDistance  float64
}

var defaultRates = []defaultRate{
	{vehicleType: "SEDAN", basePrice: "250", distanceRate: "25", minDistance: 5},
	{vehicleType: "SUV", basePrice: "350", distanceRate: "35", minDistance: 5},
	{vehicleType: "VAN", basePrice: "500", distanceRate: "45", minDistance: 5},
}

// EnsureDefaultRates inserts the default vehicle catalog when the
// service_rates table is empty. An already-populated catalog is left
// untouched.
func EnsureDefaultRates(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := repository.ProvideStore[ratedomain.ServiceRate](tx).Count(ctx, &ratedomain.ServiceRate{})
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, def := range defaultRates {
			rate := ratedomain.ServiceRate{
				ID:           node.Generate(),
				VehicleType:  def.vehicleType,
				BasePrice:    decimal.RequireFromString(def.basePrice),
				DistanceRate: decimal.RequireFromString(def.distanceRate),
				MinDistance:  def.minDistance,
				Active:       true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Create(&rate).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
