package migration

import (
	"context"

	"github.com/siamtransfer/fareengine/internal/config"
	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
	historydomain "github.com/siamtransfer/fareengine/internal/ratehistory/domain"
	"github.com/siamtransfer/fareengine/internal/ratelimit"
	"github.com/siamtransfer/fareengine/internal/seed"
	ratedomain "github.com/siamtransfer/fareengine/internal/servicerate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Config  config.Config
	Limiter *ratelimit.QuoteLimiter `optional:"true"`
}

var Module = fx.Module("migrations",
	fx.Invoke(func(p Params) error {
		if p.Config.DBType == "postgres" {
			sqlDB, err := p.DB.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite has no embedded migration path; AutoMigrate keeps
			// local and test databases in sync with the models.
			if err := p.DB.AutoMigrate(
				&ratedomain.ServiceRate{},
				&ruledomain.PricingRule{},
				&historydomain.RateHistory{},
			); err != nil {
				return err
			}
		}

		if !p.Config.SeedDefaults {
			return nil
		}

		ctx := context.Background()
		token, acquired, err := p.Limiter.TrySeedLock(ctx)
		if err != nil {
			return err
		}
		if !acquired {
			p.Log.Info("another replica is seeding default rates, skipping")
			return nil
		}
		defer func() {
			if err := p.Limiter.ReleaseSeedLock(ctx, token); err != nil {
				p.Log.Warn("release seed lock failed", zap.Error(err))
			}
		}()

		return seed.EnsureDefaultRates(p.DB)
	}),
)
