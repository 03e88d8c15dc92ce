package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/siamtransfer/fareengine/internal/clock"
	"github.com/siamtransfer/fareengine/internal/config"
	rulerepository "github.com/siamtransfer/fareengine/internal/pricingrule/repository"
	ratingdomain "github.com/siamtransfer/fareengine/internal/rating/domain"
	ratedomain "github.com/siamtransfer/fareengine/internal/servicerate/domain"
	raterepository "github.com/siamtransfer/fareengine/internal/servicerate/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
)

type calculatorFixture struct {
	svc   ratingdomain.Service
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
}

func setupCalculator(t *testing.T) *calculatorFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ratedomain.ServiceRate{}, &ruledomain.PricingRule{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, time.September, 7, 12, 0, 0, 0, time.UTC))
	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: fake,
		Fare:  config.NewStaticFareConfigHolder(config.DefaultFareConfig()),
		Rates: raterepository.Provide(),
		Rules: rulerepository.Provide(),
	})

	return &calculatorFixture{svc: svc, db: db, node: node, clock: fake}
}

func (f *calculatorFixture) seedSUV(t *testing.T) {
	t.Helper()
	rate := &ratedomain.ServiceRate{
		ID:           f.node.Generate(),
		VehicleType:  "SUV",
		BasePrice:    decimal.NewFromInt(350),
		DistanceRate: decimal.NewFromInt(35),
		MinDistance:  5,
		Active:       true,
	}
	require.NoError(t, f.db.Create(rate).Error)
}

func (f *calculatorFixture) seedRule(t *testing.T, rule ruledomain.PricingRule) {
	t.Helper()
	rule.ID = f.node.Generate()
	rule.Active = true
	require.NoError(t, f.db.Create(&rule).Error)
}

// Off-peak Monday noon, no rules seeded unless a test adds them.
var quietPickup = time.Date(2026, time.September, 7, 12, 0, 0, 0, time.UTC)

func TestCalculateBaseExample(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)

	result, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
		VehicleType: "suv",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    quietPickup,
	})
	require.NoError(t, err)

	assert.Equal(t, "SUV", result.VehicleType)
	assert.Equal(t, "THB", result.Currency)
	assert.True(t, result.DistanceCharge.Equal(decimal.NewFromInt(175)), "got %s", result.DistanceCharge)
	assert.True(t, result.FinalPrice.Equal(decimal.RequireFromString("525")), "got %s", result.FinalPrice)
	assert.Contains(t, result.AppliedRules, "ServiceRate: SUV")
	assert.Contains(t, result.AppliedRules, "Distance: 10km")
}

func TestCalculateDistanceWithinMinimum(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)

	for _, km := range []int64{0, 3, 5} {
		result, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
			VehicleType: "SUV",
			DistanceKm:  decimal.NewFromInt(km),
			PickupAt:    quietPickup,
		})
		require.NoError(t, err)
		assert.True(t, result.DistanceCharge.IsZero(), "distance %d should be included in base", km)
		assert.True(t, result.FinalPrice.Equal(decimal.NewFromInt(350)))
		assert.NotContains(t, result.AppliedRules, "Distance: "+decimal.NewFromInt(km).String()+"km")
	}
}

func TestCalculateDistanceChargeMonotonic(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)

	prev := decimal.NewFromInt(-1)
	for km := int64(1); km <= 30; km += 3 {
		result, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
			VehicleType: "SUV",
			DistanceKm:  decimal.NewFromInt(km),
			PickupAt:    quietPickup,
		})
		require.NoError(t, err)
		assert.True(t, result.DistanceCharge.GreaterThanOrEqual(prev))
		prev = result.DistanceCharge
	}
}

func TestCalculateReturnTrip(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)
	ctx := context.Background()

	oneWay, err := f.svc.Calculate(ctx, ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    quietPickup,
	})
	require.NoError(t, err)

	roundTrip, err := f.svc.Calculate(ctx, ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    quietPickup,
		ReturnTrip:  true,
	})
	require.NoError(t, err)

	assert.True(t, roundTrip.FinalPrice.Equal(decimal.RequireFromString("472.5")), "got %s", roundTrip.FinalPrice)
	expected := oneWay.FinalPrice.Mul(decimal.RequireFromString("0.9")).RoundBank(2)
	assert.True(t, roundTrip.FinalPrice.Equal(expected))
	assert.Contains(t, roundTrip.AppliedRules, "ReturnTrip: -10%")
}

func TestCalculateUnknownVehicleType(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)

	_, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
		VehicleType: "LIMO",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    quietPickup,
	})
	assert.ErrorIs(t, err, ratedomain.ErrNotFound)
}

func TestCalculateNegativeDistance(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)

	_, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.NewFromInt(-1),
		PickupAt:    quietPickup,
	})
	assert.ErrorIs(t, err, ratingdomain.ErrInvalidDistance)
}

func TestCalculateAmbiguousCatalog(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)
	f.seedSUV(t)

	_, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    quietPickup,
	})
	assert.ErrorIs(t, err, ratedomain.ErrAmbiguousRate)
}

func TestCalculatePeakHourApplied(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)
	start, end := "07:00", "09:00"
	f.seedRule(t, ruledomain.PricingRule{
		RuleType:   ruledomain.RuleTypePeakHour,
		Name:       "morning rush",
		Multiplier: decimal.RequireFromString("1.2"),
		DaysOfWeek: datatypes.JSONSlice[string]{"MONDAY"},
		StartTime:  &start,
		EndTime:    &end,
	})

	// Monday 08:00.
	pickup := time.Date(2026, time.September, 7, 8, 0, 0, 0, time.UTC)
	result, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    pickup,
	})
	require.NoError(t, err)

	// (350 + 175) * 1.2 = 630
	assert.True(t, result.FinalPrice.Equal(decimal.NewFromInt(630)), "got %s", result.FinalPrice)
	assert.Contains(t, result.AppliedRules, "PeakHour: 120%")

	// Same time on Tuesday falls outside the weekday set.
	offPeak, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    pickup.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.True(t, offPeak.FinalPrice.Equal(decimal.NewFromInt(525)))
}

func TestCalculateFullComposition(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)

	start, end := "07:00", "09:00"
	f.seedRule(t, ruledomain.PricingRule{
		RuleType:   ruledomain.RuleTypePeakHour,
		Name:       "morning rush",
		Multiplier: decimal.RequireFromString("1.2"),
		StartTime:  &start,
		EndTime:    &end,
	})
	seasonStart := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
	seasonEnd := time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC)
	f.seedRule(t, ruledomain.PricingRule{
		RuleType:   ruledomain.RuleTypeSeasonal,
		Name:       "high season",
		Multiplier: decimal.RequireFromString("1.5"),
		StartDate:  &seasonStart,
		EndDate:    &seasonEnd,
	})
	f.seedRule(t, ruledomain.PricingRule{
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "promo",
		Multiplier: decimal.RequireFromString("0.9"),
	})

	// Monday 2026-12-07 08:00, inside every window.
	pickup := time.Date(2026, time.December, 7, 8, 0, 0, 0, time.UTC)
	result, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    pickup,
		ReturnTrip:  true,
	})
	require.NoError(t, err)

	// (350+175) * 1.2 * 1.5 = 945; * 0.9 = 850.5; * 0.9 = 765.45
	assert.True(t, result.Subtotal.Equal(decimal.RequireFromString("945")), "got %s", result.Subtotal)
	assert.True(t, result.FinalPrice.Equal(decimal.RequireFromString("765.45")), "got %s", result.FinalPrice)
	assert.Equal(t, []string{
		"ServiceRate: SUV",
		"Distance: 10km",
		"PeakHour: 120%",
		"Seasonal: 150%",
		"Discount: 90%",
		"ReturnTrip: -10%",
	}, result.AppliedRules)
}

func TestCalculateDeterministic(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)
	f.seedRule(t, ruledomain.PricingRule{
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "promo",
		Multiplier: decimal.RequireFromString("0.9"),
	})

	input := ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.RequireFromString("12.5"),
		PickupAt:    quietPickup,
		ReturnTrip:  true,
	}

	first, err := f.svc.Calculate(context.Background(), input)
	require.NoError(t, err)
	second, err := f.svc.Calculate(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, first.FinalPrice.Equal(second.FinalPrice))
	assert.Equal(t, first.AppliedRules, second.AppliedRules)
}

func TestCalculateUsesInjectedClock(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)

	result, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    quietPickup,
	})
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now(), result.CalculatedAt)
}

func TestCalculateIgnoresInactiveDiscount(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)

	dormant := ruledomain.PricingRule{
		ID:         f.node.Generate(),
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "retired promo",
		Multiplier: decimal.RequireFromString("0.5"),
		Active:     false,
	}
	require.NoError(t, f.db.Create(&dormant).Error)

	var stored ruledomain.PricingRule
	require.NoError(t, f.db.First(&stored, "name = ?", "retired promo").Error)
	require.False(t, stored.Active)

	result, err := f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    quietPickup,
	})
	require.NoError(t, err)

	assert.True(t, result.DiscountMultiplier.Equal(decimal.NewFromInt(1)), "got %s", result.DiscountMultiplier)
	assert.True(t, result.FinalPrice.Equal(decimal.RequireFromString("525")), "got %s", result.FinalPrice)
	for _, entry := range result.AppliedRules {
		assert.NotContains(t, entry, "Discount")
	}
}

func TestCalculateStoreUnavailable(t *testing.T) {
	f := setupCalculator(t)
	f.seedSUV(t)

	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.svc.Calculate(context.Background(), ratingdomain.CalculationInput{
		VehicleType: "SUV",
		DistanceKm:  decimal.NewFromInt(10),
		PickupAt:    quietPickup,
	})
	assert.ErrorIs(t, err, ratingdomain.ErrStoreUnavailable)
}
