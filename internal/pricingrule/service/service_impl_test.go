package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
	"github.com/siamtransfer/fareengine/internal/pricingrule/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (ruledomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ruledomain.PricingRule{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func strptr(s string) *string { return &s }

func dateptr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestCreatePeakHourRule(t *testing.T) {
	svc, _ := setupService(t)

	resp, err := svc.Create(context.Background(), ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypePeakHour,
		Name:       "weekday rush",
		Multiplier: decimal.RequireFromString("1.2"),
		DaysOfWeek: []string{"monday", "FRIDAY", "Monday"},
		StartTime:  strptr("07:00"),
		EndTime:    strptr("09:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, ruledomain.RuleTypePeakHour, resp.RuleType)
	assert.Equal(t, []string{"MONDAY", "FRIDAY"}, resp.DaysOfWeek)
	assert.True(t, resp.Active)
}

func TestCreatePeakHourValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypePeakHour,
		Name:       "no window",
		Multiplier: decimal.RequireFromString("1.2"),
	})
	assert.ErrorIs(t, err, ruledomain.ErrInvalidTimeWindow)

	_, err = svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypePeakHour,
		Name:       "inverted window",
		Multiplier: decimal.RequireFromString("1.2"),
		StartTime:  strptr("17:00"),
		EndTime:    strptr("09:00"),
	})
	assert.ErrorIs(t, err, ruledomain.ErrInvalidTimeWindow)

	_, err = svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypePeakHour,
		Name:       "bad day",
		Multiplier: decimal.RequireFromString("1.2"),
		StartTime:  strptr("07:00"),
		EndTime:    strptr("09:00"),
		DaysOfWeek: []string{"SOMEDAY"},
	})
	assert.ErrorIs(t, err, ruledomain.ErrInvalidDayOfWeek)
}

func TestCreateSeasonalRule(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeSeasonal,
		Name:       "songkran",
		Multiplier: decimal.RequireFromString("1.5"),
		StartDate:  dateptr(2026, time.April, 12),
		EndDate:    dateptr(2026, time.April, 16),
	})
	require.NoError(t, err)
	assert.Equal(t, ruledomain.RuleTypeSeasonal, resp.RuleType)

	_, err = svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeSeasonal,
		Name:       "inverted range",
		Multiplier: decimal.RequireFromString("1.5"),
		StartDate:  dateptr(2026, time.April, 16),
		EndDate:    dateptr(2026, time.April, 12),
	})
	assert.ErrorIs(t, err, ruledomain.ErrInvalidDateRange)

	_, err = svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeSeasonal,
		Name:       "missing range",
		Multiplier: decimal.RequireFromString("1.5"),
	})
	assert.ErrorIs(t, err, ruledomain.ErrInvalidDateRange)
}

func TestCreateDiscountRejectsWindows(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Create(context.Background(), ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "promo with window",
		Multiplier: decimal.RequireFromString("0.9"),
		StartTime:  strptr("07:00"),
		EndTime:    strptr("09:00"),
	})
	assert.ErrorIs(t, err, ruledomain.ErrInvalidTimeWindow)
}

func TestCreateRejectsBadMultiplier(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "zero",
		Multiplier: decimal.Zero,
	})
	assert.ErrorIs(t, err, ruledomain.ErrInvalidMultiplier)

	_, err = svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "negative",
		Multiplier: decimal.RequireFromString("-0.5"),
	})
	assert.ErrorIs(t, err, ruledomain.ErrInvalidMultiplier)

	_, err = svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   "HAPPY_HOUR",
		Name:       "unknown type",
		Multiplier: decimal.RequireFromString("1.1"),
	})
	assert.ErrorIs(t, err, ruledomain.ErrInvalidRuleType)
}

func TestListFiltersByType(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "promo",
		Multiplier: decimal.RequireFromString("0.9"),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeSeasonal,
		Name:       "high season",
		Multiplier: decimal.RequireFromString("1.5"),
		StartDate:  dateptr(2026, time.December, 1),
		EndDate:    dateptr(2027, time.January, 15),
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, ruledomain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	discounts, err := svc.List(ctx, ruledomain.ListRequest{RuleType: "discount"})
	require.NoError(t, err)
	require.Len(t, discounts, 1)
	assert.Equal(t, "promo", discounts[0].Name)

	_, err = svc.List(ctx, ruledomain.ListRequest{RuleType: "bogus"})
	assert.ErrorIs(t, err, ruledomain.ErrInvalidRuleType)
}

func TestUpdateOnlyTouchesLifecycleFields(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "promo",
		Multiplier: decimal.RequireFromString("0.9"),
	})
	require.NoError(t, err)

	inactive := false
	priority := int32(5)
	name := "promo (retired)"
	updated, err := svc.Update(ctx, ruledomain.UpdateRequest{
		ID:       created.ID,
		Name:     &name,
		Priority: &priority,
		Active:   &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "promo (retired)", updated.Name)
	assert.Equal(t, int32(5), updated.Priority)
	assert.False(t, updated.Active)
	assert.True(t, updated.Multiplier.Equal(created.Multiplier))
}

func TestDeleteAndNotFound(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "promo",
		Multiplier: decimal.RequireFromString("0.9"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ruledomain.ErrNotFound)

	_, err = svc.GetByID(ctx, "garbage")
	assert.ErrorIs(t, err, ruledomain.ErrInvalidID)
}

func TestCreateInactiveRuleStaysInactive(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	inactive := false
	created, err := svc.Create(ctx, ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "draft promo",
		Multiplier: decimal.RequireFromString("0.5"),
		Active:     &inactive,
	})
	require.NoError(t, err)
	assert.False(t, created.Active)

	fetched, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Active)

	var stored ruledomain.PricingRule
	require.NoError(t, db.First(&stored, "name = ?", "draft promo").Error)
	assert.False(t, stored.Active)
}
