package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/siamtransfer/fareengine/internal/clock"
	historydomain "github.com/siamtransfer/fareengine/internal/ratehistory/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupRecorder(t *testing.T) (historydomain.Service, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&historydomain.RateHistory{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, time.September, 7, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
	})
	return svc, fake
}

func sampleRequest() historydomain.RecordRequest {
	return historydomain.RecordRequest{
		BookingID:      "bk-1001",
		VehicleType:    "suv",
		BasePrice:      decimal.NewFromInt(350),
		DistanceCharge: decimal.NewFromInt(175),
		AppliedRules:   []string{"ServiceRate: SUV", "Distance: 10km"},
		FinalPrice:     decimal.NewFromInt(525),
		Currency:       "thb",
	}
}

func TestRecordOncePerBooking(t *testing.T) {
	svc, fake := setupRecorder(t)
	ctx := context.Background()

	resp, err := svc.Record(ctx, sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "SUV", resp.VehicleType)
	assert.Equal(t, "THB", resp.Currency)
	assert.Equal(t, fake.Now(), resp.CreatedAt)

	_, err = svc.Record(ctx, sampleRequest())
	assert.ErrorIs(t, err, historydomain.ErrAlreadyRecorded)
}

func TestRecordValidation(t *testing.T) {
	svc, _ := setupRecorder(t)
	ctx := context.Background()

	req := sampleRequest()
	req.BookingID = "  "
	_, err := svc.Record(ctx, req)
	assert.ErrorIs(t, err, historydomain.ErrInvalidBookingID)

	req = sampleRequest()
	req.VehicleType = ""
	_, err = svc.Record(ctx, req)
	assert.ErrorIs(t, err, historydomain.ErrInvalidRecord)

	req = sampleRequest()
	req.FinalPrice = decimal.NewFromInt(-1)
	_, err = svc.Record(ctx, req)
	assert.ErrorIs(t, err, historydomain.ErrInvalidRecord)
}

func TestGetByBookingID(t *testing.T) {
	svc, _ := setupRecorder(t)
	ctx := context.Background()

	created, err := svc.Record(ctx, sampleRequest())
	require.NoError(t, err)

	found, err := svc.GetByBookingID(ctx, "bk-1001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.AppliedRules, found.AppliedRules)
	assert.True(t, found.FinalPrice.Equal(decimal.NewFromInt(525)))

	_, err = svc.GetByBookingID(ctx, "bk-missing")
	assert.ErrorIs(t, err, historydomain.ErrNotFound)

	_, err = svc.GetByBookingID(ctx, "")
	assert.ErrorIs(t, err, historydomain.ErrInvalidBookingID)
}

func TestListRecentNewestFirst(t *testing.T) {
	svc, fake := setupRecorder(t)
	ctx := context.Background()

	first := sampleRequest()
	first.BookingID = "bk-2001"
	_, err := svc.Record(ctx, first)
	require.NoError(t, err)

	fake.Advance(time.Minute)

	second := sampleRequest()
	second.BookingID = "bk-2002"
	recorded, err := svc.Record(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, fake.Now(), recorded.CreatedAt)

	listed, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "bk-2002", listed[0].BookingID)
	assert.Equal(t, "bk-2001", listed[1].BookingID)
	assert.True(t, listed[0].CreatedAt.After(listed[1].CreatedAt))

	capped, err := svc.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, capped, 1)
	assert.Equal(t, "bk-2002", capped[0].BookingID)
}
