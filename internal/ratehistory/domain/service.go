package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	// Record persists one audit row per booking. A second call for the
	// same booking fails with ErrAlreadyRecorded.
	Record(ctx context.Context, req RecordRequest) (*Response, error)
	GetByBookingID(ctx context.Context, bookingID string) (*Response, error)
	// ListRecent returns the newest records first, capped at limit.
	ListRecent(ctx context.Context, limit int) ([]Response, error)
}

type RecordRequest struct {
	BookingID      string          `json:"booking_id"`
	VehicleType    string          `json:"vehicle_type"`
	BasePrice      decimal.Decimal `json:"base_price"`
	DistanceCharge decimal.Decimal `json:"distance_charge"`
	AppliedRules   []string        `json:"applied_rules"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	Currency       string          `json:"currency"`
}

type Response struct {
	ID             string          `json:"id"`
	BookingID      string          `json:"booking_id"`
	VehicleType    string          `json:"vehicle_type"`
	BasePrice      decimal.Decimal `json:"base_price"`
	DistanceCharge decimal.Decimal `json:"distance_charge"`
	AppliedRules   []string        `json:"applied_rules"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	Currency       string          `json:"currency"`
	CreatedAt      time.Time       `json:"created_at"`
}

var (
	ErrInvalidBookingID = errors.New("invalid_booking_id")
	ErrInvalidRecord    = errors.New("invalid_rate_history_record")
	ErrAlreadyRecorded  = errors.New("rate_history_exists")
	ErrNotFound         = errors.New("rate_history_not_found")
)
