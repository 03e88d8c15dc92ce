// Package domain contains the fare calculation contract.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationInput is what the booking flow supplies for one quote.
type CalculationInput struct {
	VehicleType string          `json:"vehicle_type"`
	DistanceKm  decimal.Decimal `json:"distance_km"`
	PickupAt    time.Time       `json:"pickup_at"`
	ReturnTrip  bool            `json:"return_trip"`
}

// Result is the full price breakdown for one quote. FinalPrice is the
// only rounded figure; intermediate values are kept exact so repeated
// multiplications never accumulate drift.
type Result struct {
	VehicleType        string          `json:"vehicle_type"`
	Currency           string          `json:"currency"`
	BasePrice          decimal.Decimal `json:"base_price"`
	DistanceCharge     decimal.Decimal `json:"distance_charge"`
	PeakHourMultiplier decimal.Decimal `json:"peak_hour_multiplier"`
	SeasonalMultiplier decimal.Decimal `json:"seasonal_multiplier"`
	DiscountMultiplier decimal.Decimal `json:"discount_multiplier"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	FinalPrice         decimal.Decimal `json:"final_price"`
	AppliedRules       []string        `json:"applied_rules"`
	CalculatedAt       time.Time       `json:"calculated_at"`
}
