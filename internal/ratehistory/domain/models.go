// Package domain contains the append-only fare audit trail.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RateHistory is the write-once snapshot of a computed fare, persisted
// when a quote is accepted. Rows are never updated or deleted.
type RateHistory struct {
	ID             snowflake.ID                `json:"id" gorm:"primaryKey"`
	BookingID      string                      `json:"booking_id" gorm:"type:text;not null;uniqueIndex"`
	VehicleType    string                      `json:"vehicle_type" gorm:"type:text;not null"`
	BasePrice      decimal.Decimal             `json:"base_price" gorm:"type:numeric;not null"`
	DistanceCharge decimal.Decimal             `json:"distance_charge" gorm:"type:numeric;not null"`
	AppliedRules   datatypes.JSONSlice[string] `json:"applied_rules"`
	FinalPrice     decimal.Decimal             `json:"final_price" gorm:"type:numeric;not null"`
	Currency       string                      `json:"currency" gorm:"type:text;not null"`
	CreatedAt      time.Time                   `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (RateHistory) TableName() string { return "rate_history" }
