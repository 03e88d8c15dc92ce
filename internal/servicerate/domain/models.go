// Package domain contains the per-vehicle-type pricing definition.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ServiceRate defines base and per-km pricing for one vehicle type.
// At most one active row may exist per vehicle type; the partial unique
// index on (vehicle_type) WHERE active enforces this at the store level.
type ServiceRate struct {
	ID           snowflake.ID    `json:"id" gorm:"primaryKey"`
	VehicleType  string          `json:"vehicle_type" gorm:"type:text;not null;index"`
	BasePrice    decimal.Decimal `json:"base_price" gorm:"type:numeric;not null"`
	DistanceRate decimal.Decimal `json:"distance_rate" gorm:"type:numeric;not null"`
	MinDistance  float64         `json:"min_distance" gorm:"type:numeric;not null;default:0"`
	MaxDistance  *float64        `json:"max_distance,omitempty" gorm:"type:numeric"`
	Active       bool            `json:"active" gorm:"not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ServiceRate) TableName() string { return "service_rates" }

// NormalizeVehicleType canonicalizes a vehicle type for lookup and storage.
func NormalizeVehicleType(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
