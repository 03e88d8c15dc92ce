package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// Lookup resolves the single active ServiceRate for a vehicle type.
	// Zero active rows yields ErrNotFound; more than one yields
	// ErrAmbiguousRate, never a silent pick.
	Lookup(ctx context.Context, vehicleType string) (*ServiceRate, error)
}

type CreateRequest struct {
	VehicleType  string          `json:"vehicle_type"`
	BasePrice    decimal.Decimal `json:"base_price"`
	DistanceRate decimal.Decimal `json:"distance_rate"`
	MinDistance  float64         `json:"min_distance"`
	MaxDistance  *float64        `json:"max_distance,omitempty"`
	Active       *bool           `json:"active,omitempty"`
}

type UpdateRequest struct {
	ID           string           `json:"id"`
	BasePrice    *decimal.Decimal `json:"base_price,omitempty"`
	DistanceRate *decimal.Decimal `json:"distance_rate,omitempty"`
	MinDistance  *float64         `json:"min_distance,omitempty"`
	MaxDistance  *float64         `json:"max_distance,omitempty"`
	Active       *bool            `json:"active,omitempty"`
}

type Response struct {
	ID           string          `json:"id"`
	VehicleType  string          `json:"vehicle_type"`
	BasePrice    decimal.Decimal `json:"base_price"`
	DistanceRate decimal.Decimal `json:"distance_rate"`
	MinDistance  float64         `json:"min_distance"`
	MaxDistance  *float64        `json:"max_distance,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

var (
	ErrInvalidVehicleType   = errors.New("invalid_vehicle_type")
	ErrInvalidBasePrice     = errors.New("invalid_base_price")
	ErrInvalidDistanceRate  = errors.New("invalid_distance_rate")
	ErrInvalidMinDistance   = errors.New("invalid_min_distance")
	ErrInvalidMaxDistance   = errors.New("invalid_max_distance")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("service_rate_not_found")
	ErrDuplicateVehicleType = errors.New("duplicate_vehicle_type")
	// ErrAmbiguousRate signals more than one active rate for a vehicle
	// type, which is a configuration error and aborts any calculation.
	ErrAmbiguousRate = errors.New("ambiguous_service_rate")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
