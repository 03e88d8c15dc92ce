package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rate *ServiceRate) error
	Update(ctx context.Context, db *gorm.DB, rate *ServiceRate) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ServiceRate, error)
	List(ctx context.Context, db *gorm.DB) ([]ServiceRate, error)
	// FindActiveByVehicleType returns every active row for the normalized
	// vehicle type so callers can detect ambiguous configuration.
	FindActiveByVehicleType(ctx context.Context, db *gorm.DB, vehicleType string) ([]ServiceRate, error)
}
