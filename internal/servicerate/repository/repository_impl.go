package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ratedomain "github.com/siamtransfer/fareengine/internal/servicerate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() ratedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rate *ratedomain.ServiceRate) error {
	return db.WithContext(ctx).Create(rate).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rate *ratedomain.ServiceRate) error {
	return db.WithContext(ctx).Save(rate).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&ratedomain.ServiceRate{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ratedomain.ServiceRate, error) {
	var rate ratedomain.ServiceRate
	err := db.WithContext(ctx).Where("id = ?", id).First(&rate).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]ratedomain.ServiceRate, error) {
	var items []ratedomain.ServiceRate
	err := db.WithContext(ctx).
		Order("vehicle_type ASC, created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindActiveByVehicleType(ctx context.Context, db *gorm.DB, vehicleType string) ([]ratedomain.ServiceRate, error) {
	var items []ratedomain.ServiceRate
	err := db.WithContext(ctx).
		Where("vehicle_type = ? AND active = ?", ratedomain.NormalizeVehicleType(vehicleType), true).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
