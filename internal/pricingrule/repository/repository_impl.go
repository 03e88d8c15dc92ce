package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() ruledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rule *ruledomain.PricingRule) error {
	return db.WithContext(ctx).Create(rule).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rule *ruledomain.PricingRule) error {
	return db.WithContext(ctx).Save(rule).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&ruledomain.PricingRule{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ruledomain.PricingRule, error) {
	var rule ruledomain.PricingRule
	err := db.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ruleType *ruledomain.RuleType) ([]ruledomain.PricingRule, error) {
	query := db.WithContext(ctx)
	if ruleType != nil {
		query = query.Where("rule_type = ?", *ruleType)
	}

	var items []ruledomain.PricingRule
	err := query.Order("rule_type ASC, priority ASC, id ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, ruleType ruledomain.RuleType) ([]ruledomain.PricingRule, error) {
	var items []ruledomain.PricingRule
	err := db.WithContext(ctx).
		Where("rule_type = ? AND active = ?", ruleType, true).
		Order("priority ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
