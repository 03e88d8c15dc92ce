package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rule *PricingRule) error
	Update(ctx context.Context, db *gorm.DB, rule *PricingRule) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PricingRule, error)
	List(ctx context.Context, db *gorm.DB, ruleType *RuleType) ([]PricingRule, error)
	// ListActive returns active rules of one type in evaluation order:
	// priority ascending, then id ascending. Matchers rely on this
	// ordering being stable across calls.
	ListActive(ctx context.Context, db *gorm.DB, ruleType RuleType) ([]PricingRule, error)
}
