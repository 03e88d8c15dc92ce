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
	List(ctx context.Context, req ListRequest) ([]Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	RuleType   RuleType        `json:"rule_type"`
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Priority   int32           `json:"priority"`
	DaysOfWeek []string        `json:"days_of_week,omitempty"`
	StartTime  *string         `json:"start_time,omitempty"`
	EndTime    *string         `json:"end_time,omitempty"`
	StartDate  *time.Time      `json:"start_date,omitempty"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	Active     *bool           `json:"active,omitempty"`
}

type ListRequest struct {
	RuleType string `form:"rule_type"`
}

// UpdateRequest deliberately excludes the multiplier and window fields.
// Rules referenced by recorded history must keep the values they were
// applied with; operators toggle lifecycle via name, priority and
// active instead of editing a rule in place.
type UpdateRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	Priority *int32  `json:"priority,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

type Response struct {
	ID         string          `json:"id"`
	RuleType   RuleType        `json:"rule_type"`
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Priority   int32           `json:"priority"`
	DaysOfWeek []string        `json:"days_of_week,omitempty"`
	StartTime  *string         `json:"start_time,omitempty"`
	EndTime    *string         `json:"end_time,omitempty"`
	StartDate  *time.Time      `json:"start_date,omitempty"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

var (
	ErrInvalidRuleType   = errors.New("invalid_rule_type")
	ErrInvalidName       = errors.New("invalid_rule_name")
	ErrInvalidMultiplier = errors.New("invalid_multiplier")
	ErrInvalidTimeWindow = errors.New("invalid_time_window")
	ErrInvalidDateRange  = errors.New("invalid_date_range")
	ErrInvalidDayOfWeek  = errors.New("invalid_day_of_week")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("pricing_rule_not_found")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
