package service

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func peakRule(node *snowflake.Node, multiplier string, priority int32, days []string, start, end string) ruledomain.PricingRule {
	return ruledomain.PricingRule{
		ID:         node.Generate(),
		RuleType:   ruledomain.RuleTypePeakHour,
		Name:       "peak",
		Multiplier: decimal.RequireFromString(multiplier),
		Priority:   priority,
		DaysOfWeek: days,
		StartTime:  &start,
		EndTime:    &end,
		Active:     true,
	}
}

func seasonalRule(node *snowflake.Node, multiplier string, start, end time.Time) ruledomain.PricingRule {
	return ruledomain.PricingRule{
		ID:         node.Generate(),
		RuleType:   ruledomain.RuleTypeSeasonal,
		Name:       "season",
		Multiplier: decimal.RequireFromString(multiplier),
		StartDate:  &start,
		EndDate:    &end,
		Active:     true,
	}
}

func TestMatchPeakHourFirstMatchWins(t *testing.T) {
	node := mustNode(t)
	rules := []ruledomain.PricingRule{
		peakRule(node, "1.3", 2, nil, "07:00", "10:00"),
		peakRule(node, "1.2", 1, nil, "07:00", "09:00"),
	}

	// Monday 08:15. Both windows cover it; the priority-1 rule wins.
	pickup := time.Date(2026, time.September, 7, 8, 15, 0, 0, time.UTC)
	mul, rule := matchPeakHour(rules, pickup)
	require.NotNil(t, rule)
	assert.True(t, mul.Equal(decimal.RequireFromString("1.2")))
}

func TestMatchPeakHourWindowIsHalfOpen(t *testing.T) {
	node := mustNode(t)
	rules := []ruledomain.PricingRule{
		peakRule(node, "1.2", 0, nil, "07:00", "09:00"),
	}

	at := func(hour int) time.Time {
		return time.Date(2026, time.September, 7, hour, 0, 0, 0, time.UTC)
	}

	mul, rule := matchPeakHour(rules, at(7))
	assert.NotNil(t, rule)
	assert.True(t, mul.Equal(decimal.RequireFromString("1.2")))

	mul, rule = matchPeakHour(rules, at(9))
	assert.Nil(t, rule)
	assert.True(t, mul.Equal(decimal.NewFromInt(1)))
}

func TestMatchPeakHourWeekdaySet(t *testing.T) {
	node := mustNode(t)
	rules := []ruledomain.PricingRule{
		peakRule(node, "1.2", 0, []string{"MONDAY", "FRIDAY"}, "07:00", "09:00"),
	}

	monday := time.Date(2026, time.September, 7, 8, 0, 0, 0, time.UTC)
	_, rule := matchPeakHour(rules, monday)
	assert.NotNil(t, rule)

	tuesday := monday.AddDate(0, 0, 1)
	mul, rule := matchPeakHour(rules, tuesday)
	assert.Nil(t, rule)
	assert.True(t, mul.Equal(decimal.NewFromInt(1)))
}

func TestMatchPeakHourTieBreaksByID(t *testing.T) {
	node := mustNode(t)
	first := peakRule(node, "1.1", 0, nil, "07:00", "09:00")
	second := peakRule(node, "1.4", 0, nil, "07:00", "09:00")

	pickup := time.Date(2026, time.September, 7, 8, 0, 0, 0, time.UTC)

	// Same priority; the lower id wins regardless of slice order.
	mul, _ := matchPeakHour([]ruledomain.PricingRule{second, first}, pickup)
	assert.True(t, mul.Equal(first.Multiplier))
}

func TestMatchSeasonalTakesMaximumNotProduct(t *testing.T) {
	node := mustNode(t)
	start := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC)
	rules := []ruledomain.PricingRule{
		seasonalRule(node, "1.2", start, end),
		seasonalRule(node, "1.5", start, end),
	}

	pickup := time.Date(2026, time.December, 25, 12, 0, 0, 0, time.UTC)
	mul, rule := matchSeasonal(rules, pickup)
	require.NotNil(t, rule)
	assert.True(t, mul.Equal(decimal.RequireFromString("1.5")), "overlapping seasons must not compound")
}

func TestMatchSeasonalInclusiveBounds(t *testing.T) {
	node := mustNode(t)
	start := time.Date(2026, time.April, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.April, 16, 0, 0, 0, 0, time.UTC)
	rules := []ruledomain.PricingRule{seasonalRule(node, "1.5", start, end)}

	_, rule := matchSeasonal(rules, time.Date(2026, time.April, 12, 6, 0, 0, 0, time.UTC))
	assert.NotNil(t, rule)

	_, rule = matchSeasonal(rules, time.Date(2026, time.April, 16, 23, 59, 0, 0, time.UTC))
	assert.NotNil(t, rule)

	mul, rule := matchSeasonal(rules, time.Date(2026, time.April, 17, 0, 0, 0, 0, time.UTC))
	assert.Nil(t, rule)
	assert.True(t, mul.Equal(decimal.NewFromInt(1)))
}

func TestMatchDiscountFirstActive(t *testing.T) {
	node := mustNode(t)
	first := ruledomain.PricingRule{
		ID:         node.Generate(),
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "early bird",
		Multiplier: decimal.RequireFromString("0.9"),
		Priority:   1,
		Active:     true,
	}
	second := ruledomain.PricingRule{
		ID:         node.Generate(),
		RuleType:   ruledomain.RuleTypeDiscount,
		Name:       "flash sale",
		Multiplier: decimal.RequireFromString("0.8"),
		Priority:   2,
		Active:     true,
	}

	mul, rule := matchDiscount([]ruledomain.PricingRule{second, first})
	require.NotNil(t, rule)
	assert.Equal(t, "early bird", rule.Name)
	assert.True(t, mul.Equal(decimal.RequireFromString("0.9")))

	mul, rule = matchDiscount(nil)
	assert.Nil(t, rule)
	assert.True(t, mul.Equal(decimal.NewFromInt(1)))
}
