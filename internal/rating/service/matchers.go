package service

import (
	"sort"
	"time"

	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
	"github.com/shopspring/decimal"
)

var identity = decimal.NewFromInt(1)

// sortRules puts rules into evaluation order: priority ascending, id
// ascending. The repository already returns this order; matchers sort
// again so their behavior does not depend on where the slice came from.
func sortRules(rules []ruledomain.PricingRule) []ruledomain.PricingRule {
	sorted := make([]ruledomain.PricingRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// matchPeakHour returns the multiplier of the first rule whose weekday
// set covers pickup's day and whose [startHour, endHour) window covers
// pickup's hour. No match yields the identity multiplier.
func matchPeakHour(rules []ruledomain.PricingRule, pickup time.Time) (decimal.Decimal, *ruledomain.PricingRule) {
	hour := pickup.Hour()
	day := pickup.Weekday()
	for _, rule := range sortRules(rules) {
		if !rule.MatchesDay(day) {
			continue
		}
		startHour, endHour, ok := rule.HourWindow()
		if !ok {
			continue
		}
		if hour >= startHour && hour < endHour {
			matched := rule
			return rule.Multiplier, &matched
		}
	}
	return identity, nil
}

// matchSeasonal returns the maximum multiplier among rules whose
// inclusive date range covers pickup. Overlapping seasons pick the
// strongest one instead of compounding.
func matchSeasonal(rules []ruledomain.PricingRule, pickup time.Time) (decimal.Decimal, *ruledomain.PricingRule) {
	best := identity
	var bestRule *ruledomain.PricingRule
	for _, rule := range sortRules(rules) {
		if !rule.CoversDate(pickup) {
			continue
		}
		if bestRule == nil || rule.Multiplier.GreaterThan(best) {
			matched := rule
			best = rule.Multiplier
			bestRule = &matched
		}
	}
	return best, bestRule
}

// matchDiscount returns the first active discount's multiplier. There
// is no eligibility predicate on discounts yet; the first rule in
// evaluation order always applies.
func matchDiscount(rules []ruledomain.PricingRule) (decimal.Decimal, *ruledomain.PricingRule) {
	sorted := sortRules(rules)
	if len(sorted) == 0 {
		return identity, nil
	}
	matched := sorted[0]
	return matched.Multiplier, &matched
}
