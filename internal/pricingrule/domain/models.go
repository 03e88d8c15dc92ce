// Package domain contains conditional pricing rule definitions.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type RuleType string

const (
	RuleTypePeakHour RuleType = "PEAK_HOUR"
	RuleTypeSeasonal RuleType = "SEASONAL"
	RuleTypeDiscount RuleType = "DISCOUNT"
)

func (t RuleType) Valid() bool {
	switch t {
	case RuleTypePeakHour, RuleTypeSeasonal, RuleTypeDiscount:
		return true
	}
	return false
}

// PricingRule is a conditional multiplier with a type-specific activity
// window. Peak-hour rules carry a weekday set and a time-of-day window,
// seasonal rules carry an inclusive date range, discount rules carry no
// window at all.
type PricingRule struct {
	ID         snowflake.ID                `json:"id" gorm:"primaryKey"`
	RuleType   RuleType                    `json:"rule_type" gorm:"type:text;not null;index"`
	Name       string                      `json:"name" gorm:"type:text;not null"`
	Multiplier decimal.Decimal             `json:"multiplier" gorm:"type:numeric;not null"`
	Priority   int32                       `json:"priority" gorm:"not null;default:0"`
	DaysOfWeek datatypes.JSONSlice[string] `json:"days_of_week,omitempty"`
	StartTime  *string                     `json:"start_time,omitempty" gorm:"type:text"`
	EndTime    *string                     `json:"end_time,omitempty" gorm:"type:text"`
	StartDate  *time.Time                  `json:"start_date,omitempty"`
	EndDate    *time.Time                  `json:"end_date,omitempty"`
	Active     bool                        `json:"active" gorm:"not null"`
	CreatedAt  time.Time                   `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time                   `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PricingRule) TableName() string { return "pricing_rules" }

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ParseWeekday maps an uppercase day name such as "MONDAY" to time.Weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	day, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(name))]
	return day, ok
}

// MatchesDay reports whether the rule's weekday set covers the given
// day. An empty set matches every day.
func (r *PricingRule) MatchesDay(day time.Weekday) bool {
	if len(r.DaysOfWeek) == 0 {
		return true
	}
	for _, name := range r.DaysOfWeek {
		if parsed, ok := ParseWeekday(name); ok && parsed == day {
			return true
		}
	}
	return false
}

// ParseTimeOfDay parses a "HH:MM" string into hour and minute.
func ParseTimeOfDay(value string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid time of day %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time of day %q", value)
	}
	return hour, minute, nil
}

// HourWindow returns the [startHour, endHour) window of a peak-hour
// rule. ok is false when either bound is missing or malformed.
func (r *PricingRule) HourWindow() (startHour, endHour int, ok bool) {
	if r.StartTime == nil || r.EndTime == nil {
		return 0, 0, false
	}
	startHour, _, err := ParseTimeOfDay(*r.StartTime)
	if err != nil {
		return 0, 0, false
	}
	endHour, _, err = ParseTimeOfDay(*r.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return startHour, endHour, true
}

// CoversDate reports whether a seasonal rule's inclusive date range
// contains the given date. Comparison is on calendar days in UTC.
func (r *PricingRule) CoversDate(at time.Time) bool {
	if r.StartDate == nil || r.EndDate == nil {
		return false
	}
	day := truncateToDay(at)
	return !day.Before(truncateToDay(*r.StartDate)) && !day.After(truncateToDay(*r.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
