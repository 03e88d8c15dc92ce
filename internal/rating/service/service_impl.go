package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siamtransfer/fareengine/internal/clock"
	"github.com/siamtransfer/fareengine/internal/config"
	"github.com/siamtransfer/fareengine/internal/observability/metrics"
	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
	ratingdomain "github.com/siamtransfer/fareengine/internal/rating/domain"
	ratedomain "github.com/siamtransfer/fareengine/internal/servicerate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Fare    *config.FareConfigHolder
	Rates   ratedomain.Repository
	Rules   ruledomain.Repository
	Metrics *metrics.QuoteMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	fare    *config.FareConfigHolder
	rates   ratedomain.Repository
	rules   ruledomain.Repository
	metrics *metrics.QuoteMetrics
}

func NewService(p ServiceParam) ratingdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("rating.service"),
		clock:   p.Clock,
		fare:    p.Fare,
		rates:   p.Rates,
		rules:   p.Rules,
		metrics: p.Metrics,
	}
}

// snapshot is one consistent read of the catalog and rule store. All
// rows are loaded inside a single transaction so a calculation never
// mixes a half-applied admin update.
type snapshot struct {
	rate     ratedomain.ServiceRate
	peak     []ruledomain.PricingRule
	seasonal []ruledomain.PricingRule
	discount []ruledomain.PricingRule
}

func (s *Service) Calculate(ctx context.Context, input ratingdomain.CalculationInput) (*ratingdomain.Result, error) {
	vehicleType := ratedomain.NormalizeVehicleType(input.VehicleType)
	if vehicleType == "" {
		s.recordOutcome(vehicleType, "invalid_input")
		return nil, ratedomain.ErrInvalidVehicleType
	}
	if input.DistanceKm.IsNegative() {
		s.recordOutcome(vehicleType, "invalid_input")
		return nil, ratingdomain.ErrInvalidDistance
	}

	fare := s.fare.Get()

	snap, err := s.loadSnapshot(ctx, vehicleType, fare)
	if err != nil {
		s.recordOutcome(vehicleType, outcomeForError(err))
		return nil, err
	}

	result := compose(input, vehicleType, snap, fare)
	result.CalculatedAt = s.clock.Now()

	s.recordOutcome(vehicleType, "success")
	return result, nil
}

func (s *Service) loadSnapshot(ctx context.Context, vehicleType string, fare config.FareConfig) (*snapshot, error) {
	if fare.StoreTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(fare.StoreTimeoutSeconds)*time.Second)
		defer cancel()
	}

	var snap snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matches, err := s.rates.FindActiveByVehicleType(ctx, tx, vehicleType)
		if err != nil {
			return err
		}
		switch len(matches) {
		case 0:
			return ratedomain.ErrNotFound
		case 1:
			snap.rate = matches[0]
		default:
			s.log.Error("ambiguous service rate configuration",
				zap.String("vehicle_type", vehicleType),
				zap.Int("active_rows", len(matches)),
			)
			return ratedomain.ErrAmbiguousRate
		}

		if snap.peak, err = s.rules.ListActive(ctx, tx, ruledomain.RuleTypePeakHour); err != nil {
			return err
		}
		if snap.seasonal, err = s.rules.ListActive(ctx, tx, ruledomain.RuleTypeSeasonal); err != nil {
			return err
		}
		if snap.discount, err = s.rules.ListActive(ctx, tx, ruledomain.RuleTypeDiscount); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ratedomain.ErrNotFound) || errors.Is(err, ratedomain.ErrAmbiguousRate) {
			return nil, err
		}
		s.log.Warn("pricing store read failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ratingdomain.ErrStoreUnavailable, err)
	}
	return &snap, nil
}

// compose is the pure part of the calculation. Step order is fixed:
// distance charge, peak and seasonal multipliers into the subtotal,
// discount, then the return-trip reduction, then a single round.
func compose(input ratingdomain.CalculationInput, vehicleType string, snap *snapshot, fare config.FareConfig) *ratingdomain.Result {
	applied := make([]string, 0, 6)
	applied = append(applied, fmt.Sprintf("ServiceRate: %s", vehicleType))

	distanceCharge := decimal.Zero
	billable := input.DistanceKm.Sub(decimal.NewFromFloat(snap.rate.MinDistance))
	if billable.IsPositive() {
		distanceCharge = billable.Mul(snap.rate.DistanceRate)
		applied = append(applied, fmt.Sprintf("Distance: %skm", input.DistanceKm.String()))
	}

	peakMul, peakRule := matchPeakHour(snap.peak, input.PickupAt)
	if peakRule != nil {
		applied = append(applied, fmt.Sprintf("PeakHour: %s%%", peakMul.Mul(hundred).String()))
	}

	seasonalMul, seasonalRule := matchSeasonal(snap.seasonal, input.PickupAt)
	if seasonalRule != nil {
		applied = append(applied, fmt.Sprintf("Seasonal: %s%%", seasonalMul.Mul(hundred).String()))
	}

	discountMul, discountRule := matchDiscount(snap.discount)
	if discountRule != nil {
		applied = append(applied, fmt.Sprintf("Discount: %s%%", discountMul.Mul(hundred).String()))
	}

	subtotal := snap.rate.BasePrice.Add(distanceCharge).Mul(peakMul).Mul(seasonalMul)
	finalPrice := subtotal.Mul(discountMul)

	if input.ReturnTrip {
		returnMul := fare.ReturnTrip()
		finalPrice = finalPrice.Mul(returnMul)
		applied = append(applied, fmt.Sprintf("ReturnTrip: %s%%", returnMul.Sub(identity).Mul(hundred).String()))
	}

	return &ratingdomain.Result{
		VehicleType:        vehicleType,
		Currency:           fare.Currency,
		BasePrice:          snap.rate.BasePrice,
		DistanceCharge:     distanceCharge,
		PeakHourMultiplier: peakMul,
		SeasonalMultiplier: seasonalMul,
		DiscountMultiplier: discountMul,
		Subtotal:           subtotal,
		FinalPrice:         finalPrice.RoundBank(fare.RoundPlaces),
		AppliedRules:       applied,
	}
}

var hundred = decimal.NewFromInt(100)

func outcomeForError(err error) string {
	switch {
	case errors.Is(err, ratedomain.ErrNotFound):
		return "not_found"
	case errors.Is(err, ratedomain.ErrAmbiguousRate):
		return "ambiguous_rate"
	case errors.Is(err, ratingdomain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}

func (s *Service) recordOutcome(vehicleType, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordQuote(vehicleType, outcome)
	}
}
