package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/siamtransfer/fareengine/internal/clock"
	historydomain "github.com/siamtransfer/fareengine/internal/ratehistory/domain"
	"github.com/siamtransfer/fareengine/pkg/db"
	"github.com/siamtransfer/fareengine/pkg/db/option"
	"github.com/siamtransfer/fareengine/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	store repository.Repository[historydomain.RateHistory]
}

func New(p Params) historydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ratehistory.service"),
		genID: p.GenID,
		clock: p.Clock,
		store: repository.ProvideStore[historydomain.RateHistory](p.DB),
	}
}

func (s *Service) Record(ctx context.Context, req historydomain.RecordRequest) (*historydomain.Response, error) {
	bookingID := strings.TrimSpace(req.BookingID)
	if bookingID == "" {
		return nil, historydomain.ErrInvalidBookingID
	}
	vehicleType := strings.ToUpper(strings.TrimSpace(req.VehicleType))
	if vehicleType == "" {
		return nil, historydomain.ErrInvalidRecord
	}
	if req.BasePrice.IsNegative() || req.DistanceCharge.IsNegative() || req.FinalPrice.IsNegative() {
		return nil, historydomain.ErrInvalidRecord
	}

	record := &historydomain.RateHistory{
		ID:             s.genID.Generate(),
		BookingID:      bookingID,
		VehicleType:    vehicleType,
		BasePrice:      req.BasePrice,
		DistanceCharge: req.DistanceCharge,
		AppliedRules:   datatypes.JSONSlice[string](req.AppliedRules),
		FinalPrice:     req.FinalPrice,
		Currency:       strings.ToUpper(strings.TrimSpace(req.Currency)),
		CreatedAt:      s.clock.Now(),
	}

	// The existence check and the insert run in one transaction; the
	// unique index on booking_id backstops concurrent writers.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := s.store.WithTrx(tx)

		existing, err := store.FindOne(ctx, &historydomain.RateHistory{BookingID: bookingID})
		if err != nil {
			return err
		}
		if existing != nil {
			return historydomain.ErrAlreadyRecorded
		}
		return store.Create(ctx, record)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, historydomain.ErrAlreadyRecorded
		}
		return nil, err
	}

	s.log.Info("rate history recorded",
		zap.String("booking_id", bookingID),
		zap.String("vehicle_type", vehicleType),
		zap.String("final_price", record.FinalPrice.String()),
	)
	return toResponse(record), nil
}

func (s *Service) GetByBookingID(ctx context.Context, bookingID string) (*historydomain.Response, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, historydomain.ErrInvalidBookingID
	}

	record, err := s.store.FindOne(ctx, &historydomain.RateHistory{BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, historydomain.ErrNotFound
	}
	return toResponse(record), nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]historydomain.Response, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	records, err := s.store.Find(ctx, &historydomain.RateHistory{},
		option.WithOrderBy("created_at DESC, id DESC"),
		option.WithLimit(limit),
	)
	if err != nil {
		return nil, err
	}

	out := make([]historydomain.Response, 0, len(records))
	for _, record := range records {
		out = append(out, *toResponse(record))
	}
	return out, nil
}

func toResponse(record *historydomain.RateHistory) *historydomain.Response {
	return &historydomain.Response{
		ID:             record.ID.String(),
		BookingID:      record.BookingID,
		VehicleType:    record.VehicleType,
		BasePrice:      record.BasePrice,
		DistanceCharge: record.DistanceCharge,
		AppliedRules:   []string(record.AppliedRules),
		FinalPrice:     record.FinalPrice,
		Currency:       record.Currency,
		CreatedAt:      record.CreatedAt,
	}
}
