package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ratedomain "github.com/siamtransfer/fareengine/internal/servicerate/domain"
	"github.com/siamtransfer/fareengine/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  ratedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  ratedomain.Repository
}

func New(p Params) ratedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("servicerate.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req ratedomain.CreateRequest) (*ratedomain.Response, error) {
	vehicleType := ratedomain.NormalizeVehicleType(req.VehicleType)
	if vehicleType == "" {
		return nil, ratedomain.ErrInvalidVehicleType
	}
	if req.BasePrice.IsNegative() {
		return nil, ratedomain.ErrInvalidBasePrice
	}
	if req.DistanceRate.IsNegative() {
		return nil, ratedomain.ErrInvalidDistanceRate
	}
	if req.MinDistance < 0 {
		return nil, ratedomain.ErrInvalidMinDistance
	}
	if req.MaxDistance != nil && *req.MaxDistance < req.MinDistance {
		return nil, ratedomain.ErrInvalidMaxDistance
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	if active {
		existing, err := s.repo.FindActiveByVehicleType(ctx, s.db, vehicleType)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, ratedomain.ErrDuplicateVehicleType
		}
	}

	now := time.Now().UTC()
	rate := &ratedomain.ServiceRate{
		ID:           s.genID.Generate(),
		VehicleType:  vehicleType,
		BasePrice:    req.BasePrice,
		DistanceRate: req.DistanceRate,
		MinDistance:  req.MinDistance,
		MaxDistance:  req.MaxDistance,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, rate); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, ratedomain.ErrDuplicateVehicleType
		}
		return nil, err
	}

	return toResponse(rate), nil
}

func (s *Service) List(ctx context.Context) ([]ratedomain.Response, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]ratedomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*ratedomain.Response, error) {
	rateID, err := ratedomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, ratedomain.ErrInvalidID
	}

	rate, err := s.repo.FindByID(ctx, s.db, rateID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, ratedomain.ErrNotFound
	}
	return toResponse(rate), nil
}

func (s *Service) Update(ctx context.Context, req ratedomain.UpdateRequest) (*ratedomain.Response, error) {
	rateID, err := ratedomain.ParseID(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, ratedomain.ErrInvalidID
	}

	rate, err := s.repo.FindByID(ctx, s.db, rateID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, ratedomain.ErrNotFound
	}

	if req.BasePrice != nil {
		if req.BasePrice.IsNegative() {
			return nil, ratedomain.ErrInvalidBasePrice
		}
		rate.BasePrice = *req.BasePrice
	}
	if req.DistanceRate != nil {
		if req.DistanceRate.IsNegative() {
			return nil, ratedomain.ErrInvalidDistanceRate
		}
		rate.DistanceRate = *req.DistanceRate
	}
	if req.MinDistance != nil {
		if *req.MinDistance < 0 {
			return nil, ratedomain.ErrInvalidMinDistance
		}
		rate.MinDistance = *req.MinDistance
	}
	if req.MaxDistance != nil {
		if *req.MaxDistance < rate.MinDistance {
			return nil, ratedomain.ErrInvalidMaxDistance
		}
		rate.MaxDistance = req.MaxDistance
	}

	if req.Active != nil && *req.Active && !rate.Active {
		existing, err := s.repo.FindActiveByVehicleType(ctx, s.db, rate.VehicleType)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, ratedomain.ErrDuplicateVehicleType
		}
	}
	if req.Active != nil {
		rate.Active = *req.Active
	}

	rate.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, rate); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, ratedomain.ErrDuplicateVehicleType
		}
		return nil, err
	}

	return toResponse(rate), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rateID, err := ratedomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return ratedomain.ErrInvalidID
	}

	rate, err := s.repo.FindByID(ctx, s.db, rateID)
	if err != nil {
		return err
	}
	if rate == nil {
		return ratedomain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, rateID)
}

func (s *Service) Lookup(ctx context.Context, vehicleType string) (*ratedomain.ServiceRate, error) {
	normalized := ratedomain.NormalizeVehicleType(vehicleType)
	if normalized == "" {
		return nil, ratedomain.ErrInvalidVehicleType
	}

	matches, err := s.repo.FindActiveByVehicleType(ctx, s.db, normalized)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, ratedomain.ErrNotFound
	case 1:
		return &matches[0], nil
	default:
		s.log.Error("ambiguous service rate configuration",
			zap.String("vehicle_type", normalized),
			zap.Int("active_rows", len(matches)),
		)
		return nil, ratedomain.ErrAmbiguousRate
	}
}

func toResponse(rate *ratedomain.ServiceRate) *ratedomain.Response {
	return &ratedomain.Response{
		ID:           rate.ID.String(),
		VehicleType:  rate.VehicleType,
		BasePrice:    rate.BasePrice,
		DistanceRate: rate.DistanceRate,
		MinDistance:  rate.MinDistance,
		MaxDistance:  rate.MaxDistance,
		Active:       rate.Active,
		CreatedAt:    rate.CreatedAt,
		UpdatedAt:    rate.UpdatedAt,
	}
}
