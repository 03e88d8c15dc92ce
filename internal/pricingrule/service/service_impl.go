package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  ruledomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  ruledomain.Repository
}

func New(p Params) ruledomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("pricingrule.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req ruledomain.CreateRequest) (*ruledomain.Response, error) {
	if !req.RuleType.Valid() {
		return nil, ruledomain.ErrInvalidRuleType
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ruledomain.ErrInvalidName
	}
	if !req.Multiplier.IsPositive() {
		return nil, ruledomain.ErrInvalidMultiplier
	}

	days, err := normalizeDays(req.DaysOfWeek)
	if err != nil {
		return nil, err
	}

	switch req.RuleType {
	case ruledomain.RuleTypePeakHour:
		if req.StartTime == nil || req.EndTime == nil {
			return nil, ruledomain.ErrInvalidTimeWindow
		}
		startHour, _, err := ruledomain.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			return nil, ruledomain.ErrInvalidTimeWindow
		}
		endHour, _, err := ruledomain.ParseTimeOfDay(*req.EndTime)
		if err != nil {
			return nil, ruledomain.ErrInvalidTimeWindow
		}
		if endHour <= startHour {
			return nil, ruledomain.ErrInvalidTimeWindow
		}
		if req.StartDate != nil || req.EndDate != nil {
			return nil, ruledomain.ErrInvalidDateRange
		}
	case ruledomain.RuleTypeSeasonal:
		if req.StartDate == nil || req.EndDate == nil {
			return nil, ruledomain.ErrInvalidDateRange
		}
		if req.EndDate.Before(*req.StartDate) {
			return nil, ruledomain.ErrInvalidDateRange
		}
		if req.StartTime != nil || req.EndTime != nil || len(days) > 0 {
			return nil, ruledomain.ErrInvalidTimeWindow
		}
	case ruledomain.RuleTypeDiscount:
		if req.StartTime != nil || req.EndTime != nil || req.StartDate != nil || req.EndDate != nil || len(days) > 0 {
			return nil, ruledomain.ErrInvalidTimeWindow
		}
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	rule := &ruledomain.PricingRule{
		ID:         s.genID.Generate(),
		RuleType:   req.RuleType,
		Name:       name,
		Multiplier: req.Multiplier,
		Priority:   req.Priority,
		DaysOfWeek: datatypes.JSONSlice[string](days),
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Active:     active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, rule); err != nil {
		return nil, err
	}
	return toResponse(rule), nil
}

func (s *Service) List(ctx context.Context, req ruledomain.ListRequest) ([]ruledomain.Response, error) {
	var filter *ruledomain.RuleType
	if trimmed := strings.TrimSpace(req.RuleType); trimmed != "" {
		ruleType := ruledomain.RuleType(strings.ToUpper(trimmed))
		if !ruleType.Valid() {
			return nil, ruledomain.ErrInvalidRuleType
		}
		filter = &ruleType
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]ruledomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*ruledomain.Response, error) {
	ruleID, err := ruledomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, ruledomain.ErrInvalidID
	}

	rule, err := s.repo.FindByID(ctx, s.db, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruledomain.ErrNotFound
	}
	return toResponse(rule), nil
}

func (s *Service) Update(ctx context.Context, req ruledomain.UpdateRequest) (*ruledomain.Response, error) {
	ruleID, err := ruledomain.ParseID(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, ruledomain.ErrInvalidID
	}

	rule, err := s.repo.FindByID(ctx, s.db, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruledomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ruledomain.ErrInvalidName
		}
		rule.Name = name
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}

	rule.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, rule); err != nil {
		return nil, err
	}
	return toResponse(rule), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ruleID, err := ruledomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return ruledomain.ErrInvalidID
	}

	rule, err := s.repo.FindByID(ctx, s.db, ruleID)
	if err != nil {
		return err
	}
	if rule == nil {
		return ruledomain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, ruleID)
}

func normalizeDays(days []string) ([]string, error) {
	if len(days) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(days))
	seen := make(map[string]struct{}, len(days))
	for _, day := range days {
		normalized := strings.ToUpper(strings.TrimSpace(day))
		if _, ok := ruledomain.ParseWeekday(normalized); !ok {
			return nil, ruledomain.ErrInvalidDayOfWeek
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out, nil
}

func toResponse(rule *ruledomain.PricingRule) *ruledomain.Response {
	return &ruledomain.Response{
		ID:         rule.ID.String(),
		RuleType:   rule.RuleType,
		Name:       rule.Name,
		Multiplier: rule.Multiplier,
		Priority:   rule.Priority,
		DaysOfWeek: []string(rule.DaysOfWeek),
		StartTime:  rule.StartTime,
		EndTime:    rule.EndTime,
		StartDate:  rule.StartDate,
		EndDate:    rule.EndDate,
		Active:     rule.Active,
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}
}
