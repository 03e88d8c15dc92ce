package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
)

type createPricingRuleRequest struct {
	RuleType   string          `json:"rule_type"`
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

type updatePricingRuleRequest struct {
	Name     *string `json:"name,omitempty"`
	Priority *int32  `json:"priority,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

func (s *Server) CreatePricingRule(c *gin.Context) {
	var req createPricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingRuleSvc.Create(c.Request.Context(), ruledomain.CreateRequest{
		RuleType:   ruledomain.RuleType(strings.ToUpper(strings.TrimSpace(req.RuleType))),
		Name:       strings.TrimSpace(req.Name),
		Multiplier: req.Multiplier,
		Priority:   req.Priority,
		DaysOfWeek: req.DaysOfWeek,
		StartTime:  trimStringPtr(req.StartTime),
		EndTime:    trimStringPtr(req.EndTime),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Active:     req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPricingRules(c *gin.Context) {
	var query struct {
		RuleType string `form:"rule_type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingRuleSvc.List(c.Request.Context(), ruledomain.ListRequest{
		RuleType: strings.TrimSpace(query.RuleType),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPricingRuleByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.pricingRuleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePricingRule(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updatePricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingRuleSvc.Update(c.Request.Context(), ruledomain.UpdateRequest{
		ID:       id,
		Name:     trimStringPtr(req.Name),
		Priority: req.Priority,
		Active:   req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePricingRule(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.pricingRuleSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
