package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	ratedomain "github.com/siamtransfer/fareengine/internal/servicerate/domain"
)

type createServiceRateRequest struct {
	VehicleType  string          `json:"vehicle_type"`
	BasePrice    decimal.Decimal `json:"base_price"`
	DistanceRate decimal.Decimal `json:"distance_rate"`
	MinDistance  float64         `json:"min_distance"`
	MaxDistance  *float64        `json:"max_distance,omitempty"`
	Active       *bool           `json:"active,omitempty"`
}

type updateServiceRateRequest struct {
	BasePrice    *decimal.Decimal `json:"base_price,omitempty"`
	DistanceRate *decimal.Decimal `json:"distance_rate,omitempty"`
	MinDistance  *float64         `json:"min_distance,omitempty"`
	MaxDistance  *float64         `json:"max_distance,omitempty"`
	Active       *bool            `json:"active,omitempty"`
}

func (s *Server) CreateServiceRate(c *gin.Context) {
	var req createServiceRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.serviceRateSvc.Create(c.Request.Context(), ratedomain.CreateRequest{
		VehicleType:  strings.TrimSpace(req.VehicleType),
		BasePrice:    req.BasePrice,
		DistanceRate: req.DistanceRate,
		MinDistance:  req.MinDistance,
		MaxDistance:  req.MaxDistance,
		Active:       req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListServiceRates(c *gin.Context) {
	resp, err := s.serviceRateSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetServiceRateByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.serviceRateSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateServiceRate(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateServiceRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.serviceRateSvc.Update(c.Request.Context(), ratedomain.UpdateRequest{
		ID:           id,
		BasePrice:    req.BasePrice,
		DistanceRate: req.DistanceRate,
		MinDistance:  req.MinDistance,
		MaxDistance:  req.MaxDistance,
		Active:       req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteServiceRate(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.serviceRateSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
