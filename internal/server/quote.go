package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	ratingdomain "github.com/siamtransfer/fareengine/internal/rating/domain"
)

type quoteRequest struct {
	VehicleType string          `json:"vehicle_type"`
	DistanceKm  decimal.Decimal `json:"distance_km"`
	PickupAt    time.Time       `json:"pickup_at"`
	ReturnTrip  bool            `json:"return_trip"`
}

func (s *Server) CalculateQuote(c *gin.Context) {
	if s.quoteLimiter.Enabled() {
		allowed, err := s.quoteLimiter.AllowQuote(c.Request.Context(), c.ClientIP())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !allowed {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
	}

	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.PickupAt.IsZero() {
		AbortWithError(c, newValidationError("pickup_at", "required", "pickup_at is required"))
		return
	}

	result, err := s.ratingSvc.Calculate(c.Request.Context(), ratingdomain.CalculationInput{
		VehicleType: strings.TrimSpace(req.VehicleType),
		DistanceKm:  req.DistanceKm,
		PickupAt:    req.PickupAt,
		ReturnTrip:  req.ReturnTrip,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
