package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	historydomain "github.com/siamtransfer/fareengine/internal/ratehistory/domain"
)

type recordRateHistoryRequest struct {
	BookingID      string          `json:"booking_id"`
	VehicleType    string          `json:"vehicle_type"`
	BasePrice      decimal.Decimal `json:"base_price"`
	DistanceCharge decimal.Decimal `json:"distance_charge"`
	AppliedRules   []string        `json:"applied_rules"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	Currency       string          `json:"currency"`
}

func (s *Server) RecordRateHistory(c *gin.Context) {
	var req recordRateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateHistorySvc.Record(c.Request.Context(), historydomain.RecordRequest{
		BookingID:      strings.TrimSpace(req.BookingID),
		VehicleType:    strings.TrimSpace(req.VehicleType),
		BasePrice:      req.BasePrice,
		DistanceCharge: req.DistanceCharge,
		AppliedRules:   req.AppliedRules,
		FinalPrice:     req.FinalPrice,
		Currency:       strings.TrimSpace(req.Currency),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRateHistory(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			AbortWithError(c, invalidRequestError())
			return
		}
		limit = parsed
	}

	resp, err := s.rateHistorySvc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRateHistoryByBookingID(c *gin.Context) {
	bookingID := strings.TrimSpace(c.Param("booking_id"))
	resp, err := s.rateHistorySvc.GetByBookingID(c.Request.Context(), bookingID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
