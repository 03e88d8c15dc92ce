package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
	historydomain "github.com/siamtransfer/fareengine/internal/ratehistory/domain"
	ratingdomain "github.com/siamtransfer/fareengine/internal/rating/domain"
	ratedomain "github.com/siamtransfer/fareengine/internal/servicerate/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, ratedomain.ErrAmbiguousRate):
		// More than one active rate for a vehicle type. Support has to
		// fix the catalog; no price is returned.
		return http.StatusConflict, errorPayload{
			Type:    "configuration_error",
			Message: "ambiguous rate configuration",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	case errors.Is(err, ratingdomain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "unable to calculate price right now",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isServiceRateValidationError(err),
		isPricingRuleValidationError(err),
		isQuoteValidationError(err),
		isRateHistoryValidationError(err):
		return true
	default:
		return false
	}
}

func isServiceRateValidationError(err error) bool {
	switch {
	case errors.Is(err, ratedomain.ErrInvalidVehicleType),
		errors.Is(err, ratedomain.ErrInvalidBasePrice),
		errors.Is(err, ratedomain.ErrInvalidDistanceRate),
		errors.Is(err, ratedomain.ErrInvalidMinDistance),
		errors.Is(err, ratedomain.ErrInvalidMaxDistance),
		errors.Is(err, ratedomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isPricingRuleValidationError(err error) bool {
	switch {
	case errors.Is(err, ruledomain.ErrInvalidRuleType),
		errors.Is(err, ruledomain.ErrInvalidName),
		errors.Is(err, ruledomain.ErrInvalidMultiplier),
		errors.Is(err, ruledomain.ErrInvalidTimeWindow),
		errors.Is(err, ruledomain.ErrInvalidDateRange),
		errors.Is(err, ruledomain.ErrInvalidDayOfWeek),
		errors.Is(err, ruledomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isQuoteValidationError(err error) bool {
	return errors.Is(err, ratingdomain.ErrInvalidDistance)
}

func isRateHistoryValidationError(err error) bool {
	switch {
	case errors.Is(err, historydomain.ErrInvalidBookingID),
		errors.Is(err, historydomain.ErrInvalidRecord):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ratedomain.ErrDuplicateVehicleType),
		errors.Is(err, historydomain.ErrAlreadyRecorded):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ratedomain.ErrNotFound),
		errors.Is(err, ruledomain.ErrNotFound),
		errors.Is(err, historydomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog tags request log lines with a coarse error type
// and the domain error code.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	switch {
	case asValidationErrors(err) != nil, isValidationError(err):
		return "validation_error", validationErrorCode(err)
	case isConflictError(err):
		return "conflict", err.Error()
	case errors.Is(err, ratedomain.ErrAmbiguousRate):
		return "configuration_error", ratedomain.ErrAmbiguousRate.Error()
	case isNotFoundError(err):
		return "not_found", "not_found"
	case errors.Is(err, ErrTooManyRequests):
		return "too_many_requests", "too_many_requests"
	case errors.Is(err, ratingdomain.ErrStoreUnavailable):
		return "service_unavailable", ratingdomain.ErrStoreUnavailable.Error()
	default:
		return "internal_error", "internal_error"
	}
}
