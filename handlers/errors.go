package handlers

import (
	"errors"
	"net/http"

	"glowbook/services/booking"

	"github.com/gin-gonic/gin"
)

// statusFor maps domain error codes onto HTTP statuses. Conflicts (lost
// races, double transitions) are 409 so clients know to re-query; policy
// refusals are 422 because the request was well-formed but not permitted.
func statusFor(code string) int {
	switch code {
	case booking.CodeInvalidInput:
		return http.StatusBadRequest
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeSlotUnavailable,
		booking.CodeInvalidTransition,
		booking.CodeRequestAlreadyPending:
		return http.StatusConflict
	case booking.CodeRescheduleLimitExceeded,
		booking.CodeOutsideRescheduleWindow,
		booking.CodeInvalidPolicyConfig:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	var domainErr *booking.Error
	if errors.As(err, &domainErr) {
		c.JSON(statusFor(domainErr.Code), gin.H{
			"code":  domainErr.Code,
			"error": domainErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
