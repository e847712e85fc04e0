package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/dto"
	"github.com/BruksfildServices01/cast-scheduler/internal/httperr"
)

// respondError translates a use case error into the JSON error body.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var (
		slotErr       *domain.SlotUnavailableError
		transitionErr *domain.TransitionError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidIdentifier):
		httperr.BadRequest(c, httperr.CodeOf(err), "Invalid request.")

	case errors.Is(err, domain.ErrNotFound):
		httperr.NotFound(c, httperr.CodeOf(err), "Booking or resource not found.")

	case errors.As(err, &slotErr):
		httperr.WriteDetailed(c, http.StatusConflict, httperr.HTTPError{
			Code:    httperr.CodeOf(domain.ErrSlotUnavailable),
			Message: "The requested slot is no longer available.",
			Details: gin.H{"conflicts": dto.FromBookings(slotErr.Conflicts)},
		})

	case errors.Is(err, domain.ErrModificationWindowExpired):
		httperr.Forbidden(c, httperr.CodeOf(err), "The booking can no longer be modified.")

	case errors.As(err, &transitionErr):
		httperr.WriteDetailed(c, http.StatusConflict, httperr.HTTPError{
			Code:    httperr.CodeOf(transitionErr.Err),
			Message: "The booking cannot change to the requested status.",
			Details: gin.H{
				"from":  transitionErr.From,
				"to":    transitionErr.To,
				"guard": transitionErr.Guard,
			},
		})

	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrCannotModifyCancelled):
		httperr.Conflict(c, httperr.CodeOf(err), "The booking cannot change to the requested status.")

	case domain.IsRetryable(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		log.WithError(err).Warn("transient booking failure")
		httperr.WriteDetailed(c, http.StatusServiceUnavailable, httperr.HTTPError{
			Code:      httperr.CodeOf(domain.ErrTransientStore),
			Message:   "Temporary failure, try again.",
			Retryable: true,
		})

	default:
		log.WithError(err).Error("unexpected booking failure")
		httperr.Internal(c, "internal_error", "Unexpected error.")
	}
}
