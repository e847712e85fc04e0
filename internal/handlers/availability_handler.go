package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/dto"
	"github.com/BruksfildServices01/cast-scheduler/internal/httperr"
	"github.com/BruksfildServices01/cast-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/cast-scheduler/internal/timezone"
	ucBooking "github.com/BruksfildServices01/cast-scheduler/internal/usecase/booking"
)

type AvailabilityHandler struct {
	freeSlots *ucBooking.ComputeFreeSlots
	check     *ucBooking.CheckConflict

	tz  string
	log logrus.FieldLogger
}

func NewAvailabilityHandler(
	freeSlots *ucBooking.ComputeFreeSlots,
	check *ucBooking.CheckConflict,
	tz string,
	log logrus.FieldLogger,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		freeSlots: freeSlots,
		check:     check,
		tz:        tz,
		log:       log,
	}
}

// ======================================================
// FREE SLOTS
// ======================================================

func (h *AvailabilityHandler) FreeSlots(c *gin.Context) {
	date, err := timezone.ParseDate(h.tz, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use date=YYYY-MM-DD.")
		return
	}

	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeOf(domain.ErrInvalidDuration), "Use duration=<minutes>.")
		return
	}

	slots, err := h.freeSlots.Execute(c.Request.Context(), c.Param("resourceId"), date, duration)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, dto.FromFreeSlots(slots))
}

// ======================================================
// CONFLICT CHECK
// ======================================================

// CheckAvailabilityRequest checks one resource, or several when
// resource_ids is set.
type CheckAvailabilityRequest struct {
	ResourceID       string    `json:"resource_id"`
	ResourceIDs      []string  `json:"resource_ids"`
	Start            time.Time `json:"start" binding:"required"`
	End              time.Time `json:"end" binding:"required"`
	ExcludeBookingID string    `json:"exclude_booking_id"`
}

func (h *AvailabilityHandler) Check(c *gin.Context) {
	var req CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	iv := domain.Interval{Start: req.Start, End: req.End}
	ctx := c.Request.Context()

	if len(req.ResourceIDs) == 0 {
		res, err := h.check.Execute(ctx, req.ResourceID, iv, req.ExcludeBookingID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		httpresp.OK(c, dto.FromAvailability(res))
		return
	}

	results, err := h.check.ExecuteMany(ctx, req.ResourceIDs, iv, req.ExcludeBookingID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make(map[string]dto.AvailabilityDTO, len(results))
	for id, res := range results {
		out[id] = dto.FromAvailability(res)
	}
	httpresp.OK(c, gin.H{"results": out})
}
