package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/cast-scheduler/internal/dto"
	"github.com/BruksfildServices01/cast-scheduler/internal/httperr"
	"github.com/BruksfildServices01/cast-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/cast-scheduler/internal/middleware"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
	"github.com/BruksfildServices01/cast-scheduler/internal/timezone"
	ucBooking "github.com/BruksfildServices01/cast-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create    *ucBooking.CreateBooking
	modify    *ucBooking.ModifyBooking
	cancel    *ucBooking.CancelBooking
	confirm   *ucBooking.ConfirmBooking
	openEdit  *ucBooking.OpenEditWindow
	closeEdit *ucBooking.CloseEditWindow
	complete  *ucBooking.CompleteBooking
	get       *ucBooking.GetBooking
	list      *ucBooking.ListBookings

	tz  string
	log logrus.FieldLogger
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	modify *ucBooking.ModifyBooking,
	cancel *ucBooking.CancelBooking,
	confirm *ucBooking.ConfirmBooking,
	openEdit *ucBooking.OpenEditWindow,
	closeEdit *ucBooking.CloseEditWindow,
	complete *ucBooking.CompleteBooking,
	get *ucBooking.GetBooking,
	list *ucBooking.ListBookings,
	tz string,
	log logrus.FieldLogger,
) *BookingHandler {
	return &BookingHandler{
		create:    create,
		modify:    modify,
		cancel:    cancel,
		confirm:   confirm,
		openEdit:  openEdit,
		closeEdit: closeEdit,
		complete:  complete,
		get:       get,
		list:      list,
		tz:        tz,
		log:       log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ResourceID string    `json:"resource_id" binding:"required"`
	SubjectID  string    `json:"subject_id"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
	AddOns     []string  `json:"add_ons"`
	Confirm    *bool     `json:"confirm"`
}

// ModifyBookingRequest changes only the fields that are present.
type ModifyBookingRequest struct {
	ResourceID *string    `json:"resource_id"`
	Start      *time.Time `json:"start"`
	End        *time.Time `json:"end"`
	AddOns     *[]string  `json:"add_ons"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	// Ordinary actors book for themselves unless told otherwise.
	subjectID := req.SubjectID
	if subjectID == "" {
		subjectID = actor.ID
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		ResourceID: req.ResourceID,
		SubjectID:  subjectID,
		Start:      req.Start,
		End:        req.End,
		AddOns:     req.AddOns,
		Confirm:    req.Confirm,
		Actor:      actor,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.Created(c, dto.FromBooking(*b))
}

// ======================================================
// MODIFY
// ======================================================

func (h *BookingHandler) Modify(c *gin.Context) {
	var req ModifyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.modify.Execute(c.Request.Context(), ucBooking.ModifyBookingInput{
		BookingID:  c.Param("id"),
		ResourceID: req.ResourceID,
		Start:      req.Start,
		End:        req.End,
		AddOns:     req.AddOns,
		Actor:      middleware.ActorFrom(c),
	})
	h.respond(c, b, err)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *BookingHandler) respond(c *gin.Context, b *models.Booking, err error) {
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.FromBooking(*b))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	b, err := h.cancel.Execute(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	h.respond(c, b, err)
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	b, err := h.confirm.Execute(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	h.respond(c, b, err)
}

func (h *BookingHandler) OpenEdit(c *gin.Context) {
	b, err := h.openEdit.Execute(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	h.respond(c, b, err)
}

func (h *BookingHandler) CloseEdit(c *gin.Context) {
	b, err := h.closeEdit.Execute(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	h.respond(c, b, err)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	b, err := h.complete.Execute(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	h.respond(c, b, err)
}

// ======================================================
// READS
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.get.Execute(c.Request.Context(), c.Param("id"))
	h.respond(c, b, err)
}

// ListByResource lists by ?date=YYYY-MM-DD, or by ?year=&month= when no
// date is given.
func (h *BookingHandler) ListByResource(c *gin.Context) {
	resourceID := c.Param("resourceId")

	var (
		list []models.Booking
		err  error
	)

	if dateStr := c.Query("date"); dateStr != "" {
		date, perr := timezone.ParseDate(h.tz, dateStr)
		if perr != nil {
			httperr.BadRequest(c, "invalid_date", "Use date=YYYY-MM-DD.")
			return
		}
		list, err = h.list.ByDate(c.Request.Context(), resourceID, date)
	} else {
		year, yerr := strconv.Atoi(c.Query("year"))
		month, merr := strconv.Atoi(c.Query("month"))
		if yerr != nil || merr != nil {
			httperr.BadRequest(c, "invalid_period", "Use date=YYYY-MM-DD or year=YYYY&month=MM.")
			return
		}
		list, err = h.list.ByMonth(c.Request.Context(), resourceID, year, month)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, dto.FromBookings(list))
}
