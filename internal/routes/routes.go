package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/cast-scheduler/internal/config"
	"github.com/BruksfildServices01/cast-scheduler/internal/handlers"
	"github.com/BruksfildServices01/cast-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/cast-scheduler/internal/usecase/booking"
)

func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	deps ucBooking.Deps,
	auditLogs handlers.AuditLister,
	log logrus.FieldLogger,
) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins...))

	// ======================================================
	// USE CASES
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(deps, cfg.AutoConfirm)
	modifyBookingUC := ucBooking.NewModifyBooking(deps)
	cancelBookingUC := ucBooking.NewCancelBooking(deps)
	confirmBookingUC := ucBooking.NewConfirmBooking(deps)
	openEditUC := ucBooking.NewOpenEditWindow(deps, cfg.ModifiableGrace)
	closeEditUC := ucBooking.NewCloseEditWindow(deps)
	completeBookingUC := ucBooking.NewCompleteBooking(deps)
	getBookingUC := ucBooking.NewGetBooking(deps)
	listBookingsUC := ucBooking.NewListBookings(deps)

	freeSlotsUC := ucBooking.NewComputeFreeSlots(deps)
	checkConflictUC := ucBooking.NewCheckConflict(deps)

	// ======================================================
	// HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		modifyBookingUC,
		cancelBookingUC,
		confirmBookingUC,
		openEditUC,
		closeEditUC,
		completeBookingUC,
		getBookingUC,
		listBookingsUC,
		cfg.BusinessTimezone,
		log,
	)

	availabilityHandler := handlers.NewAvailabilityHandler(
		freeSlotsUC,
		checkConflictUC,
		cfg.BusinessTimezone,
		log,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogs, cfg.BusinessTimezone, log)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// ------------------------------
		// AVAILABILITY
		// ------------------------------
		api.GET("/resources/:resourceId/free-slots", availabilityHandler.FreeSlots)
		api.POST("/availability/check", availabilityHandler.Check)

		// ------------------------------
		// BOOKINGS
		// ------------------------------
		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings/:id", bookingHandler.Get)
		api.PATCH("/bookings/:id", bookingHandler.Modify)
		api.POST("/bookings/:id/cancel", bookingHandler.Cancel)
		api.POST("/bookings/:id/confirm", middleware.RequireElevated(), bookingHandler.Confirm)
		api.POST("/bookings/:id/open-edit", middleware.RequireElevated(), bookingHandler.OpenEdit)
		api.POST("/bookings/:id/close-edit", middleware.RequireElevated(), bookingHandler.CloseEdit)
		api.POST("/bookings/:id/complete", bookingHandler.Complete)
		api.GET("/resources/:resourceId/bookings", bookingHandler.ListByResource)

		// ------------------------------
		// AUDIT (elevated only)
		// ------------------------------
		api.GET("/audit-logs", middleware.RequireElevated(), auditLogsHandler.List)
	}
}
