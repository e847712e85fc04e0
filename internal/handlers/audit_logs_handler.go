package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/cast-scheduler/internal/audit"
	"github.com/BruksfildServices01/cast-scheduler/internal/httperr"
	"github.com/BruksfildServices01/cast-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
	"github.com/BruksfildServices01/cast-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLister interface {
	List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	logs AuditLister
	tz   string
	log  logrus.FieldLogger
}

func NewAuditLogsHandler(logs AuditLister, tz string, log logrus.FieldLogger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, tz: tz, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := audit.Filter{
		ResourceID: c.Query("resource_id"),
		Action:     c.Query("action"),
		Entity:     c.Query("entity"),
		Page:       page,
		Limit:      limit,
	}

	// --------------------------------------------------
	// Optional date range, whole days in the business timezone
	// --------------------------------------------------

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := timezone.ParseDate(h.tz, fromStr); err == nil {
			f.From = from
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := timezone.ParseDate(h.tz, toStr); err == nil {
			f.To = to.AddDate(0, 0, 1)
		}
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		h.log.WithError(err).Error("audit list failed")
		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
