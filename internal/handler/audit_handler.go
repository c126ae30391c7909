package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	"github.com/avidya-edu/academy-cms-gateway/pkg/response"
)

// AuditLister reads the recorded admin action trail; satisfied by the audit
// repository.
type AuditLister interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AuditHandler wires the audit trail listing endpoint.
type AuditHandler struct {
	audit AuditLister
}

// NewAuditHandler creates a new handler.
func NewAuditHandler(audit AuditLister) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List godoc
// @Summary List recorded admin actions
// @Description Newest first, filterable by actor, action and resource
// @Tags Audit
// @Produce json
// @Param actor query string false "Filter by actor username"
// @Param action query string false "Filter by action, e.g. CMS_DELETE"
// @Param resource query string false "Filter by resource section"
// @Param limit query int false "Page size, capped at 200" default(50)
// @Param offset query int false "Rows to skip"
// @Success 200 {object} response.Envelope
// @Router /admin/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	filter := models.AuditFilter{
		Actor:    optionalQuery(c, "actor"),
		Action:   optionalQuery(c, "action"),
		Resource: optionalQuery(c, "resource"),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filter.Offset = offset
	}

	entries, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

func optionalQuery(c *gin.Context, key string) *string {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	return &value
}
