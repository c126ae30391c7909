package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avidya-edu/academy-cms-gateway/internal/service"
	"github.com/avidya-edu/academy-cms-gateway/pkg/response"
)

// ReadmissionHandler wires the admin readmission workflow.
type ReadmissionHandler struct {
	readmissions *service.ReadmissionService
}

// NewReadmissionHandler creates a new handler.
func NewReadmissionHandler(readmissions *service.ReadmissionService) *ReadmissionHandler {
	return &ReadmissionHandler{readmissions: readmissions}
}

// List godoc
// @Summary List readmission requests
// @Tags Readmissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/readmissions [get]
func (h *ReadmissionHandler) List(c *gin.Context) {
	records, err := h.readmissions.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Approve godoc
// @Summary Approve a pending request
// @Description Refused while the referenced slot is full
// @Tags Readmissions
// @Produce json
// @Param id path string true "Request id"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/readmissions/{id}/approve [put]
func (h *ReadmissionHandler) Approve(c *gin.Context) {
	record, err := h.readmissions.Approve(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Reject godoc
// @Summary Reject a pending request
// @Tags Readmissions
// @Produce json
// @Param id path string true "Request id"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/readmissions/{id}/reject [put]
func (h *ReadmissionHandler) Reject(c *gin.Context) {
	record, err := h.readmissions.Reject(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
