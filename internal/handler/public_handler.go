package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avidya-edu/academy-cms-gateway/internal/dto"
	"github.com/avidya-edu/academy-cms-gateway/internal/service"
	appErrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
	"github.com/avidya-edu/academy-cms-gateway/pkg/response"
)

// PublicHandler serves the unauthenticated landing surface.
type PublicHandler struct {
	content      *service.ContentService
	readmissions *service.ReadmissionService
}

// NewPublicHandler creates a new handler.
func NewPublicHandler(content *service.ContentService, readmissions *service.ReadmissionService) *PublicHandler {
	return &PublicHandler{content: content, readmissions: readmissions}
}

// Landing godoc
// @Summary Public landing view
// @Description Active content only, with live availability on offers and ongoing courses
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /landing [get]
func (h *PublicHandler) Landing(c *gin.Context) {
	view, err := h.content.Landing(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// SubmitReadmission godoc
// @Summary Submit a readmission request
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body dto.ReadmissionForm true "Readmission form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /readmissions [post]
func (h *PublicHandler) SubmitReadmission(c *gin.Context) {
	var form dto.ReadmissionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid readmission payload"))
		return
	}

	record, err := h.readmissions.Submit(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}
