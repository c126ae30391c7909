package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avidya-edu/academy-cms-gateway/internal/dto"
	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	"github.com/avidya-edu/academy-cms-gateway/internal/service"
	appErrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
	"github.com/avidya-edu/academy-cms-gateway/pkg/response"
)

// CMSHandler wires the admin content endpoints.
type CMSHandler struct {
	cms     *service.CMSService
	content *service.ContentService
	cache   *service.CacheService
}

// NewCMSHandler creates a new handler.
func NewCMSHandler(cms *service.CMSService, content *service.ContentService, cache *service.CacheService) *CMSHandler {
	return &CMSHandler{cms: cms, content: content, cache: cache}
}

// GetContent godoc
// @Summary Reconciled content state
// @Description All CMS sections merged, with availability joined on
// @Tags CMS
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/cms/content [get]
func (h *CMSHandler) GetContent(c *gin.Context) {
	view, err := h.content.AdminContent(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// RefreshContent godoc
// @Summary Force a full refetch
// @Tags CMS
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/refresh [post]
func (h *CMSHandler) RefreshContent(c *gin.Context) {
	view, err := h.content.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Create godoc
// @Summary Create a content record
// @Tags CMS
// @Accept json
// @Produce json
// @Param section path string true "Section name"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/cms/{section} [post]
func (h *CMSHandler) Create(c *gin.Context) {
	raw, err := rawBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.cms.Create(c.Request.Context(), actorFromContext(c), c.Param("section"), raw)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.cache.InvalidateViews(c.Request.Context())
	response.Created(c, item)
}

// Update godoc
// @Summary Update a content record
// @Tags CMS
// @Accept json
// @Produce json
// @Param section path string true "Section name"
// @Param id path string true "Record id"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/cms/{section}/{id} [put]
func (h *CMSHandler) Update(c *gin.Context) {
	raw, err := rawBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.cms.Update(c.Request.Context(), actorFromContext(c), c.Param("section"), c.Param("id"), raw)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.cache.InvalidateViews(c.Request.Context())
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete a content record
// @Description Ongoing-course deletions need the confirm token from the first refusal
// @Tags CMS
// @Produce json
// @Param section path string true "Section name"
// @Param id path string true "Record id"
// @Param confirm query string false "Confirmation token"
// @Success 200 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /admin/cms/{section}/{id} [delete]
func (h *CMSHandler) Delete(c *gin.Context) {
	confirmToken := c.Query("confirm")
	if confirmToken == "" {
		confirmToken = c.GetHeader("X-Confirm-Token")
	}

	if err := h.cms.Delete(c.Request.Context(), actorFromContext(c), c.Param("section"), c.Param("id"), confirmToken); err != nil {
		response.Error(c, err)
		return
	}

	h.cache.InvalidateViews(c.Request.Context())
	response.Message(c, http.StatusOK, "deleted")
}

// Reorder godoc
// @Summary Reorder the carousel
// @Tags CMS
// @Accept json
// @Produce json
// @Param payload body dto.ReorderForm true "Full ordered id list"
// @Success 200 {object} response.Envelope
// @Router /admin/cms/carousel/reorder [post]
func (h *CMSHandler) Reorder(c *gin.Context) {
	if section := c.Param("section"); section != "" && section != models.SectionCarousel {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "only the carousel can be reordered"))
		return
	}

	var form dto.ReorderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reorder payload"))
		return
	}

	if err := h.cms.Reorder(c.Request.Context(), actorFromContext(c), form); err != nil {
		response.Error(c, err)
		return
	}

	h.cache.InvalidateViews(c.Request.Context())
	response.Message(c, http.StatusOK, "reordered")
}

func rawBody(c *gin.Context) (json.RawMessage, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read request body")
	}
	if len(raw) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "request body is required")
	}
	if !json.Valid(raw) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "request body is not valid JSON")
	}
	return raw, nil
}
