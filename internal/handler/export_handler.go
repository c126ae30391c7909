package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/avidya-edu/academy-cms-gateway/internal/service"
	"github.com/avidya-edu/academy-cms-gateway/pkg/response"
)

// ExportHandler wires the report download endpoint.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Download an admin report
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param report path string true "Report name (readmissions, slots)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /admin/exports/{report} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	result, err := h.exports.Generate(c.Request.Context(), actorFromContext(c), c.Param("report"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(200, result.ContentType, result.Content)
}
