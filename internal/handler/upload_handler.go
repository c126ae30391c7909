package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/avidya-edu/academy-cms-gateway/internal/service"
	appErrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
	"github.com/avidya-edu/academy-cms-gateway/pkg/response"
)

// UploadHandler wires the image upload endpoint.
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler creates a new handler.
func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Image godoc
// @Summary Upload a CMS image
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Param type formData string false "teacher or course" default(course)
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /uploads/image [post]
func (h *UploadHandler) Image(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, appErrors.WithFields(appErrors.ErrValidation, []appErrors.FieldError{
			{Path: "image", Msg: "Image file is required"},
		}))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	result, err := h.uploads.Upload(c.Request.Context(), actorFromContext(c), service.UploadInput{
		Kind:        c.PostForm("type"),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		File:        file,
		Size:        fileHeader.Size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
