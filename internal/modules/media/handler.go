package media

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"amphomeus/internal/pkg/mediastore"
	"amphomeus/internal/pkg/response"
)

const megabyte = 1024 * 1024

// Handler proxies uploads and deletions to the media store so credentials
// never reach the client.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/media/upload", h.Upload)
	rg.POST("/media/delete", h.Delete)
}

// Upload godoc
// @Summary Upload an image or video
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Success 200 {object} response.Envelope
// @Failure 400,500 {object} response.Envelope
// @Router /media/upload [post]
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Validation(c, "No file provided", nil)
		return
	}

	limit := h.store.MaxUploadBytes()
	if fh.Size > limit {
		response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", fmt.Sprintf(
			"File size exceeds the %dMB limit (uploaded: %.2fMB)",
			limit/megabyte, float64(fh.Size)/megabyte,
		))
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Validation(c, "Could not read uploaded file", nil)
		return
	}
	defer f.Close()

	res, err := h.store.Upload(c.Request.Context(), mediastore.File{
		Name: fh.Filename,
		Size: fh.Size,
		Body: f,
	})
	if err != nil {
		switch {
		case errors.Is(err, mediastore.ErrPayloadTooLarge):
			response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", err.Error())
		case errors.Is(err, mediastore.ErrEmptyFile):
			response.Validation(c, "File is empty", nil)
		case errors.Is(err, mediastore.ErrUnsupportedMediaType):
			response.Error(c, http.StatusBadRequest, "UNSUPPORTED_MEDIA_TYPE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "MEDIA_UPLOAD_FAILED", providerMessage(err, "Failed to upload media"))
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}

// Delete godoc
// @Summary Delete a stored asset by public id
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteRequest true "Asset"
// @Success 200 {object} response.Envelope
// @Failure 400,500 {object} response.Envelope
// @Router /media/delete [post]
func (h *Handler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.PublicID) == "" {
		response.Validation(c, "Public ID is required", nil)
		return
	}

	res, err := h.store.Delete(c.Request.Context(), req.PublicID)
	if err != nil {
		if errors.Is(err, mediastore.ErrMissingPublicID) {
			response.Validation(c, "Public ID is required", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "MEDIA_DELETE_FAILED", providerMessage(err, "Failed to delete media"))
		return
	}

	response.Success(c, http.StatusOK, res)
}

// providerMessage surfaces the store's message for provider failures and
// falls back to a generic one otherwise.
func providerMessage(err error, fallback string) string {
	if errors.Is(err, mediastore.ErrUploadFailed) || errors.Is(err, mediastore.ErrDeleteFailed) {
		return err.Error()
	}
	return fallback
}
