package tag

import (
	"net/http"

	"amphomeus/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.ListTags)
}

// ListTags godoc
// @Summary List all known tags
// @Tags Tags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "Failed to load tags")
		return
	}
	response.Success(c, http.StatusOK, tags)
}
