package gallery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"amphomeus/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/journals", h.ListJournals)
}

// ListJournals godoc
// @Summary List journals for the gallery
// @Description Filters are ANDed together; tags match when a journal has any of them.
// @Tags Journals
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive title substring"
// @Param sort query string false "date_desc (default), date_asc, title_asc, title_desc"
// @Param tags query string false "Comma-separated tag ids"
// @Param startDate query string false "YYYY-MM-DD or RFC3339, inclusive"
// @Param endDate query string false "YYYY-MM-DD or RFC3339, whole day inclusive"
// @Success 200 {object} response.Envelope
// @Failure 400,500 {object} response.Envelope
// @Router /journals [get]
func (h *Handler) ListJournals(c *gin.Context) {
	var p Params
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Validation(c, "Invalid query parameters", nil)
		return
	}

	f, err := ParseFilter(p)
	if err != nil {
		response.Validation(c, "Invalid date filter", err.Error())
		return
	}

	journals, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.Internal(c, "Failed to fetch journals")
		return
	}

	response.Success(c, http.StatusOK, journals)
}
