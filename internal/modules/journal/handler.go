package journal

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"amphomeus/internal/modules/tag"
	"amphomeus/internal/pkg/response"
	"amphomeus/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/journals", h.CreateJournal)
	rg.GET("/journals/:id", h.GetJournal)
	rg.PUT("/journals/:id", h.UpdateJournal)
	rg.DELETE("/journals/:id", h.DeleteJournal)
}

// CreateJournal godoc
// @Summary Create a journal entry
// @Tags Journals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body JournalRequest true "Journal"
// @Success 201 {object} response.Envelope
// @Failure 400,500 {object} response.Envelope
// @Router /journals [post]
func (h *Handler) CreateJournal(c *gin.Context) {
	var req JournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body", nil)
		return
	}

	date, err := utils.ParseOptionalDate(req.Date)
	if err != nil {
		response.Validation(c, "Invalid date", map[string]string{"date": "date"})
		return
	}

	j, err := h.service.Create(c.Request.Context(), CreateInput{
		Title:    req.Title,
		Content:  req.Content,
		Location: req.Location,
		Date:     date,
		Media:    req.Media,
		Tags:     req.Tags,
	})
	if err != nil {
		h.writeError(c, err, "Failed to create journal")
		return
	}

	response.Success(c, http.StatusCreated, j)
}

// GetJournal godoc
// @Summary Get a journal with its media and tags
// @Tags Journals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Journal ID"
// @Success 200 {object} response.Envelope
// @Failure 404,500 {object} response.Envelope
// @Router /journals/{id} [get]
func (h *Handler) GetJournal(c *gin.Context) {
	j, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to fetch journal")
		return
	}
	response.Success(c, http.StatusOK, j)
}

// UpdateJournal godoc
// @Summary Replace a journal's fields, media and tags
// @Tags Journals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Journal ID"
// @Param request body JournalRequest true "Desired state"
// @Success 200 {object} response.Envelope
// @Failure 400,404,500 {object} response.Envelope
// @Router /journals/{id} [put]
func (h *Handler) UpdateJournal(c *gin.Context) {
	var req JournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body", nil)
		return
	}

	date, err := utils.ParseOptionalDate(req.Date)
	if err != nil {
		response.Validation(c, "Invalid date", map[string]string{"date": "date"})
		return
	}

	j, err := h.service.Update(c.Request.Context(), c.Param("id"), UpdateInput{
		Title:         req.Title,
		Content:       req.Content,
		Location:      req.Location,
		Date:          date,
		Media:         req.Media,
		Tags:          req.Tags,
		MediaToDelete: req.MediaToDelete,
	})
	if err != nil {
		h.writeError(c, err, "Failed to update journal")
		return
	}

	response.Success(c, http.StatusOK, j)
}

// DeleteJournal godoc
// @Summary Delete a journal and its media
// @Tags Journals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Journal ID"
// @Success 200 {object} response.Envelope
// @Failure 404,500 {object} response.Envelope
// @Router /journals/{id} [delete]
func (h *Handler) DeleteJournal(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "Failed to delete journal")
		return
	}
	response.Success(c, http.StatusOK, DeleteResponse{Message: "Journal deleted successfully"})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.Validation(c, verr.Message, verr.Fields)
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Journal not found")
	case errors.Is(err, tag.ErrReconciliationFailed):
		response.Error(c, http.StatusInternalServerError, "TAG_RECONCILIATION_FAILED", fallback)
	default:
		response.Internal(c, fallback)
	}
}
