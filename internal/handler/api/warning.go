package api

import (
	"net/http"

	resdto "entrypass-engine/internal/handler/dto/response"
	"entrypass-engine/internal/handler/middleware"
	"entrypass-engine/internal/pkg/errs"
	"entrypass-engine/internal/usecase/commands"
	"entrypass-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WarningHandler struct {
	entryCommands  commands.EntryCommands
	warningQueries queries.WarningQueries
}

func NewWarningHandler(entryCommands commands.EntryCommands, warningQueries queries.WarningQueries) *WarningHandler {
	return &WarningHandler{
		entryCommands:  entryCommands,
		warningQueries: warningQueries,
	}
}

// @Summary List resubmission warnings
// @Tags warnings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.WarningResponse
// @Failure 401 {object} map[string]string
// @Router /warnings [get]
func (h *WarningHandler) ListWarnings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.warningQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Resubmit now
// @Description Supersede the submitted record and submit with current data
// @Tags warnings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry record ID"
// @Success 200 {object} resdto.SubmitResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /warnings/{id}/resubmit [post]
func (h *WarningHandler) ResubmitNow(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry record ID format"})
		return
	}

	result, err := h.entryCommands.ResubmitNow(c.Request.Context(), userID, entryID)
	if err != nil {
		h.respondWarningError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSubmitResult(result))
}

// @Summary Acknowledge warning without resubmitting
// @Description Marks the record superseded so the user can keep editing
// @Tags warnings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry record ID"
// @Success 200 {object} resdto.EntryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /warnings/{id}/acknowledge [post]
func (h *WarningHandler) Acknowledge(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry record ID format"})
		return
	}

	rec, err := h.entryCommands.AcknowledgeSuperseded(c.Request.Context(), userID, entryID)
	if err != nil {
		h.respondWarningError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromEntryRecord(rec))
}

// @Summary Ignore warning
// @Description Dismiss the warning; the submitted record stays as is
// @Tags warnings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry record ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /warnings/{id} [delete]
func (h *WarningHandler) Ignore(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry record ID format"})
		return
	}

	if err := h.entryCommands.IgnoreWarning(c.Request.Context(), userID, entryID); err != nil {
		h.respondWarningError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Remind later
// @Description Push the deadline reminder out by one repeat interval
// @Tags warnings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry record ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /entries/{id}/remind-later [post]
func (h *WarningHandler) RemindLater(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry record ID format"})
		return
	}

	if err := h.entryCommands.RemindLater(c.Request.Context(), userID, entryID); err != nil {
		h.respondWarningError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *WarningHandler) respondWarningError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrEntryNotFound), errs.Is(err, commands.ErrEntryAccessDenied):
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry record not found"})
	case errs.Is(err, commands.ErrWarningNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending resubmission warning"})
	case errs.Is(err, commands.ErrSubmissionRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Submission not allowed in current status"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
