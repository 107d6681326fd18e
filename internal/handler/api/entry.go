package api

import (
	"net/http"

	reqdto "entrypass-engine/internal/handler/dto/request"
	resdto "entrypass-engine/internal/handler/dto/response"
	"entrypass-engine/internal/handler/middleware"
	"entrypass-engine/internal/pkg/errs"
	"entrypass-engine/internal/usecase/commands"
	"entrypass-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EntryHandler struct {
	entryCommands commands.EntryCommands
	entryQueries  queries.EntryQueries
}

func NewEntryHandler(entryCommands commands.EntryCommands, entryQueries queries.EntryQueries) *EntryHandler {
	return &EntryHandler{
		entryCommands: entryCommands,
		entryQueries:  entryQueries,
	}
}

// @Summary Create entry record
// @Description Start a preparation cycle for a destination
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateEntryRequest true "Entry record request"
// @Success 201 {object} resdto.EntryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /entries [post]
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	rec, err := h.entryCommands.CreateEntry(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrEntryAlreadyActive):
			c.JSON(http.StatusConflict, gin.H{"error": "Active entry record already exists for this destination"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromEntryRecord(rec))
}

// @Summary List entry records
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.EntryResponse
// @Failure 401 {object} map[string]string
// @Router /entries [get]
func (h *EntryHandler) ListEntries(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.entryQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Get entry record
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry record ID"
// @Success 200 {object} resdto.EntryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /entries/{id} [get]
func (h *EntryHandler) GetEntry(c *gin.Context) {
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

	view, err := h.entryQueries.GetByID(c.Request.Context(), userID, entryID)
	if err != nil {
		switch {
		case errs.Is(err, queries.ErrEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry record not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Get submission readiness
// @Description Derived completeness per data category for a destination
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param destinationId path string true "Destination ID"
// @Success 200 {object} resdto.ReadinessResponse
// @Failure 401 {object} map[string]string
// @Router /entries/readiness/{destinationId} [get]
func (h *EntryHandler) GetReadiness(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.entryQueries.Readiness(c.Request.Context(), userID, c.Param("destinationId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Set arrival date
// @Description Reschedules every notification family from the new date
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry record ID"
// @Param request body reqdto.ArrivalDateRequest true "New arrival date"
// @Success 200 {object} resdto.EntryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /entries/{id}/arrival-date [put]
func (h *EntryHandler) SetArrivalDate(c *gin.Context) {
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

	var req reqdto.ArrivalDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	rec, err := h.entryCommands.SetArrivalDate(c.Request.Context(), userID, entryID, req)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromEntryRecord(rec))
}

// @Summary Submit entry card
// @Description Gateway rejections return success=false, not an HTTP error
// @Tags entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry record ID"
// @Success 200 {object} resdto.SubmitResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /entries/{id}/submit [post]
func (h *EntryHandler) Submit(c *gin.Context) {
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

	result, err := h.entryCommands.Submit(c.Request.Context(), userID, entryID)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSubmitResult(result))
}

func (h *EntryHandler) respondCommandError(c *gin.Context, err error) {
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
