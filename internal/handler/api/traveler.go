package api

import (
	"net/http"

	reqdto "entrypass-engine/internal/handler/dto/request"
	resdto "entrypass-engine/internal/handler/dto/response"
	"entrypass-engine/internal/handler/middleware"
	"entrypass-engine/internal/pkg/errs"
	"entrypass-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type TravelerHandler struct {
	travelerCommands commands.TravelerCommands
}

func NewTravelerHandler(travelerCommands commands.TravelerCommands) *TravelerHandler {
	return &TravelerHandler{
		travelerCommands: travelerCommands,
	}
}

// @Summary Save passport data
// @Description Merge-write passport fields; only non-empty fields overwrite
// @Tags traveler
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PassportRequest true "Passport fields"
// @Success 200 {object} resdto.SaveResponse[traveler.Passport]
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /traveler/passport [put]
func (h *TravelerHandler) SavePassport(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.PassportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	outcome, err := h.travelerCommands.SavePassport(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPassportOutcome(outcome))
}

// @Summary Save personal info
// @Tags traveler
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PersonalInfoRequest true "Personal info fields"
// @Success 200 {object} resdto.SaveResponse[traveler.PersonalInfo]
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /traveler/personal-info [put]
func (h *TravelerHandler) SavePersonalInfo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.PersonalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	outcome, err := h.travelerCommands.SavePersonalInfo(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPersonalInfoOutcome(outcome))
}

// @Summary Save funds
// @Description Replaces the fund item list when a non-empty list is sent
// @Tags traveler
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.FundsRequest true "Fund items"
// @Success 200 {object} resdto.SaveResponse[traveler.Funds]
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /traveler/funds [put]
func (h *TravelerHandler) SaveFunds(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.FundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	outcome, err := h.travelerCommands.SaveFunds(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromFundsOutcome(outcome))
}

// @Summary Save travel info for a destination
// @Tags traveler
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param destinationId path string true "Destination ID"
// @Param request body reqdto.TravelInfoRequest true "Travel info fields"
// @Success 200 {object} resdto.SaveResponse[traveler.TravelInfo]
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /traveler/travel-info/{destinationId} [put]
func (h *TravelerHandler) SaveTravelInfo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	destinationID := c.Param("destinationId")
	if destinationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Destination ID required"})
		return
	}

	var req reqdto.TravelInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	outcome, err := h.travelerCommands.SaveTravelInfo(c.Request.Context(), userID, destinationID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromTravelInfoOutcome(outcome))
}

// @Summary Save notification preferences for a destination
// @Description Replaces the list of disabled notification kinds
// @Tags traveler
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param destinationId path string true "Destination ID"
// @Param request body reqdto.NotificationPreferenceRequest true "Disabled kinds"
// @Success 200 {object} resdto.NotificationPreferenceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /traveler/notification-preferences/{destinationId} [put]
func (h *TravelerHandler) SaveNotificationPreference(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	destinationID := c.Param("destinationId")
	if destinationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Destination ID required"})
		return
	}

	var req reqdto.NotificationPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	pref, err := h.travelerCommands.SaveNotificationPreference(c.Request.Context(), userID, destinationID, req)
	if err != nil {
		if errs.Is(err, commands.ErrUnknownNotificationKind) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unknown notification kind"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, pref)
}
