package api

import (
	"errors"
	"net/http"

	"github.com/sonoda80/coachlog/internal/service"

	"github.com/gin-gonic/gin"
)

// TrainerHandler exposes the trainer-side review endpoints.
type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

type WeeklySummaryRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func trainerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotManaged):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSurveyNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyComment):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Request failed")
	}
}

// Clients lists the trainer's roster with unread indicators.
func (h *TrainerHandler) Clients(c *gin.Context) {
	trainerID, ok := actorID(c)
	if !ok {
		return
	}

	clients, err := h.trainerService.ManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		trainerError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// ClientSurvey returns a client's survey; the first read marks it viewed.
func (h *TrainerHandler) ClientSurvey(c *gin.Context) {
	trainerID, ok := actorID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	survey, err := h.trainerService.ClientSurvey(c.Request.Context(), trainerID, clientID)
	if err != nil {
		trainerError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// Weekly returns the derived 7-day aggregate for one client.
func (h *TrainerHandler) Weekly(c *gin.Context) {
	trainerID, ok := actorID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	report, err := h.trainerService.ComputeWeekly(c.Request.Context(), trainerID, clientID)
	if err != nil {
		trainerError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SubmitWeeklySummary stores the comment for the current window and posts the
// composed report to the client's conversation.
func (h *TrainerHandler) SubmitWeeklySummary(c *gin.Context) {
	trainerID, ok := actorID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	var req WeeklySummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Summary comment is required")
		return
	}

	summary, err := h.trainerService.SubmitWeeklySummary(c.Request.Context(), trainerID, clientID, req.Comment)
	if err != nil {
		trainerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}
