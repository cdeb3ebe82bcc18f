package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/sonoda80/coachlog/internal/domain"
	"github.com/sonoda80/coachlog/internal/service"

	"github.com/gin-gonic/gin"
)

// ClientHandler exposes the client-side submission and history endpoints.
type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- Request Structs ---

type MealRequest struct {
	Slot     string `json:"slot" binding:"required,oneof=breakfast lunch dinner snack"`
	Text     string `json:"text" binding:"required"`
	PhotoKey string `json:"photoKey"`
}

type ExerciseRequest struct {
	Name   string `json:"name" binding:"required"`
	Detail string `json:"detail" binding:"required"`
}

type WeightRequest struct {
	// Weight arrives as entered; the service parses and rejects bad input.
	Weight string `json:"weight" binding:"required"`
}

type ChallengeRequest struct {
	Statuses map[string]string `json:"statuses" binding:"required"`
}

type GoalsRequest struct {
	Goal1 string `json:"goal1"`
	Goal2 string `json:"goal2"`
	Goal3 string `json:"goal3"`
}

type AssignTrainerRequest struct {
	TrainerID string `json:"trainerId" binding:"required"`
}

type PhotoURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// clientError maps service errors on submission paths to HTTP statuses.
func clientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWeight),
		errors.Is(err, service.ErrInvalidMealSlot),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrEmptySubmission),
		errors.Is(err, service.ErrEmptyMessage):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoTrainerAssigned):
		abortWithError(c, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, service.ErrTrainerNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTrainerAlreadySet):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Submission failed")
	}
}

// SubmitMeal logs one meal slot: chat message plus per-day record merge.
func (h *ClientHandler) SubmitMeal(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Meal slot and text are required")
		return
	}

	msg, err := h.clientService.SubmitMeal(c.Request.Context(), clientID, service.MealSlot(req.Slot), req.Text, req.PhotoKey)
	if err != nil {
		clientError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ClientHandler) SubmitExercise(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Exercise name and detail are required")
		return
	}

	msg, err := h.clientService.SubmitExercise(c.Request.Context(), clientID, req.Name, req.Detail)
	if err != nil {
		clientError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ClientHandler) SubmitWeight(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}
	var req WeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Weight is required")
		return
	}

	msg, err := h.clientService.SubmitWeight(c.Request.Context(), clientID, req.Weight)
	if err != nil {
		clientError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ClientHandler) SubmitChallenge(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}
	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Challenge statuses are required")
		return
	}

	msg, err := h.clientService.SubmitChallenge(c.Request.Context(), clientID, req.Statuses)
	if err != nil {
		clientError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ClientHandler) SetGoals(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}
	var req GoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid goals payload")
		return
	}

	goals := domain.ChallengeGoals{Goal1: req.Goal1, Goal2: req.Goal2, Goal3: req.Goal3}
	if err := h.clientService.SetChallengeGoals(c.Request.Context(), clientID, goals); err != nil {
		clientError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *ClientHandler) GetGoals(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}
	goals, err := h.clientService.ChallengeGoals(c.Request.Context(), clientID)
	if err != nil {
		clientError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *ClientHandler) AssignTrainer(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}
	var req AssignTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Trainer ID is required")
		return
	}
	trainerID, err := parseHexID(req.TrainerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format")
		return
	}

	if err := h.clientService.AssignTrainer(c.Request.Context(), clientID, trainerID); err != nil {
		clientError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) SubmitSurvey(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}
	var survey domain.Survey
	if err := c.ShouldBindJSON(&survey); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid survey payload")
		return
	}

	if err := h.clientService.SubmitSurvey(c.Request.Context(), clientID, &survey); err != nil {
		clientError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// History returns the per-day record bundle for one date.
func (h *ClientHandler) History(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}
	date := c.Param("date")

	history, err := h.clientService.History(c.Request.Context(), clientID, date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date")
		return
	}
	c.JSON(http.StatusOK, history)
}

// WeightSeries returns dated weight readings for the graph. Accepts either
// range=week|month|year or explicit from/to dates.
func (h *ClientHandler) WeightSeries(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}

	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		to = time.Now().UTC().Format(domain.DateLayout)
		days := 6
		switch c.DefaultQuery("range", "week") {
		case "month":
			days = 29
		case "year":
			days = 365
		}
		from = time.Now().UTC().AddDate(0, 0, -days).Format(domain.DateLayout)
	}

	points, err := h.clientService.WeightSeries(c.Request.Context(), clientID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load weight series")
		return
	}
	c.JSON(http.StatusOK, points)
}

// PhotoUploadURL issues a presigned PUT URL for a meal photo.
func (h *ClientHandler) PhotoUploadURL(c *gin.Context) {
	clientID, ok := actorID(c)
	if !ok {
		return
	}
	var req PhotoURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Content type is required")
		return
	}

	resp, err := h.clientService.MealPhotoUploadURL(c.Request.Context(), clientID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrPhotoURLGeneration) {
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}
