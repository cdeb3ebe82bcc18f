package api

import (
	"net/http"

	"github.com/sonoda80/coachlog/internal/domain"
	"github.com/sonoda80/coachlog/internal/nutrition"
	"github.com/sonoda80/coachlog/internal/service"
	"github.com/sonoda80/coachlog/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	log *zap.Logger,
	hub *ws.Hub,
	authService service.AuthService,
	chatService service.ChatService,
	clientService service.ClientService,
	trainerService service.TrainerService,
) {
	authHandler := NewAuthHandler(authService)
	chatHandler := NewChatHandler(chatService)
	clientHandler := NewClientHandler(clientService)
	trainerHandler := NewTrainerHandler(trainerService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Static nutrition reference, readable without login.
		apiV1.GET("/foods", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"order":      nutrition.CategoryOrder,
				"categories": nutrition.Categories,
				"frequent":   nutrition.Frequent,
			})
		})
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// Live feed subscription; implicitly cancelled on disconnect.
		protected.GET("/ws", ws.Serve(hub, log, getUserIDFromContext))

		// --- Conversation Feed ---
		chatGroup := protected.Group("/chat")
		{
			chatGroup.GET("/:peerId/messages", chatHandler.History)
			chatGroup.POST("/:peerId/messages", chatHandler.Send)
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.POST("/trainer", clientHandler.AssignTrainer)

			clientGroup.POST("/meals", clientHandler.SubmitMeal)
			clientGroup.POST("/meals/photo-url", clientHandler.PhotoUploadURL)
			clientGroup.POST("/exercises", clientHandler.SubmitExercise)
			clientGroup.POST("/weights", clientHandler.SubmitWeight)
			clientGroup.POST("/challenges", clientHandler.SubmitChallenge)

			clientGroup.GET("/challenge-goals", clientHandler.GetGoals)
			clientGroup.PUT("/challenge-goals", clientHandler.SetGoals)

			clientGroup.PUT("/survey", clientHandler.SubmitSurvey)

			clientGroup.GET("/history/:date", clientHandler.History)
			clientGroup.GET("/weights", clientHandler.WeightSeries)
		}

		// --- Trainer Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.GET("/clients", trainerHandler.Clients)
			trainerGroup.GET("/clients/:clientId/survey", trainerHandler.ClientSurvey)
			trainerGroup.GET("/clients/:clientId/weekly", trainerHandler.Weekly)
			trainerGroup.POST("/clients/:clientId/weekly-summary", trainerHandler.SubmitWeeklySummary)
		}
	}
}
