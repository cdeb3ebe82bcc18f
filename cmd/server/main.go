package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sonoda80/coachlog/internal/api"
	"github.com/sonoda80/coachlog/internal/config"
	"github.com/sonoda80/coachlog/internal/logging"
	"github.com/sonoda80/coachlog/internal/repository/mongo"
	"github.com/sonoda80/coachlog/internal/service"
	"github.com/sonoda80/coachlog/internal/storage"
	"github.com/sonoda80/coachlog/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	log, err := logging.New(os.Getenv("DEBUG") != "")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting coachlog server")

	// --- Configuration ---
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal("could not load config", zap.Error(err))
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("database connection established", zap.String("db", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := errors.Join(
			mongo.EnsureUserIndexes(ctx, appDB.Collection("users")),
			mongo.EnsureMessageIndexes(ctx, appDB.Collection("messages")),
			mongo.EnsureRecordIndexes(ctx, appDB.Collection("daily_records")),
			mongo.EnsureSurveyIndexes(ctx, appDB.Collection("surveys")),
			mongo.EnsureGoalIndexes(ctx, appDB.Collection("challenge_goals")),
			mongo.EnsureSummaryIndexes(ctx, appDB.Collection("weekly_summaries")),
		); err != nil {
			log.Warn("index creation incomplete", zap.Error(err))
		}
	}()

	// --- Photo Storage ---
	var photoStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		photoStorage, err = storage.NewS3Storage(cfg.S3, log)
		if err != nil {
			log.Fatal("failed to initialize photo storage", zap.Error(err))
		}
	} else {
		log.Warn("no S3 bucket configured; meal photo attachments disabled")
	}

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	msgRepo := mongo.NewMongoMessageRepository(appDB)
	recordRepo := mongo.NewMongoRecordRepository(appDB)
	goalRepo := mongo.NewMongoGoalRepository(appDB)
	surveyRepo := mongo.NewMongoSurveyRepository(appDB)
	summaryRepo := mongo.NewMongoSummaryRepository(appDB)

	// --- Live Feed ---
	hub := ws.NewHub(log.Named("ws"))

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	chatService := service.NewChatService(userRepo, msgRepo, hub)
	clientService := service.NewClientService(userRepo, recordRepo, goalRepo, surveyRepo, chatService, hub, photoStorage)
	trainerService := service.NewTrainerService(userRepo, recordRepo, goalRepo, surveyRepo, summaryRepo, chatService)

	// --- HTTP ---
	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, log, hub, authService, chatService, clientService, trainerService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen and serve error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
