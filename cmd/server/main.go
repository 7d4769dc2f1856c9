package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pulsefit/fitness-tracker/internal/api"
	"pulsefit/fitness-tracker/internal/config"
	"pulsefit/fitness-tracker/internal/gamification"
	"pulsefit/fitness-tracker/internal/guided"
	"pulsefit/fitness-tracker/internal/planner"
	"pulsefit/fitness-tracker/internal/repository/mongo"
	"pulsefit/fitness-tracker/internal/service"
	"pulsefit/fitness-tracker/internal/storage"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.Info("starting fitness tracker server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to MongoDB")
	}
	defer func() {
		logrus.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logrus.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logrus.Info("database connection established")

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	sessionRepo := mongo.NewMongoSessionLogRepository(appDB)
	gamificationRepo := mongo.NewMongoGamificationRepository(appDB)
	achievementRepo := mongo.NewMongoAchievementRepository(appDB)
	goalRepo := mongo.NewMongoGoalRepository(appDB)
	measurementRepo := mongo.NewMongoMeasurementRepository(appDB)
	photoRepo := mongo.NewMongoPhotoRepository(appDB)
	supplementRepo := mongo.NewMongoSupplementRepository(appDB)

	// --- Ensure Indexes + Seed Achievements ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		indexErrs := []error{
			mongo.EnsureUserIndexes(ctx, appDB.Collection("users")),
			mongo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans")),
			mongo.EnsureSessionLogIndexes(ctx, appDB.Collection("session_logs")),
			mongo.EnsureGamificationIndexes(ctx, appDB.Collection("gamification")),
			mongo.EnsureAchievementIndexes(ctx, appDB.Collection("achievements"), appDB.Collection("unlocked_achievements")),
			mongo.EnsureGoalIndexes(ctx, appDB.Collection("goals")),
			mongo.EnsureMeasurementIndexes(ctx, appDB.Collection("measurements")),
			mongo.EnsurePhotoIndexes(ctx, appDB.Collection("progress_photos")),
			mongo.EnsureSupplementIndexes(ctx, appDB.Collection("supplements"), appDB.Collection("supplement_intake")),
		}
		for _, err := range indexErrs {
			if err != nil {
				logrus.WithError(err).Error("index creation failed")
			}
		}
		if err := achievementRepo.SeedDefinitions(ctx, gamification.Catalog()); err != nil {
			logrus.WithError(err).Error("achievement catalog seeding failed")
		}
		logrus.Info("index and seed bootstrap completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize S3 storage")
	}

	// --- AI Gateway (optional) ---
	var planGen planner.PlanGenerator
	var insightGen planner.InsightGenerator
	if cfg.AI.Endpoint != "" {
		gateway, err := planner.NewGatewayClient(cfg.AI)
		if err != nil {
			logrus.WithError(err).Fatal("failed to initialize AI gateway client")
		}
		planGen = gateway
		insightGen = gateway
		logrus.WithField("endpoint", cfg.AI.Endpoint).Info("AI gateway configured")
	} else {
		logrus.Info("AI gateway not configured; generation endpoints disabled")
	}

	// --- Initialize Services ---
	clock := service.SystemClock()
	sessionManager := guided.NewManager(guided.SystemClock(), guided.TimerScheduler(), guided.NoopCue())

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	progressionService := service.NewProgressionService(gamificationRepo, sessionRepo, achievementRepo, goalRepo, clock)
	planService := service.NewPlanService(planRepo, progressionService, planGen, insightGen)
	workoutService := service.NewWorkoutService(planRepo, sessionRepo, progressionService, sessionManager, cfg.Workout.RestSeconds)
	trackingService := service.NewTrackingService(measurementRepo, goalRepo, supplementRepo, clock)
	photoService := service.NewPhotoService(photoRepo, fileStorage)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, authService, planService, workoutService, progressionService, trackingService, photoService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.WithField("address", cfg.Server.Address).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("listen and serve error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server exiting")
}
