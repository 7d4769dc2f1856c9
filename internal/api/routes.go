package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pulsefit/fitness-tracker/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	workoutService service.WorkoutService,
	progressionService service.ProgressionService,
	trackingService service.TrackingService,
	photoService service.PhotoService,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService, authService)
	workoutHandler := NewWorkoutHandler(workoutService)
	progressHandler := NewProgressHandler(progressionService, planService)
	trackingHandler := NewTrackingHandler(trackingService)
	photoHandler := NewPhotoHandler(photoService)

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
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me/profile", authHandler.UpdateProfile)

		// --- Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.GetPlans)
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.GET("/active", planHandler.GetActivePlan)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.PUT("/:planId", planHandler.UpdatePlan)
			planGroup.POST("/:planId/activate", planHandler.ActivatePlan)
			planGroup.DELETE("/:planId", planHandler.DeletePlan)
		}

		// --- Guided Session Routes ---
		// One live session per user, keyed by the JWT; no session ID in the
		// path.
		sessionGroup := protected.Group("/session")
		{
			sessionGroup.POST("", workoutHandler.StartSession)
			sessionGroup.GET("", workoutHandler.GetSession)
			sessionGroup.POST("/complete-exercise", workoutHandler.CompleteExercise)
			sessionGroup.POST("/skip-rest", workoutHandler.SkipRest)
			sessionGroup.POST("/previous", workoutHandler.PreviousExercise)
			sessionGroup.POST("/next", workoutHandler.NextExercise)
			sessionGroup.POST("/pause", workoutHandler.TogglePause)
			sessionGroup.POST("/finish", workoutHandler.FinishSession)
			sessionGroup.DELETE("", workoutHandler.ExitSession)
		}

		// --- Workout Log Routes ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.LogWorkout)
			workoutGroup.GET("", workoutHandler.GetHistory)
		}

		// --- Progress Routes ---
		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("/stats", progressHandler.GetStats)
			progressGroup.GET("/achievements", progressHandler.GetAchievements)
			progressGroup.GET("/insight", progressHandler.GetInsight)
		}

		// --- Measurement Routes ---
		measurementGroup := protected.Group("/measurements")
		{
			measurementGroup.POST("", trackingHandler.AddMeasurement)
			measurementGroup.GET("", trackingHandler.GetMeasurements)
			measurementGroup.GET("/latest", trackingHandler.GetLatestMeasurement)
			measurementGroup.DELETE("/:measurementId", trackingHandler.DeleteMeasurement)
		}

		// --- Goal Routes ---
		goalGroup := protected.Group("/goals")
		{
			goalGroup.POST("", trackingHandler.AddGoal)
			goalGroup.GET("", trackingHandler.GetGoals)
			goalGroup.PUT("/:goalId", trackingHandler.UpdateGoal)
			goalGroup.POST("/:goalId/achieve", trackingHandler.AchieveGoal)
			goalGroup.DELETE("/:goalId", trackingHandler.DeleteGoal)
		}

		// --- Supplement Routes ---
		supplementGroup := protected.Group("/supplements")
		{
			supplementGroup.POST("", trackingHandler.AddSupplement)
			supplementGroup.GET("", trackingHandler.GetSupplements)
			supplementGroup.PUT("/:supplementId", trackingHandler.UpdateSupplement)
			supplementGroup.DELETE("/:supplementId", trackingHandler.DeleteSupplement)
			supplementGroup.PUT("/:supplementId/intake", trackingHandler.SetIntake)
		}

		// --- Photo Routes ---
		photoGroup := protected.Group("/photos")
		{
			photoGroup.POST("/upload-url", photoHandler.RequestUploadURL)
			photoGroup.POST("/confirm", photoHandler.ConfirmUpload)
			photoGroup.GET("", photoHandler.GetPhotos)
			photoGroup.DELETE("/:photoId", photoHandler.DeletePhoto)
		}
	}
}
