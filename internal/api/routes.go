package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitrack/routine-app/internal/builder"
	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/service"
)

// Services bundles everything SetupRoutes wires into handlers.
type Services struct {
	Auth           service.AuthService
	Catalog        service.CatalogService
	Routine        service.RoutineService
	Recommendation service.RecommendationService
	Log            service.LogService
	Chat           service.ChatService
}

func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	jwtSecret string,
	services Services,
	drafts *builder.Manager,
) {
	authHandler := NewAuthHandler(services.Auth)
	catalogHandler := NewCatalogHandler(services.Catalog)
	routineHandler := NewRoutineHandler(services.Routine)
	recommendationHandler := NewRecommendationHandler(services.Recommendation)
	customRoutineHandler := NewCustomRoutineHandler(services.Routine, drafts)
	logHandler := NewLogHandler(services.Log)
	chatHandler := NewChatHandler(services.Chat)

	router.Use(RequestLogger(logger))
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
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Exercise Catalog ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", catalogHandler.ListExercises)
			exerciseGroup.GET("/:id", catalogHandler.GetExercise)

			// Catalog writes are operator-only.
			exerciseGroup.POST("", RoleMiddleware(domain.RoleOperator), catalogHandler.CreateExercise)
			exerciseGroup.PUT("/:id", RoleMiddleware(domain.RoleOperator), catalogHandler.UpdateExercise)
			exerciseGroup.POST("/:id/media-upload-url", RoleMiddleware(domain.RoleOperator), catalogHandler.GetMediaUploadURL)
			exerciseGroup.DELETE("/:id/media", RoleMiddleware(domain.RoleOperator), catalogHandler.DeleteMedia)
		}

		// --- Base Routines ---
		routineGroup := protected.Group("/routines")
		{
			routineGroup.GET("", routineHandler.ListRoutines)
			routineGroup.GET("/:id", routineHandler.GetRoutine)
			routineGroup.POST("", RoleMiddleware(domain.RoleOperator), routineHandler.CreateRoutine)
		}

		// --- Questionnaire & Recommendations ---
		protected.POST("/answers", recommendationHandler.SubmitAnswer)
		recGroup := protected.Group("/recommendations")
		{
			recGroup.GET("", recommendationHandler.ListRecommendations)
			recGroup.POST("", recommendationHandler.AppendRecommendation)
			recGroup.DELETE("", recommendationHandler.RemoveRecommendation)
			recGroup.POST("/regenerate", recommendationHandler.RegeneratePlan)
		}

		// --- Custom Routines & Builder ---
		customGroup := protected.Group("/custom-routines")
		{
			customGroup.GET("", customRoutineHandler.ListCustomRoutines)
			customGroup.POST("", customRoutineHandler.CreateCustomRoutine)
			customGroup.GET("/:id", customRoutineHandler.GetCustomRoutine)
			customGroup.DELETE("/:id", customRoutineHandler.DeleteCustomRoutine)
		}
		draftGroup := protected.Group("/builder/draft")
		{
			draftGroup.GET("", customRoutineHandler.GetDraft)
			draftGroup.PUT("", customRoutineHandler.SetDraftHeader)
			draftGroup.DELETE("", customRoutineHandler.CancelDraft)
			draftGroup.POST("/rows", customRoutineHandler.AddDraftRow)
			draftGroup.PATCH("/rows/:localId", customRoutineHandler.UpdateDraftRow)
			draftGroup.DELETE("/rows/:localId", customRoutineHandler.RemoveDraftRow)
			draftGroup.POST("/reorder", customRoutineHandler.ReorderDraftRows)
			draftGroup.POST("/submit", customRoutineHandler.SubmitDraft)
		}

		// --- Workout Logs & Progress ---
		logGroup := protected.Group("/logs")
		{
			logGroup.GET("", logHandler.ListLogs)
			logGroup.POST("", logHandler.LogWorkout)
		}
		protected.GET("/progress/:exerciseId", logHandler.GetProgress)

		// --- Group Chat ---
		chatGroup := protected.Group("/chat")
		{
			chatGroup.GET("/:groupId/messages", chatHandler.GetHistory)
			chatGroup.POST("/:groupId/messages", chatHandler.SendMessage)
		}
	}
}
