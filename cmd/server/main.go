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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fitrack/routine-app/internal/api"
	"fitrack/routine-app/internal/builder"
	"fitrack/routine-app/internal/config"
	"fitrack/routine-app/internal/repository/mongo"
	"fitrack/routine-app/internal/service"
	"fitrack/routine-app/internal/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting routine app server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureRoutineIndexes(ctx, appDB.Collection("routines"))
		mongo.EnsureCustomRoutineIndexes(ctx, appDB.Collection("custom_routines"))
		mongo.EnsureRecommendationIndexes(ctx, appDB.Collection("recommendation_links"))
		mongo.EnsureAnswerIndexes(ctx, appDB.Collection("answers"))
		mongo.EnsureWorkoutLogIndexes(ctx, appDB.Collection("workout_logs"))
		mongo.EnsureChatIndexes(ctx, appDB.Collection("chat_messages"))
		logger.Info("index creation completed")
	}()

	// --- Redis (chat fanout) ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// --- File Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, logger)
	if err != nil {
		logger.Fatal("failed to initialize S3 storage", zap.Error(err))
	}

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)
	customRoutineRepo := mongo.NewMongoCustomRoutineRepository(appDB)
	recommendationRepo := mongo.NewMongoRecommendationRepository(appDB)
	answerRepo := mongo.NewMongoAnswerRepository(appDB)
	workoutLogRepo := mongo.NewMongoWorkoutLogRepository(appDB)
	chatRepo := mongo.NewMongoChatMessageRepository(appDB)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	catalogService := service.NewCatalogService(exerciseRepo, fileStorage)
	routineService := service.NewRoutineService(routineRepo, customRoutineRepo, exerciseRepo)
	recommendationService := service.NewRecommendationService(
		answerRepo,
		recommendationRepo,
		routineService,
		service.NewTagRecommender(routineRepo),
	)
	logService := service.NewLogService(workoutLogRepo, exerciseRepo)
	chatService := service.NewChatService(chatRepo, userRepo, service.NewRedisChatPublisher(redisClient), logger)

	drafts := builder.NewManager()

	// --- Gin Engine & Routes ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, logger, cfg.JWT.Secret, api.Services{
		Auth:           authService,
		Catalog:        catalogService,
		Routine:        routineService,
		Recommendation: recommendationService,
		Log:            logService,
		Chat:           chatService,
	}, drafts)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen and serve error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
