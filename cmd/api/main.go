package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/config"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/adapter"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/general"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/genre"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/middleware"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/movie"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/repository"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/upload"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/user"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/worker"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/database"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	_ "go.uber.org/automaxprocs"
)

func main() {
	// Load configuration from .env and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with validation and defaults
	appLogger, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	appLogger.Info("Starting moviehub backend service")

	// Connect to database with validation and defaults
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to database: " + err.Error())
	}

	appLogger.Info("Database connection established")

	// Run database migrations for all feature models
	if err := repository.Migrate(db); err != nil {
		appLogger.Fatal("Failed to migrate database: " + err.Error())
	}

	appLogger.Info("Database migration completed")

	// Redis backs the response cache; without it caching is skipped
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, response cache disabled: " + err.Error())
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	responseCache, err := middleware.NewResponseCache(&cfg.Cache, redisClient, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize response cache: " + err.Error())
	}
	if responseCache.Enabled() {
		appLogger.Info("Response cache enabled")
	}

	rateLimiter, err := middleware.NewRateLimiter(&cfg.RateLimit)
	if err != nil {
		appLogger.Fatal("Failed to initialize rate limiter: " + err.Error())
	}

	tokenSettings, err := utils.NewTokenSettings(&cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to initialize JWT settings: " + err.Error())
	}

	serverEnvironment := cfg.Server.Environment
	if serverEnvironment == "" {
		serverEnvironment = "development" // default
	}
	if tokenSettings.UsesDefaultSecret() {
		if serverEnvironment == "production" {
			appLogger.Fatal("JWT_SECRET must be set in production")
		}
		appLogger.Warn("JWT_SECRET is not set, signing tokens with the default secret")
	}

	uploadStore, err := upload.NewStore(&cfg.Upload, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize upload store: " + err.Error())
	}

	// Initialize GORM-based repositories
	genreRepo := repository.NewGORMGenreRepository(db, appLogger)
	movieRepo := repository.NewGORMMovieRepository(db, appLogger)
	userRepo := repository.NewGORMUserRepository(db, appLogger)
	generalRepo := repository.NewGORMGeneralRepository(db, appLogger)
	uploadRefs := repository.NewGORMUploadReferences(db, appLogger)

	// Initialize business services with dependency injection
	genreService := genre.NewService(genreRepo, appLogger)
	movieService := movie.NewService(movieRepo, adapter.NewGenreServiceToMovieGenreLookup(genreService), appLogger)
	userService := user.NewService(tokenSettings, userRepo, adapter.NewMovieServiceToUserMovieLookup(movieService), appLogger)
	generalService := general.NewService(generalRepo, movie.Types, user.Roles, appLogger)

	// Create the configured admin account on first start
	if err := userService.EnsureAdmin(context.Background(), &cfg.Admin); err != nil {
		appLogger.Error("Failed to ensure bootstrap admin: " + err.Error())
	}

	// Initialize HTTP handlers
	genreHandler := genre.NewHandler(genreService, uploadStore)
	movieHandler := movie.NewHandler(movieService, uploadStore)
	userHandler := user.NewHandler(userService, uploadStore)
	generalHandler := general.NewHandler(generalService)

	// Initialize background maintenance workers
	sweeper, err := upload.NewSweeper(uploadStore, uploadRefs, cfg.Worker.UploadGracePeriod)
	if err != nil {
		appLogger.Fatal("Failed to initialize upload sweeper: " + err.Error())
	}

	workers := make([]*worker.JobWorker, 0, 3)
	for _, job := range []struct {
		name     string
		interval string
		fallback time.Duration
		run      worker.JobFunc
	}{
		{"upload-sweep", cfg.Worker.UploadSweepInterval, time.Hour, sweeper.Run},
		{"rating-recalc", cfg.Worker.RatingRecalcInterval, 6 * time.Hour, movieService.RecalculateAverageRatings},
		{"rate-limit-cleanup", "", 10 * time.Minute, func(ctx context.Context) error {
			rateLimiter.Cleanup()
			return nil
		}},
	} {
		w, err := worker.NewJobWorker(job.name, job.interval, job.fallback, job.run, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize " + job.name + " worker: " + err.Error())
		}
		workers = append(workers, w)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Start background processing
	for _, w := range workers {
		if err := w.Start(workerCtx); err != nil {
			appLogger.Error("Failed to start worker: " + err.Error())
		}
	}

	if serverEnvironment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup HTTP router with middleware
	router := gin.New()

	// Configure standard middleware stack
	router.Use(requestid.New())
	router.Use(appLogger.GinMiddleware())
	router.Use(middleware.Recovery(appLogger))
	router.Use(cors.New(corsConfig(cfg.Server.AllowOrigins)))
	router.Use(middleware.ErrorHandler(appLogger))
	router.Use(responseCache.Invalidate())

	// Uploaded images
	router.Static("/"+upload.PublicPrefix, uploadStore.Dir())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		workerStatus := gin.H{}
		for i, name := range []string{"upload_sweep", "rating_recalc", "rate_limit_cleanup"} {
			workerStatus[name] = workers[i].IsRunning()
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "moviehub-backend",
			"cache":     responseCache.Enabled(),
			"workers":   workerStatus,
		})
	})

	// Register feature routes - each feature manages its own routes
	chain := middleware.NewChain(tokenSettings.Secret, responseCache, rateLimiter)
	root := &router.RouterGroup
	genreHandler.RegisterRoutes(root, chain)
	movieHandler.RegisterRoutes(root, chain)
	userHandler.RegisterRoutes(root, chain)
	generalHandler.RegisterRoutes(root, chain)

	// Parse server configuration with defaults
	serverPort := cfg.Server.Port
	if serverPort == "" {
		serverPort = "8080" // default
	}

	serverReadTimeout := 30 * time.Second // default
	if cfg.Server.ReadTimeout != "" {
		if duration, err := time.ParseDuration(cfg.Server.ReadTimeout); err == nil {
			serverReadTimeout = duration
		}
	}

	serverWriteTimeout := 30 * time.Second // default
	if cfg.Server.WriteTimeout != "" {
		if duration, err := time.ParseDuration(cfg.Server.WriteTimeout); err == nil {
			serverWriteTimeout = duration
		}
	}

	// Start HTTP server
	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
	}

	// Start server in goroutine for graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server: " + err.Error())
		}
	}()

	appLogger.Info("Server started successfully on port " + serverPort + " (" + serverEnvironment + " environment)")

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Stop workers first
	for _, w := range workers {
		if err := w.Stop(); err != nil {
			appLogger.Error("Error stopping worker: " + err.Error())
		}
	}

	// Shutdown server with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown: " + err.Error())
	}

	appLogger.Info("Server shutdown complete")
}

// corsConfig allows every origin unless a comma separated list is configured
func corsConfig(allowOrigins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "X-Cache"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range strings.Split(allowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
