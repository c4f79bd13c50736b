// ================== cmd/api/main.go ==================
//
// @title CineCircle API
// @version 1.0
// @description Movie/TV social platform: reviews, points, moderation
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	docs "github.com/adist/cinecircle/docs"
	"github.com/adist/cinecircle/internal/config"
	"github.com/adist/cinecircle/internal/database"
	"github.com/adist/cinecircle/internal/middleware"
	"github.com/adist/cinecircle/internal/pkg/response"
	"github.com/adist/cinecircle/internal/routes"
	pkgerrors "github.com/adist/cinecircle/pkg/errors"
)

func main() {
	// Load config and fail fast on anything the server cannot run without.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Configure Swagger metadata at runtime
	docs.SwaggerInfo.Title = "CineCircle API"
	docs.SwaggerInfo.Description = "Movie/TV social platform: reviews, points, moderation"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Connect to MongoDB
	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer db.Disconnect(context.Background())

	// Structured audit log
	auditLog, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create audit logger:", err)
	}
	defer auditLog.Sync()

	// Setup Gin
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.FrontendURL))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// Swagger documentation
	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	// Register all routes and get back the moderation service for scheduling
	moderationService := routes.SetupRoutes(router, db.Database, auditLog, cfg)

	// Batch moderation: once at startup, then every five minutes. The runner
	// is single-flight, so an overrunning batch just makes the next tick a
	// no-op.
	runBatch := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		if _, err := moderationService.RunBatch(ctx, cfg.BatchSize); err != nil && !errors.Is(err, pkgerrors.ErrBatchBusy) {
			log.Printf("Moderation batch failed: %v", err)
		}
	}
	go runBatch()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 5m", runBatch); err != nil {
		log.Fatal("Failed to schedule moderation batch:", err)
	}
	scheduler.Start()

	// config server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// start the server
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop scheduling new batches and let a running one finish.
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
