package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"piazza/pkg/config"
	"piazza/pkg/jwt"
	"piazza/pkg/logger"
	"piazza/pkg/middleware"

	piazzaHTTP "piazza/internal/controller/http"
	"piazza/internal/repo/persistent"
	"piazza/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "piazza/docs" // Swagger docs
)

const sweepLockKey = "posts:sweep:lock"

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	postRepo := persistent.NewPostRepository(db)
	userRepo := persistent.NewUserRepository(db)

	// Initialize use cases
	postUseCase := usecase.NewPostUseCase(postRepo, log)
	authUseCase := usecase.NewAuthUseCase(userRepo, jwtService, log)

	// Initialize HTTP handlers
	postHandler := piazzaHTTP.NewPostHandler(postUseCase, log)
	authHandler := piazzaHTTP.NewAuthHandler(authUseCase)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/api/user")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Every request on the posts surface reconciles expired statuses
	// first, then the operation itself runs against fresh state.
	posts := r.Group("/posts")
	posts.Use(middleware.SweepMiddleware(postUseCase, log))

	// Browsing Live posts is public; everything else needs an identity.
	posts.GET("", postHandler.ListPosts)

	authed := posts.Group("")
	authed.Use(middleware.AuthMiddleware(jwtService))
	authed.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))
	{
		authed.POST("", postHandler.CreatePost)
		authed.GET("/:id", postHandler.GetPost)
		authed.GET("/topic/:topic", postHandler.ListPostsByTopic)
		authed.GET("/most-active/:topic", postHandler.MostActivePost)
		authed.GET("/expired/topic/:topic", postHandler.ListExpiredPostsByTopic)
		authed.PATCH("/:id/like", postHandler.LikePost)
		authed.PATCH("/:id/dislike", postHandler.DislikePost)
		authed.POST("/:id/comment", postHandler.CommentPost)
		authed.PATCH("/:id", postHandler.UpdatePost)
		authed.DELETE("/:id", postHandler.DeletePost)
	}

	// Periodic sweep, independent of request traffic. The redis lock
	// keeps a multi-instance deployment from sweeping in lockstep.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runSweepLoop(sweepCtx, cfg.SweepInterval, postUseCase, redisClient, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Piazza service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down piazza service...")

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Piazza service exited")
}

func runSweepLoop(ctx context.Context, interval time.Duration, postUseCase usecase.PostUseCase, redisClient *redis.Client, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			locked, err := redisClient.SetNX(ctx, sweepLockKey, "1", interval).Result()
			if err != nil {
				log.Error("Failed to acquire sweep lock: %v", err)
				continue
			}
			if !locked {
				continue
			}

			expired, err := postUseCase.ExpireDue()
			if err != nil {
				log.Error("Periodic sweep failed: %v", err)
				continue
			}
			if expired > 0 {
				log.Info("Periodic sweep expired %d posts", expired)
			}
		}
	}
}
