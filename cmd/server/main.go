package main

import (
	"log"

	"github.com/crewcard/crewcard-api/internal/config"
	"github.com/crewcard/crewcard-api/internal/database"
	"github.com/crewcard/crewcard-api/internal/handlers"
	"github.com/crewcard/crewcard-api/internal/middleware"
	"github.com/crewcard/crewcard-api/internal/ratelimit"
	"github.com/crewcard/crewcard-api/internal/repository"
	"github.com/crewcard/crewcard-api/internal/scheduler"
	"github.com/crewcard/crewcard-api/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	crewRepo := repository.NewCrewRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	bidRepo := repository.NewBidRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	menuRepo := repository.NewMenuRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	crewService := services.NewCrewService(db, crewRepo, activityRepo, menuRepo)
	taskService := services.NewTaskService(db, taskRepo, crewRepo, activityRepo)
	auctionService := services.NewAuctionService(db, taskRepo, bidRepo, crewRepo, activityRepo)
	milestoneService := services.NewMilestoneService(db, milestoneRepo, crewRepo, menuRepo, activityRepo)

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(10, "tcp", redisAddr, "", []byte(cfg.SessionSecret))
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions("crewcard_session", store))

	// Rate limiting shares the session Redis instance, so limits hold across
	// server instances.
	redisClient := goredis.NewClient(&goredis.Options{Addr: redisAddr})
	limitStore := ratelimit.NewRedisStore(redisClient)
	bidLimiter := ratelimit.NewLimiter(limitStore, "bids", cfg.RateLimitBids, cfg.RateLimitWindow)
	milestoneLimiter := ratelimit.NewLimiter(limitStore, "milestones", cfg.RateLimitMilestones, cfg.RateLimitWindow)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	crewHandler := handlers.NewCrewHandler(crewService)
	taskHandler := handlers.NewTaskHandler(taskService, auctionService)
	milestoneHandler := handlers.NewMilestoneHandler(milestoneService)

	// Background jobs
	jobs := scheduler.Start(auctionService, cfg)
	defer jobs.Stop()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "CrewCard API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Crew routes (protected)
		crews := api.Group("/crews")
		crews.Use(middleware.RequireAuth())
		{
			crews.POST("", crewHandler.CreateCrew)
			crews.GET("", crewHandler.ListCrews)
			crews.POST("/join", crewHandler.JoinCrew)
			crews.GET("/:id", middleware.RequireCrewAccess(), crewHandler.GetCrew)
			crews.GET("/:id/feed", middleware.RequireCrewAccess(), crewHandler.GetFeed)
			crews.GET("/:id/leaderboard", middleware.RequireCrewAccess(), crewHandler.GetLeaderboard)
			crews.GET("/:id/menu", middleware.RequireCrewAccess(), crewHandler.GetMenu)
			crews.GET("/:id/tasks", middleware.RequireCrewAccess(), taskHandler.ListTasks)
			crews.POST("/:id/tasks", middleware.RequireCrewAccess(), middleware.RequireRequesterRole(), taskHandler.CreateTask)
			crews.GET("/:id/milestones", middleware.RequireCrewAccess(), milestoneHandler.ListMilestones)
			crews.POST("/:id/milestones", middleware.RequireCrewAccess(), middleware.RateLimit(milestoneLimiter), milestoneHandler.LogMilestone)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
			tasks.POST("/:id/claim", middleware.RequireTaskAccess(), taskHandler.ClaimTask)
			tasks.POST("/:id/start", middleware.RequireTaskAccess(), taskHandler.StartTask)
			tasks.POST("/:id/complete", middleware.RequireTaskAccess(), taskHandler.CompleteTask)
			tasks.POST("/:id/cancel", middleware.RequireTaskAccess(), taskHandler.CancelTask)
			tasks.POST("/:id/bids", middleware.RequireTaskAccess(), middleware.RateLimit(bidLimiter), taskHandler.PlaceBid)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
