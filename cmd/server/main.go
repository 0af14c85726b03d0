package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"team-task-manager/backend/internal/config"
	"team-task-manager/backend/internal/constants"
	"team-task-manager/backend/internal/database"
	"team-task-manager/backend/internal/handlers"
	"team-task-manager/backend/internal/middleware"
	"team-task-manager/backend/internal/repository"
	"team-task-manager/backend/internal/services"
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

	// Initialize Gin router
	r := gin.Default()

	// Session store: Redis-backed, surviving process restarts. Sessions
	// expire a fixed 24 hours after creation regardless of activity.
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"", // username (default user)
		"", // password
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAgeSeconds,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	membershipService := services.NewMembershipService(teamRepo, userRepo)
	teamService := services.NewTeamService(teamRepo, membershipService)
	taskService := services.NewTaskService(taskRepo, membershipService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	teamHandler := handlers.NewTeamHandler(teamService, membershipService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Team Task Manager API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.RequireAuth(), authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.DELETE("/account", middleware.RequireAuth(), authHandler.DeleteAccount)
		}

		// User directory (protected)
		api.GET("/users", middleware.RequireAuth(), authHandler.ListUsers)

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth())
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", teamHandler.DeleteTeam)
			teams.GET("/:id/members", teamHandler.ListMembers)
			teams.POST("/:id/members", teamHandler.AddMember)
			teams.DELETE("/:id/members/:user_id", teamHandler.RemoveMember)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
