package main

import (
	"context"                            // context package is needed for Redis operations
	"log"                                // log package is needed for logging
	"cash_management/internal/api"       // Custom package for API handlers
	"cash_management/internal/config"    // Custom package for configuration
	"cash_management/internal/middleware" // Custom package for middleware
	"cash_management/internal/profile"   // Profile coordinator
	"cash_management/internal/storage"   // Avatar file storage

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Setup avatar storage on disk
	avatarStore, err := storage.NewAvatarDisk(cfg.UploadDir)
	if err != nil {
		logrus.Fatalf("failed to prepare upload directory: %v", err)
	}
	profiles := &profile.Coordinator{DB: db, Store: avatarStore} // Profile coordinator

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient) // Shared JWT guard

	// Auth routes
	r.POST("/auth/register", api.RegisterHandler(db))              // Registration endpoint
	r.POST("/auth/login", api.LoginHandler(db, cfg.JWTSecret))     // Login endpoint
	r.POST("/auth/logout", auth, api.LogoutHandler(redisClient))   // Logout endpoint (revokes the token)
	r.POST("/auth/password", auth, api.ChangePasswordHandler(db))  // Password change endpoint

	// Dashboard (protected by JWT)
	r.GET("/dashboard", auth, api.DashboardHandler(db)) // Balance, counts and recent entries

	// Cash routes (protected by JWT)
	cashGroup := r.Group("/cash", auth)
	cashGroup.POST("", api.CreateCashHandler(db))                    // Record cash endpoint
	cashGroup.GET("", api.ListCashHandler(db))                       // Cash listing with search
	cashGroup.GET("/:id/delete", api.DeleteCashPreviewHandler(db))   // Read-only delete preview
	cashGroup.POST("/:id/delete", api.DeleteCashHandler(db))         // Delete commit endpoint

	// Expense routes (protected by JWT)
	expenseGroup := r.Group("/expenses", auth)
	expenseGroup.POST("", api.CreateExpenseHandler(db))                    // Record expense endpoint
	expenseGroup.GET("", api.ListExpensesHandler(db))                      // Expense listing with search
	expenseGroup.GET("/:id/delete", api.DeleteExpensePreviewHandler(db))   // Read-only delete preview
	expenseGroup.POST("/:id/delete", api.DeleteExpenseHandler(db))         // Delete commit endpoint

	// Profile routes (protected by JWT)
	profileGroup := r.Group("/profile", auth)
	profileGroup.GET("", api.GetProfileHandler(db, profiles))         // Profile view (lazily provisioned)
	profileGroup.PUT("", api.UpdateProfileHandler(db, profiles))      // Profile edit endpoint
	profileGroup.POST("/avatar", api.UploadAvatarHandler(profiles))   // Avatar upload endpoint
	profileGroup.DELETE("/avatar", api.DeleteAvatarHandler(profiles)) // Avatar removal endpoint

	// Serve stored avatar images
	r.Static("/media/profile_pics", cfg.UploadDir)

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin", auth, middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient)) // User directory endpoint
	adminGroup.GET("/cash", api.AdminListCashHandler(db))           // Cash entries across users
	adminGroup.GET("/expenses", api.AdminListExpensesHandler(db))   // Expenses across users

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
