package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/beaconhr/onboard-api/config"
	"github.com/beaconhr/onboard-api/handlers"
	"github.com/beaconhr/onboard-api/middleware"
	"github.com/beaconhr/onboard-api/routes"
	"github.com/beaconhr/onboard-api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := config.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	emailService := services.NewEmailService(cfg.ResendAPIKey, cfg.FromEmail, cfg.FrontendURL)
	wsHandler := handlers.NewWSHandler(db)

	router := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-auth-token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		log.Printf("📨 %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Next()
		duration := time.Since(start)
		log.Printf("✅ %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)
	})

	// The command surface mixes public and authenticated operations, so the
	// gate never aborts here; handlers enforce authorization per operation.
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	v1.Use(middleware.AuthContext(cfg.JWTSecret))
	{
		routes.SetupAuthRoutes(v1, db, cfg)
		routes.SetupInvitationRoutes(v1, db, cfg, emailService)
		routes.SetupOnboardingRoutes(v1, db)
		routes.SetupVisaRoutes(v1, db, wsHandler)
		routes.SetupAdminRoutes(v1, db)
	}

	// Binary intake and live sessions have no public operations, so they sit
	// behind the hard-failure gate.
	fileHandler := &handlers.FileHandler{UploadDir: cfg.UploadDir}
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}

	direct := router.Group("/api/v1")
	direct.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		timeout := middleware.RequestTimeout(cfg.RequestTimeout)
		direct.POST("/files", timeout, fileHandler.Upload)
		direct.POST("/user/2fa/setup", timeout, authHandler.SetupTOTP)
		direct.POST("/user/2fa/verify", timeout, authHandler.VerifyTOTP)
		direct.POST("/user/2fa/disable", timeout, authHandler.DisableTOTP)

		// Websocket sessions outlive any request deadline.
		direct.GET("/ws", wsHandler.HandleWS)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
