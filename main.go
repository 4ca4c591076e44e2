package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"pitchdesk/config"
	"pitchdesk/database"
	"pitchdesk/handlers"
	"pitchdesk/handlers/admin"
	"pitchdesk/middleware"
	"pitchdesk/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	// Wire services
	store := database.NewRepository(database.GetDB())
	gateway := services.NewStripeGateway(cfg.Stripe)
	lifecycle := services.NewLifecycle(store, gateway, cfg)
	review := services.NewReview(store, cfg)

	middleware.Init(cfg)
	handlers.Init(cfg, store, gateway, lifecycle)
	admin.Init(cfg, store, review)

	if cfg.Stripe.SecretKey == "" {
		log.Println("WARNING: STRIPE_SECRET_KEY not set, checkout endpoints will return 503")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// API Routes
	api := app.Group("/api")

	// Webhook endpoint: no auth, signature verification is the gate
	api.Post("/webhooks/stripe", handlers.StripeWebhook)

	// Idea routes
	api.Post("/ideas", middleware.AuthMiddleware, handlers.CreateIdea)
	api.Get("/ideas", middleware.AuthMiddleware, handlers.GetMyIdeas)

	// Checkout routes with stricter rate limiting
	checkoutGroup := api.Group("/checkout")
	checkoutGroup.Use(middleware.CheckoutRateLimitMiddleware())
	checkoutGroup.Post("/session", middleware.AuthMiddleware, handlers.CreateCheckoutSession)
	checkoutGroup.Post("/verify", middleware.AuthMiddleware, handlers.VerifyCheckout)

	// Notification routes
	api.Get("/messages", middleware.AuthMiddleware, handlers.GetMyMessages)

	// Achievement routes
	api.Get("/achievements", middleware.AuthMiddleware, handlers.GetMyAchievements)
	api.Get("/achievements/stats", middleware.AuthMiddleware, handlers.GetAchievementStats)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware, middleware.AdminAuthMiddleware)
	adminGroup.Get("/queue", admin.GetReviewQueue)
	adminGroup.Post("/review", admin.ReviewIdea)
	adminGroup.Get("/overview", admin.GetOverview)
	adminGroup.Get("/messages", admin.GetMessages)
	adminGroup.Post("/messages", admin.SendMessage)

	log.Printf("🚀 Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
