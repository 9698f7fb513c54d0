package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/genova-platform/genova_backend/internal/actions"
	"github.com/genova-platform/genova_backend/internal/config"
	"github.com/genova-platform/genova_backend/internal/db"
	"github.com/genova-platform/genova_backend/internal/handlers"
	"github.com/genova-platform/genova_backend/internal/middleware"
	"github.com/genova-platform/genova_backend/internal/models"
	"github.com/genova-platform/genova_backend/internal/onboarding"
	"github.com/genova-platform/genova_backend/internal/realtime"
	"github.com/genova-platform/genova_backend/internal/services/analytics"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis not reachable:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	broker := realtime.NewBroker(hub, rdb)
	go broker.Bridge(context.Background())

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.ExpertProfile{},
		&models.Inquiry{},
		&models.Project{},
		&models.Milestone{},
		&models.ProjectFile{},
		&models.ProjectMessage{},
		&models.Review{},
		&models.ForumCategory{},
		&models.ForumPost{},
		&models.ForumReply{},
		&models.AvailabilitySlot{},
		&models.AnalyticsEvent{},
		&models.SavedExpert{},
	); err != nil {
		log.Fatal(err)
	}

	tracker := analytics.NewTracker(gdb)
	draftStore := onboarding.NewStore(rdb)
	aiClient := actions.NewClient(cfg.AIBaseURL)

	app := fiber.New(fiber.Config{
		BodyLimit:    30 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length, Content-Disposition",
		AllowCredentials: true,
	}))

	app.Static("/uploads", cfg.UploadDir)

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
		Tracker:   tracker,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}

	profileH := handlers.NewProfileHandler(gdb, broker)
	onboardingH := handlers.NewOnboardingHandler(
		gdb, draftStore, tracker, broker,
		cfg.UploadDir, cfg.PublicBaseURL,
		cfg.JWTSecret, cfg.JWTExpiresMin,
	)
	inquiryH := handlers.NewInquiryHandler(gdb, broker)
	projectH := handlers.NewProjectHandler(gdb, hub, broker, cfg.UploadDir, cfg.PublicBaseURL)
	reviewH := handlers.NewReviewHandler(gdb, broker)
	forumH := handlers.NewForumHandler(gdb, broker)
	availabilityH := handlers.NewAvailabilityHandler(gdb, broker)
	savedH := handlers.NewSavedExpertHandler(gdb)
	aiH := handlers.NewAIHandler(aiClient)
	adminH := handlers.NewAdminHandler(gdb)
	analyticsH := handlers.NewAnalyticsHandler(tracker)
	realtimeH := handlers.NewRealtimeHandler(hub, cfg.JWTSecret)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	authChain := []fiber.Handler{
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	}
	adminOnly := middleware.RequireRoles("admin")

	api.Get("/auth/me", append(authChain, authH.Me)...)

	profileH.Routes(api, authChain...)
	onboardingH.Routes(api, authChain...)
	inquiryH.Routes(api, authChain...)
	projectH.Routes(api, authChain...)
	reviewH.Routes(api, authChain, adminOnly)
	forumH.Routes(api, authChain, adminOnly)
	availabilityH.Routes(api, authChain...)
	savedH.Routes(api, authChain...)
	aiH.Routes(api, authChain...)
	adminH.Routes(api, authChain, adminOnly)
	analyticsH.Routes(api, middleware.OptionalJWTLocals(cfg.JWTSecret))
	realtimeH.Routes(app)

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
