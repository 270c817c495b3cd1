package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"cleanapp-server/config"
	"cleanapp-server/database"
	"cleanapp-server/routes"
	"cleanapp-server/services"
	ws "cleanapp-server/websocket"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.Seed.OnStart {
		if err := Seed(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// WebSocket hub for chat notifications
	hub := ws.NewHub()
	go hub.Run()

	reviews := services.NewReviewService(db)
	svcs := routes.Services{
		Users:         services.NewUserService(db),
		Addresses:     services.NewAddressService(db),
		Categories:    services.NewCategoryService(db),
		Offers:        services.NewOfferService(db),
		Jobs:          services.NewJobService(db),
		Reviews:       reviews,
		Conversations: services.NewConversationService(db, ws.NewNotifier(hub)),
	}

	// Nightly reconciliation of provider rating aggregates. The fold is
	// idempotent, so overlapping with live recomputes is harmless.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 3 * * *", func() {
		if err := reviews.RecomputeAll(); err != nil {
			log.Printf("rating reconciliation failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule rating reconciliation: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := routes.SetupRouter(cfg, svcs, hub)

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
