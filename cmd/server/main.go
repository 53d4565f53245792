package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rocfit/classtrack-api/internal/auth"
	"github.com/rocfit/classtrack-api/internal/config"
	"github.com/rocfit/classtrack-api/internal/database"
	"github.com/rocfit/classtrack-api/internal/handlers"
	"github.com/rocfit/classtrack-api/internal/notifier"
	"github.com/rocfit/classtrack-api/internal/ratelimit"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Discord announcements are optional; without a bot token the API runs
	// silently.
	var staffNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			staffNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordStaffChannel)
		}
	}

	// The search rate limiter is optional too; without Redis it fails open.
	var limiter *ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = ratelimit.New(rdb, cfg.SearchRateLimit, time.Minute)
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	h := &handlers.Handlers{
		Meeting:      handlers.NewMeetingHandler(db),
		Student:      handlers.NewStudentHandler(db, limiter),
		Activity:     handlers.NewActivityHandler(db),
		Cancellation: handlers.NewCancellationHandler(db, staffNotifier),
		Session:      handlers.NewSessionHandler(db),
		Organization: handlers.NewOrganizationHandler(db),
		SignInSheet:  handlers.NewSignInSheetHandler(db, cfg.SheetsDir),
		Stats:        handlers.NewStatsHandler(db),
	}

	// Initialize Router
	r := chi.NewRouter()

	corsOrigin := ""
	if cfg.EnableCORS {
		corsOrigin = cfg.FrontendURL
	}

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, h, corsOrigin)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
