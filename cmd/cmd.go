package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daily-checkin-backend/internal/config"
	"daily-checkin-backend/internal/handlers"
	"daily-checkin-backend/internal/middleware"
	"daily-checkin-backend/internal/repository"
	"daily-checkin-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	followRepo := repository.NewFollowRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	// Initialize services
	authService := services.NewAuthService(cfg.Auth.JWTSecret)
	profileService := services.NewProfileService(profileRepo)
	checkinService := services.NewCheckinService(checkinRepo)
	feedService := services.NewFeedService(checkinRepo, reactionRepo)
	followService := services.NewFollowService(followRepo)
	reactionService := services.NewReactionService(reactionRepo)
	uploadService, err := services.NewUploadService(
		context.Background(),
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload service")
	}
	pushService, err := services.NewPushService(cfg.APNS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push service")
	}
	feedHub := services.NewFeedHub()
	notifier := services.NewNotificationService(followRepo, profileRepo, feedHub, pushService)

	// Initialize handlers
	checkinHandler := handlers.NewCheckinHandler(checkinService, profileService, notifier)
	feedHandler := handlers.NewFeedHandler(feedService)
	followHandler := handlers.NewFollowHandler(followService)
	reactionHandler := handlers.NewReactionHandler(reactionService)
	profileHandler := handlers.NewProfileHandler(profileService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	wsHandler := handlers.NewWebSocketHandler(feedHub, authService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(authService))

		r.Post("/checkins", checkinHandler.Create)
		r.Get("/checkins", checkinHandler.List)
		r.Get("/checkins/{checkin_id}", checkinHandler.Get)

		r.Get("/social/feed", feedHandler.GetFeed)

		r.Post("/reactions", reactionHandler.Add)
		r.Delete("/reactions", reactionHandler.Remove)
		r.Get("/reactions", reactionHandler.Get)

		r.Post("/follows", followHandler.Follow)
		r.Delete("/follows", followHandler.Unfollow)
		r.Get("/follows", followHandler.List)
		r.Get("/follows/status", followHandler.Status)

		r.Get("/users/search", profileHandler.Search)

		r.Get("/profile", profileHandler.Get)
		r.Post("/profile/sync", profileHandler.Sync)
		r.Put("/profile/username", profileHandler.UpdateUsername)
		r.Put("/profile/background", profileHandler.UpdateBackground)
		r.Put("/profile/push-token", profileHandler.UpdatePushToken)

		r.Post("/upload-url", uploadHandler.CreateUploadURL)
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
