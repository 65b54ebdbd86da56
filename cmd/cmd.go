package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shared-gallery-gateway/internal/api"
	"shared-gallery-gateway/internal/config"
	"shared-gallery-gateway/internal/handlers"
	"shared-gallery-gateway/internal/middleware"
	"shared-gallery-gateway/internal/services"
	"shared-gallery-gateway/internal/session"
	"shared-gallery-gateway/internal/web"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
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

	// Open session store and restore any persisted session
	store, err := session.Open(cfg.Data.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer store.Close()

	// Parse templates
	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// API client against the gallery backend
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout())
	log.Info().Str("base_url", cfg.API.BaseURL).Msg("Gallery API configured")

	// Initialize services
	authService := services.NewAuthService(client, store)
	galleryService := services.NewGalleryService(client)
	sharingService := services.NewSharingService(client)

	sessionHub := services.NewSessionHub()
	events := store.Subscribe()
	go sessionHub.Run(events)

	// Initialize handlers
	homeHandler := handlers.NewHomeHandler(renderer, store)
	authHandler := handlers.NewAuthHandler(renderer, authService, store)
	imageHandler := handlers.NewImageHandler(renderer, galleryService, sharingService, authService)
	sharingHandler := handlers.NewSharingHandler(renderer, sharingService, authService)
	wsHandler := handlers.NewSessionSocketHandler(sessionHub)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	// Routes
	r.Get("/", homeHandler.Home)
	r.Get("/auth/login", authHandler.LoginPage)
	r.Post("/auth/login", authHandler.Login)
	r.Get("/auth/register", authHandler.RegisterPage)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/logout", authHandler.Logout)

	// Privileged routes behind the session gate
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(store))
		r.Get("/images/my-images", imageHandler.MyImages)
		r.Get("/images/public", imageHandler.PublicImages)
		r.Get("/images/upload", imageHandler.UploadPage)
		r.Post("/images/upload", imageHandler.Upload)
		r.Get("/images/{imageID}", imageHandler.Detail)
		r.Post("/images/{imageID}/delete", imageHandler.Delete)
		r.Post("/images/{imageID}/share", imageHandler.Share)
		r.Get("/sharing/shared-by-me", sharingHandler.SharedByMe)
		r.Get("/sharing/shared-with-me", sharingHandler.SharedWithMe)
		r.Post("/sharing/unshare/{imageID}/{userID}", sharingHandler.Unshare)
	})

	// WebSocket route
	r.Get("/ws/session", wsHandler.Watch)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
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
			Msg("Starting gateway")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	store.Unsubscribe(events)
	close(events)

	log.Info().Msg("Gateway exited")
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
