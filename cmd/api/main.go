package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/warelane/stockscan/internal/http/handlers"
	imw "github.com/warelane/stockscan/internal/http/middleware"
	"github.com/warelane/stockscan/internal/otp"
	"github.com/warelane/stockscan/internal/platform/mailer"
	"github.com/warelane/stockscan/internal/platform/session"
	"github.com/warelane/stockscan/internal/repo/postgres"
	"github.com/warelane/stockscan/internal/service"
	"github.com/warelane/stockscan/pkg/config"
	"github.com/warelane/stockscan/pkg/database"
	"github.com/warelane/stockscan/pkg/events"
	"github.com/warelane/stockscan/pkg/logger"
	mw "github.com/warelane/stockscan/pkg/middleware"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if err := database.Migrate(ctx, cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Event bus is optional; without a broker the tool just skips audit events.
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		bus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer bus.Close()
		publisher = bus
	}

	var sessionStore session.Store
	if cfg.Redis.Addr != "" {
		redisStore := session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisStore.Close()
		sessionStore = redisStore
	} else {
		sessionStore = session.NewMemoryStore()
	}

	sessions := session.NewManager(
		sessionStore,
		cfg.Auth.JWTSecret,
		cfg.Auth.IdentityTTL,
		cfg.Auth.SessionIdleTTL,
		cfg.Auth.IdentityCookie,
		cfg.Auth.SessionCookie,
		cfg.Auth.SecureCookies,
	)

	mailSvc := buildMailer(cfg)

	// Repositories
	accountsRepo := postgres.NewAccountsRepo(pool)
	catalogRepo := postgres.NewCatalogRepo(pool)

	// Services
	challenges := otp.NewStore()
	authService := service.NewAuthService(accountsRepo, challenges, mailSvc, publisher)
	registrationService := service.NewRegistrationService(accountsRepo, publisher)
	scannerService := service.NewScannerService(catalogRepo, publisher)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, registrationService, sessions)
	scannerHandler := handlers.NewScannerHandler(scannerService)

	otpLimiter := imw.NewRateLimiter(pool, imw.RateLimitConfig{
		Requests: cfg.RateLimit.OTPRequests,
		Window:   cfg.RateLimit.OTPWindow,
		KeyFunc:  imw.OTPRequestKeyFunc,
	})

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)
	r.Use(imw.ResolveIdentity(sessions))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":"stockscan","status":"ok"}`))
	})
	r.Mount("/auth", authHandler.Routes(otpLimiter.Middleware()))
	r.Mount("/scanner", scannerHandler.Routes())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting stockscan", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func buildMailer(cfg *config.Config) mailer.Service {
	if cfg.Email.DevMode {
		return mailer.NewDevMailer()
	}
	if cfg.Email.MailerSendKey != "" {
		return mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	}
	return mailer.NewSMTPMailer(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPFrom,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPass,
		cfg.Email.SMTPUseTLS,
	)
}
