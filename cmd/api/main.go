package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resortdesk/internal/config"
	"resortdesk/internal/database"
	"resortdesk/internal/domain"
	"resortdesk/internal/middleware"
	"resortdesk/internal/modules/auth"
	"resortdesk/internal/modules/booking"
	"resortdesk/internal/modules/catalog"
	"resortdesk/internal/modules/credit"
	notifmod "resortdesk/internal/modules/notification"
	"resortdesk/internal/modules/payment"
	"resortdesk/internal/pkg/jwt"
	"resortdesk/internal/pkg/mailer"
	"resortdesk/internal/repository"
	"resortdesk/internal/worker"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	loggerf := logger.Sugar().Infof

	tiers, err := cfg.Tiers()
	if err != nil {
		logger.Fatal("invalid CANCELLATION_TIERS", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres gets versioned migrations with the overlap exclusion
	// constraint. The SQLite dev path falls back to AutoMigrate and relies
	// on the service-level availability check alone.
	if database.IsPostgres(cfg.DatabaseDSN) {
		if err := database.Migrate(ctx, db, cfg.Migrations); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	} else {
		if err := repository.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewUserRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL())

	hub := notifmod.NewHub()
	defer hub.Close()

	notificationService := notifmod.NewService(notificationRepo, userRepo, hub, loggerf)
	creditService := credit.NewService(creditRepo, loggerf)

	// The booking and payment services call into each other, so the
	// confirmer side is bound through a closure.
	var bookingService *booking.Service
	paymentService := payment.NewService(paymentRepo, payment.ConfirmerFunc(
		func(ctx context.Context, bookingID int64) (*domain.Booking, error) {
			return bookingService.ConfirmBooking(ctx, bookingID)
		}), loggerf)
	bookingService = booking.NewService(
		bookingRepo, resourceRepo, userRepo,
		creditService, paymentService, notificationService,
		tiers, loggerf,
	)

	authService := auth.NewService(userRepo, jwtService)
	catalogService := catalog.NewService(resourceRepo, bookingRepo)

	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	bookingHandler := booking.NewHandler(bookingService)
	creditHandler := credit.NewHandler(creditService)
	paymentHandler := payment.NewHandler(paymentService, loggerf)
	notificationHandler := notifmod.NewHandler(notificationService, hub, jwtService, loggerf)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitWindow(), cfg.RateLimitRequests)

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(rateLimiter))

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)
	catalogHandler.RegisterRoutes(v1)
	paymentHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth(jwtService))
	authHandler.RegisterProtectedRoutes(protected)
	bookingHandler.RegisterRoutes(protected)
	creditHandler.RegisterRoutes(protected)
	notificationHandler.RegisterRoutes(protected)

	staff := protected.Group("/")
	staff.Use(middleware.StaffOnly())
	bookingHandler.RegisterStaffRoutes(staff)
	paymentHandler.RegisterStaffRoutes(staff)

	notificationHandler.RegisterWebSocketRoutes(r)

	smtp := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFromName, cfg.SMTPFromEmail)
	dispatcher := worker.NewDispatcher(notificationRepo, smtp, creditService, rateLimiter, logger, cfg.WorkerInterval())
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
