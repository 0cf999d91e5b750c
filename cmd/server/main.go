package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/phoenixvc/chaufher/internal/app"
	"github.com/phoenixvc/chaufher/internal/config"
	"github.com/phoenixvc/chaufher/internal/handler"
	"github.com/phoenixvc/chaufher/internal/jobs"
	internalRedis "github.com/phoenixvc/chaufher/internal/redis"
	"github.com/phoenixvc/chaufher/internal/repository/postgres"
	"github.com/phoenixvc/chaufher/internal/service"
)

func main() {
	// Local development overrides; absent .env is fine.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	server, sweeper := wireServer(db, redisClient, nrApp, cfg)

	sweeper.Start()
	defer sweeper.Stop()

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server and the
// background sweeper.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *jobs.Sweeper) {
	// Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Repositories.
	userRepo := postgres.NewUserRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	// Services.
	notificationService := service.NewNotificationService()
	searchService := service.NewDriverSearchService(driverRepo, availabilityRepo, locationStore)
	paymentService := service.NewPaymentService(paymentRepo, rideRepo, notificationService, cfg.Platform.FeeBps)
	rideService := service.NewRideService(db, rideRepo, driverRepo, availabilityRepo, searchService, paymentService, lockStore, cacheStore, notificationService)
	driverService := service.NewDriverService(driverRepo, availabilityRepo, locationStore, cacheStore)
	documentService := service.NewDocumentService(documentRepo, driverRepo, notificationService)
	userService := service.NewUserService(userRepo)

	// Handlers.
	userHandler := handler.NewUserHandler(userService)
	rideHandler := handler.NewRideHandler(rideService)
	driverHandler := handler.NewDriverHandler(driverService, searchService)
	documentHandler := handler.NewDocumentHandler(documentService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	router := app.NewRouter(app.RouterDeps{
		UserHandler:     userHandler,
		RideHandler:     rideHandler,
		DriverHandler:   driverHandler,
		DocumentHandler: documentHandler,
		PaymentHandler:  paymentHandler,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	sweeper := jobs.NewSweeper(documentService, rideRepo, notificationService, cfg.Jobs.SweepInterval)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return server, sweeper
}
