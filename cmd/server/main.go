package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pump-backend/internal/archive"
	"pump-backend/internal/auth"
	"pump-backend/internal/cache"
	"pump-backend/internal/config"
	"pump-backend/internal/database"
	"pump-backend/internal/db"
	"pump-backend/internal/handlers"
	"pump-backend/internal/health"
	h "pump-backend/internal/http"
	"pump-backend/internal/mailer"
	"pump-backend/internal/middleware"
	"pump-backend/internal/repositories"
	"pump-backend/internal/services"
	"pump-backend/migrations"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; price lookups fall back to the database
	if err := cache.Init(cfg); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (price lookups will hit the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	// Uses embedded migrations for standalone binary operation
	migrator := database.NewMigrator(pool, migrations.FS)
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrator.RunMigrations(migrateCtx); err != nil {
		cancelMigrate()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancelMigrate()

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	stationRepo := repositories.NewStationRepository(pool)
	employeeRepo := repositories.NewEmployeeRepository(pool)
	fuelRepo := repositories.NewFuelRepository(pool)
	nozzleRepo := repositories.NewNozzleRepository(pool)
	readingRepo := repositories.NewReadingRepository(pool)
	stockRepo := repositories.NewStockRepository(pool)

	// Use SMTP for production, fallback to the mock mailer when unconfigured
	var mail mailer.Mailer
	if cfg.SMTP.Host != "" && cfg.SMTP.User != "" {
		log.Println("[Mailer] Using SMTP for report delivery")
		mail = mailer.NewSMTPMailer(cfg)
	} else {
		log.Println("WARNING: SMTP not configured, using mock mailer (reports will only print to logs)")
		mail = mailer.NewMockMailer()
	}

	reportArchive := archive.New(cfg)

	// Services
	stationGuard := services.NewStationGuard(stationRepo)
	reconciler := services.NewReconciler(readingRepo, stockRepo, stationGuard)
	fuelService := services.NewFuelService(fuelRepo, stationGuard)
	readingService := services.NewReadingService(readingRepo, nozzleRepo, fuelService, stationGuard, reconciler)
	stockService := services.NewStockService(stockRepo, readingRepo, stationGuard)
	reportService := services.NewReportService(readingRepo, stockRepo, stationRepo, mail, reportArchive)

	scheduler, err := services.NewReportScheduler(reportService, cfg)
	if err != nil {
		log.Fatalf("Failed to configure report scheduler: %v", err)
	}

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	authHandler := handlers.NewAuthHandler(userRepo, jwtManager)
	stationHandler := handlers.NewStationHandler(stationRepo)
	employeeHandler := handlers.NewEmployeeHandler(employeeRepo, stationGuard)
	fuelHandler := handlers.NewFuelHandler(fuelService)
	nozzleHandler := handlers.NewNozzleHandler(nozzleRepo, stationGuard)
	readingHandler := handlers.NewReadingHandler(readingService)
	stockHandler := handlers.NewStockHandler(stockService, reconciler)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		stationHandler,
		employeeHandler,
		fuelHandler,
		nozzleHandler,
		readingHandler,
		stockHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	// Background report scheduler, stopped on shutdown
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go scheduler.Start(schedulerCtx)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	log.Println("Server stopped")
}
