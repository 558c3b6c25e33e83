package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sharehub/nepse-ledger-backend/internal/api"
	"github.com/sharehub/nepse-ledger-backend/internal/config"
	"github.com/sharehub/nepse-ledger-backend/internal/database"
	"github.com/sharehub/nepse-ledger-backend/internal/nepse"
	"github.com/sharehub/nepse-ledger-backend/internal/repository"
	"github.com/sharehub/nepse-ledger-backend/internal/scheduler"
	"github.com/sharehub/nepse-ledger-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	lotRepo := repository.NewLotRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	importConfigRepo := repository.NewImportConfigRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	ledgerService := service.NewLedgerService(db, lotRepo, saleRepo)
	quoteService := service.NewQuoteService(
		quoteRepo,
		lotRepo,
		nepse.NewClient(cfg.Quotes.APIBaseURL),
		cfg.Quotes.CacheTTL,
	)
	holdingsService := service.NewHoldingsService(ledgerService, quoteService)
	importService, err := service.NewImportService(db, lotRepo, importConfigRepo, cfg.Import.FernetKey)
	if err != nil {
		log.Fatalf("Failed to initialize import service: %v", err)
	}

	// Background quote refresh
	sched := scheduler.New(quoteService)
	if err := sched.Start(cfg.Quotes.RefreshSchedule); err != nil {
		log.Fatalf("Failed to start quote scheduler: %v", err)
	}
	defer sched.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:   systemService,
		Ledger:   ledgerService,
		Holdings: holdingsService,
		Quotes:   quoteService,
		Imports:  importService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
