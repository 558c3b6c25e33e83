package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sharehub/nepse-ledger-backend/internal/api/handlers"
	custommiddleware "github.com/sharehub/nepse-ledger-backend/internal/api/middleware"
	"github.com/sharehub/nepse-ledger-backend/internal/config"
	"github.com/sharehub/nepse-ledger-backend/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System   *service.SystemService
	Ledger   *service.LedgerService
	Holdings *service.HoldingsService
	Quotes   *service.QuoteService
	Imports  *service.ImportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace, no user scoping
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		// Fee schedule preview, pure and user-independent
		feeHandler := handlers.NewFeeHandler()
		r.Get("/fees", feeHandler.GetFees)

		// Everything below is scoped to the calling user
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.RequireUser)

			r.Route("/lot", func(r chi.Router) {
				lotHandler := handlers.NewLotHandler(svc.Ledger)
				r.Post("/", lotHandler.CreateLot)
				r.Get("/", lotHandler.AllLots)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", lotHandler.GetLot)
					r.Put("/", lotHandler.UpdateLot)
					r.Delete("/", lotHandler.DeleteLot)
				})
			})

			r.Route("/sale", func(r chi.Router) {
				saleHandler := handlers.NewSaleHandler(svc.Ledger)
				r.Post("/", saleHandler.CreateSale)
				r.Get("/", saleHandler.AllSales)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", saleHandler.GetSale)
					r.Delete("/", saleHandler.DeleteSale)
				})
			})

			r.Route("/holding", func(r chi.Router) {
				holdingHandler := handlers.NewHoldingHandler(svc.Holdings)
				r.Get("/", holdingHandler.Portfolio)
				r.Get("/{scrip}", holdingHandler.HoldingDetail)
			})

			r.Route("/quote", func(r chi.Router) {
				quoteHandler := handlers.NewQuoteHandler(svc.Holdings, svc.Quotes)
				r.Post("/refresh", quoteHandler.RefreshQuotes)
				r.Get("/{scrip}", quoteHandler.GetQuote)
			})

			r.Route("/import", func(r chi.Router) {
				importHandler := handlers.NewImportHandler(svc.Imports)
				r.Post("/", importHandler.ImportCandidates)
				r.Get("/config", importHandler.GetConfig)
				r.Put("/config", importHandler.UpdateConfig)
			})
		})
	})

	return r
}
