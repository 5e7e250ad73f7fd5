package http

import (
	"net/http"

	"github.com/frontandrew/parking/internal/delivery/http/middleware"
	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/config"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler    *AuthHandler
	parkingHandler *ParkingHandler
	tariffHandler  *TariffHandler
	reportHandler  *ReportHandler
	tokenValidator middleware.TokenValidator
	metricsHandler http.Handler // nil - метрики выключены
	config         *config.Config
	logger         logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	parkingHandler *ParkingHandler,
	tariffHandler *TariffHandler,
	reportHandler *ReportHandler,
	tokenValidator middleware.TokenValidator,
	metricsHandler http.Handler,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		parkingHandler: parkingHandler,
		tariffHandler:  tariffHandler,
		reportHandler:  reportHandler,
		tokenValidator: tokenValidator,
		metricsHandler: metricsHandler,
		config:         config,
		logger:         logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger, "/health", rt.config.Metrics.Path))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	if rt.metricsHandler != nil && rt.config.Metrics.Enabled {
		r.Method(http.MethodGet, rt.config.Metrics.Path, rt.metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", rt.authHandler.Login)
		r.Post("/auth/refresh", rt.authHandler.RefreshToken)
		r.Post("/auth/logout", rt.authHandler.Logout)

		// Табло: тарифы и свободные места видны без входа
		r.Get("/tariff", rt.tariffHandler.GetRates)
		r.Get("/tariff/quote", rt.tariffHandler.Quote)
		r.Get("/occupancy", rt.parkingHandler.GetOccupancy)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenValidator))

			r.Get("/auth/me", rt.authHandler.GetMe)

			r.Route("/entries", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleOperator))
				r.Post("/", rt.parkingHandler.CheckIn)
				r.Get("/", rt.parkingHandler.ListEntries)
				r.Get("/{plate}", rt.parkingHandler.GetEntry)
				r.Post("/{plate}/exit", rt.parkingHandler.CheckOut)
				r.Post("/{plate}/cancel", rt.parkingHandler.Cancel)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))

				r.Post("/auth/register", rt.authHandler.Register)

				r.Route("/reports", func(r chi.Router) {
					r.Get("/daily", rt.reportHandler.DailyReport)
					r.Get("/daily.csv", rt.reportHandler.DailyReportCSV)
					r.Get("/receipts/{plate}", rt.reportHandler.GetReceipt)
					r.Get("/history/{plate}", rt.reportHandler.GetHistory)
					r.Get("/cancellations", rt.reportHandler.GetCancellations)
				})
			})
		})
	})

	return r
}
