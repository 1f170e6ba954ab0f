package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"loan-engine/internal/api/handler"
	"loan-engine/internal/api/handler/dto"
	mw "loan-engine/internal/api/middleware"
	"loan-engine/internal/config"
	"loan-engine/internal/domain/client"
	"loan-engine/internal/domain/loan"
	"loan-engine/internal/domain/request"

	_ "loan-engine/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const limiterCleanupInterval = time.Minute

type Services struct {
	Loans    loan.LoanService
	Clients  client.ClientService
	Requests request.RequestService
}

// SetupRouter wires every route. redisClient may be nil, in which case rate
// limiting is per instance and idempotency keys are not honoured. Background
// work started here stops when ctx is cancelled.
func SetupRouter(ctx context.Context, svcs Services, redisClient *redis.Client, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, redisClient, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(dto.HealthResponse{Status: "ok"})
	})
	setupSwaggerEndpoint(router, logger)

	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})

	var store mw.IdempotencyStore
	if redisClient != nil {
		store = mw.NewRedisIdempotencyStore(redisClient)
	}
	idempotent := mw.Idempotency(cfg.Server.Idempotency, store, logger)

	setupClientRoutes(router, cfg, svcs.Clients, logger)
	setupLoanRoutes(router, cfg, svcs.Loans, idempotent, logger)
	setupRequestRoutes(router, cfg, svcs.Requests, idempotent, logger)

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) {
	limiter := mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, redisClient, logger)
	if limiter.IsEnabled() && redisClient == nil {
		go limiter.CleanupLimiters(limiterCleanupInterval, ctx.Done())
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(limiter.Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupClientRoutes(router chi.Router, cfg *config.Config, svc client.ClientService, logger *slog.Logger) {
	h := handler.NewClientHandler(svc, logger)

	router.Route("/clients", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateClient)
		r.Get("/", h.ListClients)
		r.Route("/{clientID}", func(r chi.Router) {
			r.Get("/", h.GetClient)
			r.Patch("/", h.UpdateClientContact)
			r.Delete("/", h.DeactivateClient)
			r.Put("/delinquency", h.UpdateDelinquency)
			r.Put("/reactivate", h.ReactivateClient)
		})
	})
}

func setupLoanRoutes(router chi.Router, cfg *config.Config, svc loan.LoanService, idempotent func(http.Handler) http.Handler, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, logger)

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateLoan)
		r.Get("/", h.ListLoans)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", h.GetLoan)
			r.Get("/payments", h.GetPayments)
			r.With(idempotent).Post("/payments", h.MakePayment)
			r.Get("/quote", h.QuotePayment)
			r.Post("/delinquent", h.MarkDelinquent)
		})
	})
}

func setupRequestRoutes(router chi.Router, cfg *config.Config, svc request.RequestService, idempotent func(http.Handler) http.Handler, logger *slog.Logger) {
	h := handler.NewRequestHandler(svc, logger)

	router.Route("/loan-requests", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.SubmitRequest)
		r.Get("/", h.ListRequests)
		r.Route("/{requestID}", func(r chi.Router) {
			r.Get("/", h.GetRequest)
			r.With(idempotent).Post("/approve", h.ApproveRequest)
			r.Post("/reject", h.RejectRequest)
		})
	})
}
