package server

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "storefront"

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	db        database.Service
	redis     *redis.Client
	publisher events.Publisher
}

// NewServer wires repositories, services and handlers onto one router. A nil
// publisher disables domain events.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client, publisher events.Publisher) *Server {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.PrometheusMetrics(serviceName))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))

	router.Get("/health", healthHandler(db))
	router.Handle("/metrics", promhttp.Handler())

	// Initialize repositories
	sqlDB := db.DB()
	productRepo := repository.NewProductRepository(sqlDB)
	categoryRepo := repository.NewCategoryRepository(sqlDB)
	userRepo := repository.NewUserRepository(sqlDB)
	reviewRepo := repository.NewReviewRepository(sqlDB)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, categoryRepo, publisher, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, userRepo, publisher, logger)

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogService, cfg.Server.PublicBaseURL, logger)
	reviewHandler := transport.NewReviewHandler(reviewService, logger)

	var submitLimiter func(http.Handler) http.Handler
	if redisClient != nil && cfg.RateLimit.Requests > 0 {
		submitLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "review_submit",
		}, logger)
	}

	// Register routes
	productHandler.RegisterRoutes(router)
	reviewHandler.RegisterRoutes(router, submitLimiter)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		publisher: publisher,
	}
}

func healthHandler(db database.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	}
}

// Close releases the publisher, the redis client and the database pool in
// that order. Failures are logged and the first one is returned.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	var firstErr error
	record := func(what string, err error) {
		if err == nil {
			return
		}
		s.logger.Error("Failed to close "+what, zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}

	if s.publisher != nil {
		record("event publisher", s.publisher.Close())
	}
	if s.redis != nil {
		record("redis client", s.redis.Close())
	}
	if s.db != nil {
		record("database connection", s.db.Close())
	}

	_ = s.logger.Sync()
	return firstErr
}
