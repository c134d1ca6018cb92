package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/stratsession/stratsession-api/config"
	"github.com/stratsession/stratsession-api/internal/analytics"
	"github.com/stratsession/stratsession-api/internal/antispam"
	"github.com/stratsession/stratsession-api/internal/delivery"
	"github.com/stratsession/stratsession-api/internal/handlers"
	"github.com/stratsession/stratsession-api/internal/middleware"
	"github.com/stratsession/stratsession-api/internal/services"
	"github.com/stratsession/stratsession-api/internal/store"
	"github.com/stratsession/stratsession-api/pkg/formtoken"
	"github.com/stratsession/stratsession-api/pkg/httpclient"
	"github.com/stratsession/stratsession-api/pkg/logger"
	"github.com/stratsession/stratsession-api/pkg/metrics"
	"github.com/stratsession/stratsession-api/pkg/profiling"
	"github.com/stratsession/stratsession-api/pkg/tracing"
)

// registerAPIRoutes registers the public API routes for a given router group
func registerAPIRoutes(
	group *gin.RouterGroup,
	generalRateLimiter, leadRateLimiter, eventsRateLimiter *middleware.RateLimiter,
	calculatorHandler *handlers.CalculatorHandler,
	formHandler *handlers.FormHandler,
	leadHandler *handlers.LeadHandler,
	eventsHandler *handlers.EventsHandler,
) {
	// Calculator routes
	group.GET("/calculator/options", generalRateLimiter.Middleware(), calculatorHandler.Options)
	group.POST("/calculator/sessions", generalRateLimiter.Middleware(), calculatorHandler.CreateSession)
	group.GET("/calculator/sessions/:id", generalRateLimiter.Middleware(), calculatorHandler.GetSession)
	group.PATCH("/calculator/sessions/:id", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), calculatorHandler.UpdateSession)
	group.POST("/calculator/sessions/:id/reset", generalRateLimiter.Middleware(), calculatorHandler.ResetSession)

	// Lead form lifecycle routes
	group.POST("/forms/lead/mount", generalRateLimiter.Middleware(), formHandler.Mount)
	group.POST("/forms/lead/interaction", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), formHandler.Interaction)

	// Lead submission (tight limit to slow down spam)
	group.POST("/leads", leadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), leadHandler.Submit)

	// Frontend analytics events
	group.POST("/events", eventsRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(256*1024), eventsHandler.Ingest)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting StratSession API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.AlloyEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize continuous profiling
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// In-memory state: calculator sessions and per-form anti-spam bookkeeping
	sessions := store.NewSessionStore(cfg.Calculator.SessionTTL)
	forms := store.NewFormStore(cfg.AntiSpam.FormTokenTTL)

	// Anti-spam: signed form tokens plus honeypot and fill-time guards
	tokens := formtoken.NewTokenManager(cfg.AntiSpam.FormTokenSecret, cfg.Observability.ServiceName, cfg.AntiSpam.FormTokenTTL)
	guard := antispam.NewGuard(tokens, forms, cfg.AntiSpam.MinFillTime)

	// Analytics event sink (no-op unless ANALYTICS_ENABLED)
	tracker := analytics.NewTracker(cfg.Analytics)
	defer func() {
		if closeErr := tracker.Close(); closeErr != nil {
			logger.Error("Failed to close analytics tracker", zap.Error(closeErr))
		}
	}()

	// Initialize HTTP client for webhook delivery
	httpClient := httpclient.NewStandardClient()
	deliverer := delivery.NewWebhookDeliverer(cfg.Delivery, httpClient)
	if !deliverer.Configured() {
		logger.Warn("LEAD_WEBHOOK_URL not set: accepted leads will only be logged locally")
	}

	// Initialize services
	calculatorService := services.NewCalculatorService(sessions, tracker)
	formService := services.NewFormService(tokens, guard)
	leadService := services.NewLeadService(guard, forms, sessions, deliverer, tracker, cfg)

	// Initialize handlers
	calculatorHandler := handlers.NewCalculatorHandler(calculatorService)
	formHandler := handlers.NewFormHandler(formService)
	leadHandler := handlers.NewLeadHandler(leadService)
	eventsHandler := handlers.NewEventsHandler(tracker)
	healthHandler := handlers.NewHealthHandler(deliverer.Configured)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only the landing page origins may call this API
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Rate limiters per endpoint class
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // calculator and form lifecycle
	leadRateLimiter := middleware.NewRateLimiter(5, 10)       // lead submissions (spam brake)
	eventsRateLimiter := middleware.NewRateLimiter(20, 40)    // analytics event batches

	// Utility endpoints (not versioned)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	registerAPIRoutes(v1, generalRateLimiter, leadRateLimiter, eventsRateLimiter,
		calculatorHandler, formHandler, leadHandler, eventsHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
