// Package api exposes the compliance engines over HTTP. Handlers are thin
// wrappers: they decode, call the engine, publish an audit event, and map
// errors to status codes. Engines never see HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/camayank/transfer-pricing-platform/internal/benchmark"
	"github.com/camayank/transfer-pricing-platform/internal/database"
	"github.com/camayank/transfer-pricing-platform/internal/events"
	"github.com/camayank/transfer-pricing-platform/internal/forex"
	"github.com/camayank/transfer-pricing-platform/internal/penalty"
	"github.com/camayank/transfer-pricing-platform/internal/thincap"
)

// RateLimiter provides simple in-memory rate limiting per endpoint
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int           // max requests
	window   time.Duration // time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow checks if a request is allowed for the given key
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-r.window)

	var recent []time.Time
	for _, t := range r.requests[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.requests[key] = recent
		return false
	}

	r.requests[key] = append(recent, now)
	return true
}

// ComparablesSource supplies the comparable-company universe at query time.
// Backed by the database repository in production and by the bundled sample
// universe when the database is disabled.
type ComparablesSource interface {
	ListComparables(ctx context.Context) ([]benchmark.ComparableCompany, error)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	AllowedOrigins string
	ProductionMode bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Server represents the HTTP API server
type Server struct {
	router       *gin.Engine
	httpServer   *http.Server
	config       ServerConfig
	eventBus     *events.EventBus
	forexService *forex.Service
	thinCap      *thincap.Engine
	comparables  ComparablesSource
	auditLog     *database.Repository // nil when the database is disabled
	rateLimiter  *RateLimiter
	wsHub        *WSHub
	startedAt    time.Time
}

// NewServer creates a new API server
func NewServer(
	config ServerConfig,
	eventBus *events.EventBus,
	forexService *forex.Service,
	thinCapEngine *thincap.Engine,
	comparables ComparablesSource,
	auditLog *database.Repository, // can be nil if the database is disabled
) *Server {
	if config.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if config.AllowedOrigins == "" || config.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(config.AllowedOrigins, ",")
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:       router,
		config:       config,
		eventBus:     eventBus,
		forexService: forexService,
		thinCap:      thinCapEngine,
		comparables:  comparables,
		auditLog:     auditLog,
		rateLimiter:  NewRateLimiter(120, time.Minute),
		wsHub:        NewWSHub(),
		startedAt:    time.Now(),
	}

	server.setupRoutes()

	// Stream every audit event to connected websocket clients
	eventBus.SubscribeAll(server.wsHub.BroadcastEvent)
	go server.wsHub.Run()

	return server
}

// rateLimitMiddleware rate limits requests by endpoint path. The forex
// routes hit external providers on cache misses and are the reason the
// limiter exists; engine routes are pure computation but share the limit
// for uniform behavior.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath()
		if key == "" {
			key = c.Request.URL.Path
		}
		if !s.rateLimiter.Allow(key) {
			errorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, retry later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ws/events", s.handleWebSocket)

	api := s.router.Group("/api")
	api.Use(s.rateLimitMiddleware())
	{
		api.POST("/thin-cap", s.handleThinCapCalculate)
		api.PUT("/thin-cap", s.handleThinCapSimulate)
		api.GET("/thin-cap", s.handleThinCapReference)

		api.POST("/benchmarking/search", s.handleComparableSearch)
		api.POST("/benchmarking/analyze", s.handleBenchmarkAnalyze)

		api.GET("/forex/rate", s.handleForexRate)
		api.POST("/forex/convert", s.handleForexConvert)
		api.GET("/forex/historical", s.handleForexHistorical)
		api.POST("/forex/average", s.handleForexAverage)
		api.GET("/forex/currencies", s.handleForexCurrencies)

		api.GET("/disputes/timeline", s.handleDisputeTimeline)
		api.POST("/disputes/deadline", s.handleDisputeDeadline)
		api.POST("/disputes/eligibility", s.handleDisputeEligibility)

		api.POST("/penalty/exposure", s.handlePenaltyExposure)

		api.GET("/audit/events", s.handleAuditEvents)
	}
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	log.Printf("API server listening on %s", addr)
	s.eventBus.Publish(events.Event{
		Type: events.EventServerStarted,
		Data: map[string]interface{}{"address": addr},
	})

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{
		"status":    "healthy",
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
		"wsClients": s.wsHub.ClientCount(),
	}

	hits, misses := s.forexService.CacheStats()
	status["forexCache"] = gin.H{"hits": hits, "misses": misses}

	if s.auditLog != nil {
		if err := s.auditLog.HealthCheck(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		} else {
			status["database"] = "healthy"
		}
	}

	c.JSON(http.StatusOK, status)
}

func (s *Server) handleAuditEvents(c *gin.Context) {
	if s.auditLog == nil {
		errorResponse(c, http.StatusNotFound, "audit persistence is not enabled")
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		fmt.Sscanf(raw, "%d", &limit)
	}

	list, err := s.auditLog.ListAuditEvents(c.Request.Context(), c.Query("type"), limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to read audit trail")
		return
	}
	successResponse(c, list)
}

// errorResponse is a helper to send error responses
func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}

// successResponse is a helper to send success responses
func successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// engineError maps engine error types to HTTP statuses: validation errors
// are 400, computation errors (insufficient comparables, unknown currency)
// are 422, exhausted provider chains are 502.
func (s *Server) engineError(c *gin.Context, err error) {
	var thinCapValidation *thincap.ValidationError
	var penaltyValidation *penalty.ValidationError

	switch {
	case errors.As(err, &thinCapValidation), errors.As(err, &penaltyValidation):
		errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, benchmark.ErrInsufficientComparables),
		errors.Is(err, benchmark.ErrUnknownPLIType),
		errors.Is(err, forex.ErrUnknownCurrency),
		errors.Is(err, forex.ErrInvalidDateRange):
		errorResponse(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, forex.ErrAllTiersFailed):
		errorResponse(c, http.StatusBadGateway, err.Error())
	default:
		errorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
