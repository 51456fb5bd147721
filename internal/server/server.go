// Package server implements the HTTP gateway: session endpoints, the proxy
// routes forwarding resource operations to the backend API, the route guard
// for protected navigation, and the dashboard aggregation.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fintrack-dev/fintrack/internal/auth"
	"github.com/fintrack-dev/fintrack/internal/backend"
	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/session"
	"github.com/fintrack-dev/fintrack/web"
)

// Protected navigation prefixes. Everything below them requires a session.
var protectedPrefixes = []string{"/dashboard", "/profile", "/expenses"}

// Server represents the HTTP gateway
type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	backend   *backend.Client
	sessions  *session.Codec
	resolver  *session.Resolver
	auth      *auth.Service
	metrics   *metrics
	registry  *prometheus.Registry
	version   string
}

// New creates a new gateway instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	client := backend.New(cfg.Backend.URL, zlog)
	codec := session.NewCodec(cfg.Session.Secret, cfg.Session.MaxAge)
	registry := prometheus.NewRegistry()

	server := &Server{
		config:    cfg,
		logger:    zlog,
		validator: validator.New(),
		backend:   client,
		sessions:  codec,
		resolver:  session.NewResolver(codec),
		auth:      auth.NewService(client, cfg, zlog),
		metrics:   newMetrics(registry),
		registry:  registry,
		version:   version,
	}

	if !codec.Enabled() {
		zlog.Warn().Msg("SESSION_SECRET not set - sign-in is disabled")
	}
	if !cfg.Google.Enabled() {
		zlog.Info().Msg("Google OAuth credentials not set - Google sign-in is disabled")
	}

	server.setupRouter()

	return server, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()
	s.router.HandleMethodNotAllowed = true

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.metrics.middleware())

	// CORS middleware
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.config.Server.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// A request with a verb no route is configured for stays local: 405, no
	// backend call
	s.router.NoMethod(func(c *gin.Context) {
		respondError(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
	s.router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Not found")
	})

	// Health check and metrics (no auth required)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	// Public pages
	s.router.GET("/", s.servePage)
	s.router.GET(loginPath, s.servePage)
	s.router.GET("/auth/register", s.servePage)
	s.router.GET("/confirm", s.servePage)

	// Protected pages behind the route guard
	for _, prefix := range protectedPrefixes {
		pages := s.router.Group(prefix)
		pages.Use(s.routeGuard())
		pages.GET("/*path", s.servePage)
	}

	// Session endpoints (never guarded)
	authRoutes := s.router.Group("/api/auth")
	{
		authRoutes.POST("/login", s.login)
		authRoutes.POST("/register", s.register)
		authRoutes.POST("/confirm-email", s.confirmEmail)
		authRoutes.POST("/logout", s.logout)
		authRoutes.GET("/session", s.getSession)

		if s.auth.GoogleEnabled() {
			authRoutes.GET("/signin/google", s.googleSignIn)
			authRoutes.GET("/callback/google", s.googleCallback)
		}
	}

	// Proxy routes forward the inbound Authorization header unchanged
	api := s.router.Group("/api")
	api.Use(forwardAuthMiddleware())
	{
		accounts := api.Group("/accounts")
		{
			accounts.GET("/all", s.listAccounts)
			accounts.GET("/summary", s.getAccountSummary)
			accounts.GET("/getById/:id", s.getAccount)
			accounts.POST("/create", s.createAccount)
			accounts.PATCH("/update/:id", s.updateAccount)
			accounts.DELETE("/delete/:id", s.deleteAccount)
		}

		transactions := api.Group("/transactions")
		{
			transactions.GET("/getAll", s.listTransactions)
			transactions.GET("/getStatistics", s.getTransactionStatistics)
			transactions.GET("/getById/:id", s.getTransaction)
			transactions.POST("/create", s.createTransaction)
			transactions.PUT("/update/:id", s.updateTransaction)
			transactions.DELETE("/delete/:id", s.deleteTransaction)
			transactions.POST("/transfer", s.createTransfer)
		}

		budgets := api.Group("/budgets")
		{
			budgets.GET("/all", s.listBudgets)
			budgets.GET("/summary", s.getBudgetSummary)
			budgets.GET("/alerts", s.getBudgetAlerts)
			budgets.GET("/getById/:id", s.getBudget)
			budgets.POST("/create", s.createBudget)
			budgets.PATCH("/update/:id", s.updateBudget)
			budgets.DELETE("/delete/:id", s.deleteBudget)
		}
	}

	// Dashboard aggregation resolves the token itself (cookie first, session
	// fallback) since the browser navigates here without an explicit header
	s.router.GET("/api/dashboard", s.resolveTokenMiddleware(), s.getDashboard)
}

func (s *Server) servePage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "fintrack-gateway",
		"version":   s.version,
	})
}

// Router exposes the configured handler, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := ":" + s.config.Server.Port

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	// Start server in goroutine
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
