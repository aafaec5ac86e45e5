package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/districhem/backoffice/internal/adapters/githubstore"
	httpHandlers "github.com/districhem/backoffice/internal/adapters/http"
	"github.com/districhem/backoffice/internal/adapters/mailer"
	"github.com/districhem/backoffice/internal/adapters/repository"
	"github.com/districhem/backoffice/internal/application/services"
	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/config"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	store  *githubstore.Client
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize the content store client
	store := githubstore.New(cfg.Store, appLogger)

	// Initialize repositories
	productRepo := repository.NewProductRepository(store, appLogger)
	industryRepo := repository.NewIndustryRepository(store, appLogger)
	userRepo := repository.NewUserRepository(store, appLogger)
	historyRepo := repository.NewHistoryRepository(store, appLogger)
	companyRepo := repository.NewCompanyRepository(store, appLogger)

	// Initialize services
	historyService := services.NewHistoryService(historyRepo, appLogger)
	authService := services.NewAuthService(userRepo, cfg.Session, appLogger)
	catalogService := services.NewCatalogService(productRepo, historyService, appLogger)
	taxonomyService := services.NewTaxonomyService(industryRepo, productRepo, historyService, appLogger)
	userService := services.NewUserService(userRepo, historyService, appLogger)
	companyService := services.NewCompanyService(companyRepo, historyService, appLogger)

	var sender ports.EmailSender
	if smtp := mailer.New(cfg.Mail, appLogger); smtp != nil {
		sender = smtp
	}
	contactService := services.NewContactService(sender, appLogger)

	// Initialize handlers
	authHandler := httpHandlers.NewAuthHandler(authService, appLogger)
	catalogHandler := httpHandlers.NewCatalogHandler(catalogService, appLogger)
	taxonomyHandler := httpHandlers.NewTaxonomyHandler(taxonomyService, userService, appLogger)
	userHandler := httpHandlers.NewUserHandler(userService, appLogger)
	historyHandler := httpHandlers.NewHistoryHandler(historyService, appLogger)
	companyHandler := httpHandlers.NewCompanyHandler(companyService, appLogger)
	contactHandler := httpHandlers.NewContactHandler(contactService, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		store:  store,
	}

	server.setupMiddleware()
	server.setupRoutes(authHandler, catalogHandler, taxonomyHandler, userHandler, historyHandler, companyHandler, contactHandler, authService)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(authHandler *httpHandlers.AuthHandler, catalogHandler *httpHandlers.CatalogHandler, taxonomyHandler *httpHandlers.TaxonomyHandler, userHandler *httpHandlers.UserHandler, historyHandler *httpHandlers.HistoryHandler, companyHandler *httpHandlers.CompanyHandler, contactHandler *httpHandlers.ContactHandler, authService *services.AuthService) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Auth routes
	authGroup := v1.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout, s.authMiddleware(authService))
	authGroup.GET("/session", authHandler.Session, s.authMiddleware(authService))

	// Catalog routes (public reads, admin writes)
	products := v1.Group("/products")
	products.GET("", catalogHandler.ListCategories)
	products.GET("/views", catalogHandler.ListProductViews)
	products.GET("/search", catalogHandler.SearchProducts)
	products.GET("/:reference", catalogHandler.GetProduct)
	products.POST("", catalogHandler.SaveProduct, s.authMiddleware(authService), s.requireAdmin())
	products.PUT("/:reference", catalogHandler.SaveProduct, s.authMiddleware(authService), s.requireAdmin())
	products.DELETE("/:reference", catalogHandler.DeleteProduct, s.authMiddleware(authService), s.requireAdmin())

	// Taxonomy routes
	industries := v1.Group("/industries")
	industries.GET("", taxonomyHandler.ListIndustries)
	industries.POST("", taxonomyHandler.SaveCategory, s.authMiddleware(authService), s.requireAdmin())
	industries.DELETE("/:id", taxonomyHandler.DeleteCategory, s.authMiddleware(authService), s.requireAdmin())

	// Company routes
	v1.GET("/company", companyHandler.GetCompany)
	v1.PUT("/company", companyHandler.UpdateCompany, s.authMiddleware(authService), s.requireAdmin())

	// User management and action log, admin only
	users := v1.Group("/users", s.authMiddleware(authService), s.requireAdmin())
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.DELETE("/:id", userHandler.DeleteUser)

	v1.GET("/history", historyHandler.ListHistory, s.authMiddleware(authService), s.requireAdmin())
	v1.GET("/admin/consistency", taxonomyHandler.Consistency, s.authMiddleware(authService), s.requireAdmin())

	// Contact routes
	v1.POST("/contact", contactHandler.SendContact)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)
	registry.MustRegister(s.store.Collectors()...)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	// The server is ready when the content store answers a read.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := s.store.FetchPublic(ctx, entities.FileCompany); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "content_store_unreachable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(*validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}
