// internal/api/api.go
package api

import (
	"crypto/rand"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/tphakala/plantarium-go/internal/conf"
	"github.com/tphakala/plantarium-go/internal/datastore"
	"github.com/tphakala/plantarium-go/internal/errors"
	"github.com/tphakala/plantarium-go/internal/importer"
	"github.com/tphakala/plantarium-go/internal/logging"
	"github.com/tphakala/plantarium-go/internal/observability"
	"github.com/tphakala/plantarium-go/internal/queryview"
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo       *echo.Echo
	Group      *echo.Group
	DS         datastore.Interface
	Settings   *conf.Settings
	View       *queryview.View
	Importer   *importer.Materializer
	logger     *log.Logger
	apiLogger  *slog.Logger           // Structured logger for API operations
	metrics    *observability.Metrics // Shared metrics instance
	statsCache *cache.Cache           // Cache for statistics queries
	startTime  time.Time

	apiLoggerClose func() error // closes the API log file, nil without file logging
}

// Shutdown releases controller resources, currently just the log file.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			c.logger.Printf("failed to close API log file: %v", err)
		}
	}
}

// New creates a new API controller and registers all routes.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	metrics *observability.Metrics, logger *log.Logger) (*Controller, error) {
	return NewWithOptions(e, ds, settings, metrics, logger, true)
}

// NewWithOptions creates a new API controller with optional route
// initialization. Set initializeRoutes to false in tests that register
// handlers directly.
func NewWithOptions(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	metrics *observability.Metrics, logger *log.Logger, initializeRoutes bool) (*Controller, error) {

	if e == nil {
		return nil, fmt.Errorf("echo instance must not be nil")
	}
	if ds == nil {
		return nil, fmt.Errorf("datastore must not be nil")
	}
	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		Echo:       e,
		Group:      e.Group("/api"),
		DS:         ds,
		Settings:   settings,
		View:       queryview.New(ds),
		Importer:   importer.New(ds, settings),
		logger:     logger,
		apiLogger:  logging.ForService("api"),
		metrics:    metrics,
		statsCache: cache.New(time.Minute, 5*time.Minute),
		startTime:  time.Now(),
	}

	// Route API request logs to a rotated file when file logging is enabled
	if settings.Main.Log.Enabled && settings.Main.Log.Path != "" {
		fileLogger, closeFunc, err := logging.NewFileLogger(settings.Main.Log.Path, "api", slog.LevelInfo)
		if err != nil {
			logger.Printf("Warning: failed to initialize API file logger: %v", err)
		} else {
			c.apiLogger = fileLogger
			c.apiLoggerClose = closeFunc
		}
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if settings.Import.MaxFileSize > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%d", settings.Import.MaxFileSize)))
	}
	c.Group.Use(c.LoggingMiddleware())

	if initializeRoutes {
		c.initRoutes()
	}

	return c, nil
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	// Health check endpoint - publicly accessible
	c.Group.GET("/health", c.HealthCheck)

	c.initPlantRoutes()
	c.initLocationRoutes()
	c.initZoneRoutes()
	c.initImportRoutes()
	c.initStatisticsRoutes()

	if c.metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(c.metrics.Handler()))
	}
}

// LoggingMiddleware creates a middleware function that logs API requests
// and feeds the request metrics.
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)

			req := ctx.Request()
			res := ctx.Response()
			elapsed := time.Since(start)

			if c.metrics != nil {
				c.metrics.RecordRequest(req.Method, ctx.Path(), res.Status, elapsed)
			}

			if c.apiLogger == nil {
				return err
			}

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("query", req.URL.RawQuery),
				slog.Int("status", res.Status),
				slog.String("ip", ctx.RealIP()),
				slog.Int64("latency_ms", elapsed.Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			c.apiLogger.LogAttrs(req.Context(), slog.LevelInfo, "API Request", attrs...)

			return err
		}
	}
}

// HealthCheck handles the API health check endpoint
func (c *Controller) HealthCheck(ctx echo.Context) error {
	response := map[string]any{
		"status":    "healthy",
		"version":   c.Settings.Version,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if c.Settings.WebServer.Debug {
		response["environment"] = "development"
	} else {
		response["environment"] = "production"
	}

	// Simple connectivity check against the datastore
	dbStatus := "connected"
	if _, err := c.DS.CountPlants(); err != nil {
		dbStatus = "disconnected"
		response["database_error"] = err.Error()
	}
	response["database_status"] = dbStatus

	uptime := time.Since(c.startTime)
	response["uptime"] = uptime.String()
	response["uptime_seconds"] = uptime.Seconds()

	return ctx.JSON(http.StatusOK, response)
}

// Error response structure
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"` // Unique identifier for tracking this error
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	correlationID := generateCorrelationID()

	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}
}

// generateCorrelationID creates a unique identifier for error tracking
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError constructs and returns an appropriate error response
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)
	ip := ctx.RealIP()

	c.logger.Printf("API Error [%s] from %s: %s: %v", errorResp.CorrelationID, ip, message, err)

	if c.apiLogger != nil {
		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"message", message,
			"error", errorResp.Error,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ip,
		)
	}

	return ctx.JSON(code, errorResp)
}

// handleDomainError maps a datastore/importer error onto the HTTP error
// taxonomy: validation 400, not-found 404, conflict 409, parse 400, the
// rest 500 with a generic message so storage detail stays server-side.
func (c *Controller) handleDomainError(ctx echo.Context, err error, message string) error {
	switch {
	case errors.IsValidation(err):
		return c.HandleError(ctx, err, message, http.StatusBadRequest)
	case errors.IsNotFound(err):
		return c.HandleError(ctx, err, message, http.StatusNotFound)
	case errors.IsConflict(err):
		return c.HandleError(ctx, err, message, http.StatusConflict)
	case errors.IsCategory(err, errors.CategoryFileParsing), errors.IsCategory(err, errors.CategoryImport):
		return c.HandleError(ctx, err, message, http.StatusBadRequest)
	default:
		return c.HandleError(ctx, err, message, http.StatusInternalServerError)
	}
}

// Debug logs debug messages when debug mode is enabled
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.WebServer.Debug {
		msg := fmt.Sprintf(format, v...)
		c.logger.Printf("[DEBUG] %s", msg)
		if c.apiLogger != nil {
			c.apiLogger.Debug(msg)
		}
	}
}
