package router

import (
	"fmt"
	"net/http"
	"time"

	"fitreminder/internal/interfaces/api/handler"
	appMiddleware "fitreminder/internal/interfaces/api/middleware"
	"fitreminder/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Config holds the dependencies for the router.
type Config struct {
	ReminderHandler *handler.ReminderHandler
	ContactHandler  *handler.ContactHandler
	HealthHandler   *handler.HealthHandler
	// LineHandler is nil when the LINE channel is not configured.
	LineHandler *handler.LineHandler
	Verifier    appMiddleware.Verifier
	Logger      logger.Logger

	AllowOrigins       []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		MaxAge:       300,
	}))

	// Routes
	if cfg.HealthHandler != nil {
		e.GET("/health", cfg.HealthHandler.Check)
	}

	// LINE Webhook Endpoint
	if cfg.LineHandler != nil {
		e.POST("/callback", cfg.LineHandler.HandleWebhook)
	}

	api := e.Group("/api")
	if cfg.RateLimitPerSecond > 0 {
		store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimitPerSecond),
			Burst:     cfg.RateLimitBurst,
			ExpiresIn: 3 * time.Minute,
		})
		api.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: store,
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "Too many requests"})
			},
		}))
	}
	api.Use(appMiddleware.RequireAuth(cfg.Verifier, cfg.Logger))

	api.POST("/reminders", cfg.ReminderHandler.Create)
	api.GET("/reminders", cfg.ReminderHandler.List)
	api.GET("/getReminders", cfg.ReminderHandler.List)

	api.PUT("/contacts", cfg.ContactHandler.Upsert)
	api.GET("/contacts", cfg.ContactHandler.Get)
	api.POST("/contacts/line-code", cfg.ContactHandler.IssueLineCode)

	cfg.Logger.Info("Router initialized with routes.")
	return e
}
