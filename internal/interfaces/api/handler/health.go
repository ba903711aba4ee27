package handler

import (
	"context"
	"net/http"
	"time"

	"fitreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency whose reachability is reported by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the service's dependencies are reachable.
type HealthHandler struct {
	checks map[string]Pinger
	log    logger.Logger
}

// NewHealthHandler creates a HealthHandler; nil checks are ignored.
func NewHealthHandler(checks map[string]Pinger, log logger.Logger) *HealthHandler {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandler{checks: active, log: log}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.log.Warn("Health check " + name + " failed: " + err.Error())
			result[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "up"
	}

	body := map[string]interface{}{"status": "ok", "checks": result}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	return c.JSON(status, body)
}
