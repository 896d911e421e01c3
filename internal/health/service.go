package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Service pings the dependencies the API cannot run without.
type Service struct {
	DB      *gorm.DB
	Rdb     *redis.Client
	Started time.Time
}

type Report struct {
	Status   string            `json:"status"`
	Uptime   string            `json:"uptime"`
	Services map[string]string `json:"services"`
}

// Check pings postgres and redis with a short deadline each.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	report := Report{
		Status:   "ok",
		Uptime:   time.Since(s.Started).Round(time.Second).String(),
		Services: map[string]string{},
	}

	report.Services["postgres"] = "ok"
	if s.DB == nil {
		report.Services["postgres"] = "not configured"
		report.Status = "degraded"
	} else if sqlDB, err := s.DB.DB(); err != nil {
		report.Services["postgres"] = err.Error()
		report.Status = "degraded"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		report.Services["postgres"] = err.Error()
		report.Status = "degraded"
	}

	report.Services["redis"] = "ok"
	if s.Rdb == nil {
		report.Services["redis"] = "not configured"
		report.Status = "degraded"
	} else if err := s.Rdb.Ping(ctx).Err(); err != nil {
		report.Services["redis"] = err.Error()
		report.Status = "degraded"
	}
	return report
}

type Handlers struct {
	Service *Service
}

// Check handles GET /health.
func (h *Handlers) Check(c *fiber.Ctx) error {
	report := h.Service.Check(c.Context())
	status := fiber.StatusOK
	if report.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(report)
}
