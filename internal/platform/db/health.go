package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats is the JSON view of pgxpool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

func statsOf(stat *pgxpool.Stat) PoolStats {
	return PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

// HealthStatus is the body returned by the database health endpoint.
type HealthStatus struct {
	Status string     `json:"status"`
	Error  string     `json:"error,omitempty"`
	Pool   *PoolStats `json:"pool,omitempty"`
}

type pinger interface {
	Ping(ctx context.Context) error
}

func checkHealth(ctx context.Context, p pinger) (int, HealthStatus) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		return http.StatusServiceUnavailable, HealthStatus{Status: "unhealthy", Error: err.Error()}
	}
	return http.StatusOK, HealthStatus{Status: "healthy"}
}

// HealthHandler pings the database and reports pool statistics.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		code, status := checkHealth(c.Request().Context(), pool)
		stats := statsOf(pool.Stat())
		status.Pool = &stats
		return c.JSON(code, status)
	}
}
