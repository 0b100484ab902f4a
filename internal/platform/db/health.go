package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// Health is the body of the /health endpoint: overall service status plus
// a snapshot of the database pool.
type Health struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database DBInfo `json:"database"`
}

// DBInfo summarizes connection pool pressure. AcquiredConns close to
// MaxConns means appointment writes are about to queue.
type DBInfo struct {
	Reachable     bool   `json:"reachable"`
	TotalConns    int32  `json:"total_conns"`
	IdleConns     int32  `json:"idle_conns"`
	AcquiredConns int32  `json:"acquired_conns"`
	MaxConns      int32  `json:"max_conns"`
	WaitTime      string `json:"wait_time"`
	Error         string `json:"error,omitempty"`
}

func poolInfo(pool *pgxpool.Pool) DBInfo {
	stat := pool.Stat()
	return DBInfo{
		Reachable:     true,
		TotalConns:    stat.TotalConns(),
		IdleConns:     stat.IdleConns(),
		AcquiredConns: stat.AcquiredConns(),
		MaxConns:      stat.MaxConns(),
		WaitTime:      stat.AcquireDuration().String(),
	}
}

// HealthHandler answers readiness probes. It pings the database with a
// short deadline so a wedged pool reports unhealthy instead of hanging the
// probe.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		h := Health{Status: "ok", Service: "clinic-api", Database: poolInfo(pool)}
		if err := pool.Ping(ctx); err != nil {
			h.Status = "degraded"
			h.Database.Reachable = false
			h.Database.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, h)
		}
		return c.JSON(http.StatusOK, h)
	}
}
