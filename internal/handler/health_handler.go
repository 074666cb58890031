package handler

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const readinessTimeout = 5 * time.Second

// Health returns basic health check
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status    string         `json:"status"`
	LatencyMs int64          `json:"latency_ms,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Check probes one dependency.
type Check func(ctx context.Context) HealthCheckResult

// Ready runs every check in parallel and reports 503 if any is down.
func Ready(checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var (
			mu      sync.Mutex
			wg      sync.WaitGroup
			results = make(map[string]HealthCheckResult, len(checks))
		)
		for name, check := range checks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res := check(ctx)
				mu.Lock()
				results[name] = res
				mu.Unlock()
			}()
		}
		wg.Wait()

		status, code := "ready", http.StatusOK
		for _, res := range results {
			if res.Status != "up" {
				status, code = "not_ready", http.StatusServiceUnavailable
				break
			}
		}

		writeJSON(w, r, code, map[string]any{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"checks":    results,
		})
	}
}

// PingCheck adapts any ping-style probe.
func PingCheck(ping func(ctx context.Context) error) Check {
	return func(ctx context.Context) HealthCheckResult {
		start := time.Now()
		err := ping(ctx)
		return checkResult(start, err, nil)
	}
}

// DatabaseCheck verifies database connectivity and reports pool stats.
func DatabaseCheck(db *sql.DB) Check {
	return func(ctx context.Context) HealthCheckResult {
		start := time.Now()
		err := db.PingContext(ctx)
		stats := db.Stats()
		return checkResult(start, err, map[string]any{
			"connections_open":   stats.OpenConnections,
			"connections_in_use": stats.InUse,
			"connections_idle":   stats.Idle,
			"max_open":           stats.MaxOpenConnections,
		})
	}
}

// RedisCheck verifies the cart store is reachable.
func RedisCheck(client redis.UniversalClient) Check {
	return func(ctx context.Context) HealthCheckResult {
		start := time.Now()
		err := client.Ping(ctx).Err()
		return checkResult(start, err, map[string]any{
			"pool_total": client.PoolStats().TotalConns,
			"pool_idle":  client.PoolStats().IdleConns,
		})
	}
}

func checkResult(start time.Time, err error, metadata map[string]any) HealthCheckResult {
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return HealthCheckResult{Status: "down", LatencyMs: latency, Error: err.Error()}
	}
	return HealthCheckResult{Status: "up", LatencyMs: latency, Metadata: metadata}
}
