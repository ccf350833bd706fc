package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"forumapi/pkg/logger"
)

type HealthHandler struct {
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
	Version   string                 `json:"version"`
}

func NewHealthHandler(db *sql.DB, redisClient *redis.Client, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /health/live", h.LivenessCheck)
	mux.HandleFunc("GET /health/ready", h.ReadinessCheck)
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	services := map[string]interface{}{
		"database": h.checkDatabaseHealth(),
		"redis":    h.checkRedisHealth(r),
	}

	status := "healthy"
	for _, service := range services {
		if serviceMap, ok := service.(map[string]interface{}); ok {
			if serviceMap["status"] != "healthy" {
				status = "degraded"
				break
			}
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
		Version:   "1.0.0",
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

func (h *HealthHandler) checkDatabaseHealth() map[string]interface{} {
	if h.db == nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  "database connection is nil",
		}
	}

	if err := h.db.Ping(); err != nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}

	stats := h.db.Stats()
	return map[string]interface{}{
		"status":           "healthy",
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
	}
}

func (h *HealthHandler) checkRedisHealth(r *http.Request) map[string]interface{} {
	if h.redis == nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  "redis client is nil",
		}
	}

	if _, err := h.redis.Ping(r.Context()).Result(); err != nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}

	poolStats := h.redis.PoolStats()
	return map[string]interface{}{
		"status":      "healthy",
		"hits":        poolStats.Hits,
		"misses":      poolStats.Misses,
		"total_conns": poolStats.TotalConns,
		"idle_conns":  poolStats.IdleConns,
	}
}

func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ready := true
	issues := make([]string, 0)

	if h.db == nil {
		ready = false
		issues = append(issues, "database: connection is nil")
	} else if err := h.db.Ping(); err != nil {
		ready = false
		issues = append(issues, "database: "+err.Error())
	}

	if h.redis == nil {
		ready = false
		issues = append(issues, "redis: client is nil")
	} else if _, err := h.redis.Ping(r.Context()).Result(); err != nil {
		ready = false
		issues = append(issues, "redis: "+err.Error())
	}

	response := map[string]interface{}{
		"timestamp": time.Now(),
	}

	if ready {
		response["status"] = "ready"
		writeJSON(w, http.StatusOK, response)
		return
	}

	response["status"] = "not_ready"
	response["issues"] = issues
	writeJSON(w, http.StatusServiceUnavailable, response)
}
