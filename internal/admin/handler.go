// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ewastex/marketplace-api/internal/core"
	"github.com/ewastex/marketplace-api/internal/stats"
)

// MarketplaceStats is the source of the moderation console counters.
type MarketplaceStats interface {
	Admin(ctx context.Context) (*stats.AdminStats, error)
}

type Handler struct {
	marketplace MarketplaceStats
	dbStats     func() sql.DBStats
	redisStats  func() *redis.PoolStats
	redisPing   func(ctx context.Context) error
	dbPing      func(ctx context.Context) error
	startedAt   time.Time
}

// HandlerConfig wires the console. Any nil probe is reported as absent.
type HandlerConfig struct {
	Marketplace MarketplaceStats
	DBStats     func() sql.DBStats
	RedisStats  func() *redis.PoolStats
	RedisPing   func(ctx context.Context) error
	DBPing      func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		marketplace: cfg.Marketplace,
		dbStats:     cfg.DBStats,
		redisStats:  cfg.RedisStats,
		redisPing:   cfg.RedisPing,
		dbPing:      cfg.DBPing,
		startedAt:   time.Now(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetMarketplaceStats)

		r.Route("/system", func(r chi.Router) {
			r.Get("/", h.GetSystemStats)
			r.Get("/db", h.GetDatabaseStats)
			r.Get("/redis", h.GetRedisStats)
			r.Get("/runtime", h.GetRuntimeStats)
		})
	})
}

func (h *Handler) GetMarketplaceStats(w http.ResponseWriter, r *http.Request) {
	if h.marketplace == nil {
		core.InternalServerError(w, nil)
		return
	}

	resp, err := h.marketplace.Admin(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: probe(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: probe(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Runtime: h.runtimeStats(),
	}

	core.OK(w, response)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.runtimeStats())
}

// probe reports false for a missing or failing dependency.
func probe(ctx context.Context, ping func(context.Context) error) bool {
	return ping != nil && ping(ctx) == nil
}

func (h *Handler) runtimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
		Uptime:       time.Since(h.startedAt).Round(time.Second).String(),
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	s := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration.String(),
		MaxIdleClosed:      s.MaxIdleClosed,
		MaxLifetimeClosed:  s.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	s := h.redisStats()
	if s == nil {
		return nil
	}
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
	Uptime       string `json:"uptime"`
}
