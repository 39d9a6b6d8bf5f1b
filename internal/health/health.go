package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// Status 健康状态
type Status struct {
	NATS     string `json:"nats"`
	Redis    string `json:"redis"`
	Database string `json:"database"`
	Games    int    `json:"games"`
}

// Healthy 所有依赖都已连接
func (s *Status) Healthy() bool {
	return s.NATS == StatusConnected &&
		s.Redis == StatusConnected &&
		s.Database == StatusConnected
}

// NATSConn *nats.Conn 满足该接口
type NATSConn interface {
	IsConnected() bool
}

// RedisPinger *redis.Client 满足该接口
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// DBPinger *pgxpool.Pool 满足该接口
type DBPinger interface {
	Ping(ctx context.Context) error
}

// GameCounter 当前内存中的对局数
type GameCounter interface {
	Count() int
}

// Checker 健康检查器
type Checker struct {
	nc          NATSConn
	redisClient RedisPinger
	db          DBPinger
	games       GameCounter
	timeout     time.Duration
}

// NewChecker 创建健康检查器
func NewChecker(nc NATSConn, redisClient RedisPinger, db DBPinger, games GameCounter) *Checker {
	return &Checker{
		nc:          nc,
		redisClient: redisClient,
		db:          db,
		games:       games,
		timeout:     2 * time.Second,
	}
}

// Check 执行健康检查
func (h *Checker) Check(ctx context.Context) *Status {
	status := &Status{
		NATS:     StatusDisconnected,
		Redis:    StatusDisconnected,
		Database: StatusDisconnected,
	}

	// 检查 NATS
	if h.nc.IsConnected() {
		status.NATS = StatusConnected
	}

	// 检查 Redis
	redisCtx, redisCancel := context.WithTimeout(ctx, h.timeout)
	defer redisCancel()
	if err := h.redisClient.Ping(redisCtx).Err(); err == nil {
		status.Redis = StatusConnected
	}

	// 检查 PostgreSQL
	dbCtx, dbCancel := context.WithTimeout(ctx, h.timeout)
	defer dbCancel()
	if err := h.db.Ping(dbCtx); err == nil {
		status.Database = StatusConnected
	}

	if h.games != nil {
		status.Games = h.games.Count()
	}
	return status
}

// IsHealthy 检查是否健康
func (h *Checker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx).Healthy()
}

// ServeHTTP HTTP 健康检查端点
func (h *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.Check(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if status.Healthy() {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

// ReadyHandler 就绪检查端点
func (h *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.IsHealthy(r.Context()) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Not Ready"))
	}
}
