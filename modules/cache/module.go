package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// Module manages the Redis connection lifecycle. The cache is optional: with
// no address configured, or Redis unreachable at startup, the module starts
// disabled and GetCache returns nil.
type Module struct {
	addr   string
	prefix string
	ttl    time.Duration
	cache  *Cache
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a cache module. An empty addr disables caching.
func NewModule(addr, prefix string, ttl time.Duration) *Module {
	return &Module{addr: addr, prefix: prefix, ttl: ttl}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Start connects to Redis. Connection failure logs a warning and leaves the
// cache disabled rather than failing the application.
func (m *Module) Start(ctx context.Context) error {
	if m.addr == "" {
		log.Println("[cache] No Redis address configured, caching disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: m.addr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[cache] Redis unreachable at %s, caching disabled: %v", m.addr, err)
		_ = client.Close()
		return nil
	}

	m.cache = New(client, m.prefix, m.ttl)
	log.Printf("[cache] Connected to Redis at %s (ttl %s)", m.addr, m.ttl)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.cache == nil {
		return nil
	}
	log.Println("[cache] Closing Redis connection...")
	return m.cache.Close()
}

// Health reports Redis reachability; a disabled cache is healthy.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.cache == nil {
		return mono.HealthStatus{Healthy: true, Message: "caching disabled"}
	}
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{Healthy: false, Message: err.Error()}
	}
	stats := m.cache.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"hits":   stats.Hits,
			"misses": stats.Misses,
		},
	}
}

// GetCache returns the cache, or nil when caching is disabled.
func (m *Module) GetCache() *Cache {
	return m.cache
}
