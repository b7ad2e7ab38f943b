package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupCache connects to the Redis named by TEST_REDIS_ADDR (default
// localhost:6379) and skips when it is not reachable.
func setupCache(t *testing.T) *Cache {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}

	c := New(client, "test:"+t.Name()+":", time.Minute)
	t.Cleanup(func() {
		c.DeletePattern(context.Background(), "*")
		c.Close()
	})
	return c
}

type payload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestCache_SetAndGet(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "product", payload{Name: "Silk Kurta", Price: 900}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got payload
	hit, err := c.Get(ctx, "product", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !hit {
		t.Fatal("Get() should hit after Set()")
	}
	if got.Name != "Silk Kurta" || got.Price != 900 {
		t.Errorf("got %+v", got)
	}
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c := setupCache(t)

	var got payload
	hit, err := c.Get(context.Background(), "absent", &got)
	if err != nil {
		t.Fatalf("Get() miss error = %v", err)
	}
	if hit {
		t.Error("Get() on an absent key should miss")
	}
}

func TestCache_Delete(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "doomed", payload{Name: "x"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var got payload
	hit, err := c.Get(ctx, "doomed", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if hit {
		t.Error("deleted key should miss")
	}
}

func TestCache_DeletePattern(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	for _, key := range []string{"products:list:1", "products:list:2", "products:detail:a"} {
		if err := c.Set(ctx, key, payload{Name: key}); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}
	if err := c.Set(ctx, "categories:list", payload{Name: "keep"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := c.DeletePattern(ctx, "products:*"); err != nil {
		t.Fatalf("DeletePattern() error = %v", err)
	}

	var got payload
	hit, err := c.Get(ctx, "products:detail:a", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if hit {
		t.Error("pattern-matched key should be gone")
	}
	hit, err = c.Get(ctx, "categories:list", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !hit {
		t.Error("non-matching key should survive")
	}
}

func TestCache_Stats(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "counted", payload{Name: "x"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	var got payload
	if _, err := c.Get(ctx, "counted", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := c.Get(ctx, "absent", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.TotalGets != 2 || stats.HitRate != 50 {
		t.Errorf("TotalGets/HitRate = %d/%v, want 2/50", stats.TotalGets, stats.HitRate)
	}
}
