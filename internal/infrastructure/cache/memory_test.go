package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bharatpricing/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache(true)
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		value   interface{}
		ttl     time.Duration
		wantErr bool
	}{
		{
			name:    "store and retrieve string",
			key:     "test-key-1",
			value:   "test-value",
			ttl:     1 * time.Minute,
			wantErr: false,
		},
		{
			name: "store and retrieve struct",
			key:  "test-key-2",
			value: map[string]interface{}{
				"query": "michael kors darci",
				"count": 3,
			},
			ttl:     1 * time.Minute,
			wantErr: false,
		},
		{
			name:    "store with short TTL",
			key:     "test-key-3",
			value:   "expires-soon",
			ttl:     1 * time.Millisecond,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cache.Set(ctx, tt.key, tt.value, tt.ttl)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			// For short TTL test, wait for expiration
			if tt.ttl < 10*time.Millisecond {
				time.Sleep(10 * time.Millisecond)
				_, err := cache.Get(ctx, tt.key)
				if err != domain.ErrCacheMiss {
					t.Errorf("Expected cache miss after expiration, got error = %v", err)
				}
				return
			}

			got, err := cache.Get(ctx, tt.key)
			if err != nil {
				t.Errorf("Get() error = %v", err)
				return
			}

			if tt.name == "store and retrieve string" {
				if got != tt.value {
					t.Errorf("Get() = %v, want %v", got, tt.value)
				}
			}
		})
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache(true)
	ctx := context.Background()

	_, err := cache.Get(ctx, "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Disabled(t *testing.T) {
	cache := NewMemoryCache(false)
	ctx := context.Background()

	err := cache.Set(ctx, "key", "value", 1*time.Minute)
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// A disabled cache never serves what it was handed
	_, err = cache.Get(ctx, "key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v on disabled cache", err, domain.ErrCacheMiss)
	}
	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 on disabled cache", size)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache(true)
	ctx := context.Background()

	key := "delete-test"
	err := cache.Set(ctx, key, "value", 1*time.Minute)
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	_, err = cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() before delete error = %v", err)
	}

	err = cache.Delete(ctx, key)
	if err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	_, err = cache.Get(ctx, key)
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache(true)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := string(rune('a' + i))
		err := cache.Set(ctx, key, i, 1*time.Minute)
		if err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if size := cache.Size(); size != 5 {
		t.Fatalf("Size() = %d, want 5 before clear", size)
	}

	if removed := cache.Clear(); removed != 5 {
		t.Errorf("Clear() = %d, want 5", removed)
	}

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
}

func TestMemoryCache_CleanupExpired(t *testing.T) {
	cache := NewMemoryCache(true)
	ctx := context.Background()

	cache.Set(ctx, "fresh", "value", 1*time.Minute)
	cache.Set(ctx, "stale-1", "value", 1*time.Millisecond)
	cache.Set(ctx, "stale-2", "value", 1*time.Millisecond)

	time.Sleep(10 * time.Millisecond)

	if removed := cache.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if size := cache.Size(); size != 1 {
		t.Errorf("Size() = %d, want 1 after cleanup", size)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewMemoryCache(true)
	ctx := context.Background()

	cache.Set(ctx, "key", "value", 1*time.Minute)
	cache.Get(ctx, "key")
	cache.Get(ctx, "key")
	cache.Get(ctx, "missing")

	stats := cache.Stats()
	if !stats.Enabled {
		t.Error("Stats().Enabled = false, want true")
	}
	if stats.Hits != 2 {
		t.Errorf("Stats().Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Stats().Misses = %d, want 1", stats.Misses)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Errorf("Stats().HitRate = %.2f, want 2/3", stats.HitRate)
	}
}

func TestKey(t *testing.T) {
	short := Key("search", "Michael Kors Darci", "in", "")
	if short != "search:michael kors darci:in:" {
		t.Errorf("Key() = %q", short)
	}

	long := Key("search", strings.Repeat("x", 200), "in", "")
	if len(long) > maxKeyLength {
		t.Errorf("hashed key length = %d, want <= %d", len(long), maxKeyLength)
	}
	if !strings.HasPrefix(long, "search:") {
		t.Errorf("hashed key = %q, want search: prefix", long)
	}

	// Different long inputs must not collide on the same key
	other := Key("search", strings.Repeat("y", 200), "in", "")
	if long == other {
		t.Error("distinct long keys collided")
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(true)
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := string(rune('a' + id))
			err := cache.Set(ctx, key, id, 1*time.Minute)
			if err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			_, err = cache.Get(ctx, key)
			if err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
