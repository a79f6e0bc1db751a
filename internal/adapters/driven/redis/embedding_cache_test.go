package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestEmbeddingCache_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewEmbeddingCache(client)

	vec, ok, err := cache.Get(context.Background(), "text-embedding-3-small", "handbook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected miss")
	}
	if vec != nil {
		t.Errorf("expected nil vector, got %v", vec)
	}
}

func TestEmbeddingCache_RoundTrip(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewEmbeddingCache(client)
	ctx := context.Background()

	want := []float32{0.25, -1.5, 0, 3.75}
	if err := cache.Set(ctx, "model-a", "handbook", want, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := cache.Get(ctx, "model-a", "handbook")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d dims, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dim %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestEmbeddingCache_KeyedByModel(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewEmbeddingCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "model-a", "handbook", []float32{1}, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	_, ok, err := cache.Get(ctx, "model-b", "handbook")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("a vector from another model must not be served")
	}
}

func TestEmbeddingCache_Expires(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewEmbeddingCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "model-a", "handbook", []float32{1, 2}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "model-a", "handbook")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected entry to expire")
	}
}

func TestEmbeddingCache_KeyFormat(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewEmbeddingCache(client)

	if err := cache.Set(context.Background(), "model-a", "a very long query", []float32{1}, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	keys := mr.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(keys))
	}
	// prefix plus 64 hex chars of a 256-bit digest
	if len(keys[0]) != len(embeddingPrefix)+64 {
		t.Errorf("unexpected key %q", keys[0])
	}
	if keys[0] != embeddingKey("model-a", "a very long query") {
		t.Errorf("key mismatch: %q", keys[0])
	}
}

func TestEmbeddingCache_CorruptValue(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewEmbeddingCache(client)

	if err := mr.Set(embeddingKey("model-a", "q"), "abc"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, ok, err := cache.Get(context.Background(), "model-a", "q")
	if err == nil {
		t.Error("expected error for corrupt value")
	}
	if ok {
		t.Error("corrupt value must not be a hit")
	}
}

func TestEmbeddingCache_UnavailableRedis(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewEmbeddingCache(client)
	mr.Close()

	if _, _, err := cache.Get(context.Background(), "model-a", "q"); err == nil {
		t.Error("expected error when redis is down")
	}
	if err := cache.Ping(context.Background()); err == nil {
		t.Error("expected ping to fail when redis is down")
	}
}
