package redis

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.EmbeddingCache = (*EmbeddingCache)(nil)

// embeddingPrefix namespaces cached query vectors
const embeddingPrefix = "embedding:"

// EmbeddingCache implements driven.EmbeddingCache using Redis.
// Vectors are stored as little-endian float32 and expire via Redis TTL.
type EmbeddingCache struct {
	client *redis.Client
}

// NewEmbeddingCache creates a new Redis-backed EmbeddingCache
func NewEmbeddingCache(client *redis.Client) *EmbeddingCache {
	return &EmbeddingCache{client: client}
}

// Get returns the cached vector for text under model
func (c *EmbeddingCache) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	data, err := c.client.Get(ctx, embeddingKey(model, text)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get embedding: %w", err)
	}

	vec, err := decodeVector(data)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// Set stores the vector for text under model
func (c *EmbeddingCache) Set(ctx context.Context, model, text string, embedding []float32, ttl time.Duration) error {
	if err := c.client.Set(ctx, embeddingKey(model, text), encodeVector(embedding), ttl).Err(); err != nil {
		return fmt.Errorf("failed to set embedding: %w", err)
	}
	return nil
}

// Ping checks if Redis is reachable
func (c *EmbeddingCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// embeddingKey hashes model and text so arbitrary queries make bounded keys
func embeddingKey(model, text string) string {
	sum := blake2b.Sum256([]byte(model + "\x00" + text))
	return embeddingPrefix + hex.EncodeToString(sum[:])
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("corrupt embedding: %d bytes", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vec, nil
}
