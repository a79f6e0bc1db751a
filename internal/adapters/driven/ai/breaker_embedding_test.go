package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven/mocks"
)

func TestBreakerEmbedding_PassesThrough(t *testing.T) {
	inner := mocks.NewMockEmbeddingService()
	svc := NewBreakerEmbedding(inner, 3, time.Minute, nil)

	vec, err := svc.EmbedQuery(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, vec, inner.Dimensions())

	batch, err := svc.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, batch, 2)
	assert.Equal(t, gobreaker.StateClosed, svc.State())
}

func TestBreakerEmbedding_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := mocks.NewMockEmbeddingService()
	inner.SetError(errors.New("provider down"))
	svc := NewBreakerEmbedding(inner, 2, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.EmbedQuery(ctx, "q")
		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrEmbeddingUnavailable), "provider errors pass through while closed")
	}
	assert.Equal(t, gobreaker.StateOpen, svc.State())

	_, err := svc.EmbedQuery(ctx, "q")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, inner.Calls(), "open breaker must not call the provider")
}

func TestBreakerEmbedding_HalfOpenRecovers(t *testing.T) {
	inner := mocks.NewMockEmbeddingService()
	inner.SetError(errors.New("provider down"))
	svc := NewBreakerEmbedding(inner, 1, 10*time.Millisecond, nil)
	ctx := context.Background()

	_, _ = svc.EmbedQuery(ctx, "q")
	require.Equal(t, gobreaker.StateOpen, svc.State())

	inner.SetError(nil)
	time.Sleep(20 * time.Millisecond)

	_, err := svc.EmbedQuery(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, svc.State())
}

func TestBreakerEmbedding_CallerCancellationIsNotAFailure(t *testing.T) {
	inner := mocks.NewMockEmbeddingService()
	inner.SetDelay(time.Second)
	svc := NewBreakerEmbedding(inner, 1, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.EmbedQuery(ctx, "q")
	require.Error(t, err)
	assert.Equal(t, gobreaker.StateClosed, svc.State())
}
