package postgres

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"vacation policy", "%vacation policy%"},
		{"  padded  ", "%padded%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`C:\path`, `%C:\\path%`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, likePattern(tt.query))
		})
	}
}

func TestTextArray(t *testing.T) {
	assert.Nil(t, textArray(nil))
	assert.Nil(t, textArray([]string{}))
	assert.Equal(t, pq.Array([]string{"a", "b"}), textArray([]string{"a", "b"}))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("postgres://localhost/sercha")
	assert.Equal(t, "postgres://localhost/sercha", cfg.URL)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"articles", "knowledge_items", "news_posts", "employee_profiles", "users", "connectors", "connector_items"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, schema, "CREATE EXTENSION IF NOT EXISTS vector")
}
