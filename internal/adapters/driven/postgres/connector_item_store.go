package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConnectorItemStore = (*ConnectorItemStore)(nil)

// ConnectorItemStore implements driven.ConnectorItemStore using PostgreSQL.
// Connector secrets are stored encrypted and merged into Config on read.
type ConnectorItemStore struct {
	db      *DB
	keyring *SecretKeyring
	logger  *slog.Logger
}

// NewConnectorItemStore creates a new ConnectorItemStore.
// keyring may be nil, in which case connector secrets are not loaded.
func NewConnectorItemStore(db *DB, keyring *SecretKeyring, logger *slog.Logger) *ConnectorItemStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectorItemStore{db: db, keyring: keyring, logger: logger}
}

// connectorVisible binds $1 organization and $2 user
const connectorVisible = `
	c.status = 'active'
	AND ($1 = '' OR c.organization_id = $1)
	AND (COALESCE(c.owner_id, '') = '' OR $2 = '' OR c.owner_id = $2)`

// FindByKeyword matches synced items of active connectors visible to the filter
func (s *ConnectorItemStore) FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.ConnectorItem, error) {
	q := `
		SELECT i.id, i.connector_id, c.type, c.name, i.external_id, i.title, COALESCE(i.content, ''),
		       COALESCE(i.content_type, ''), COALESCE(i.url, ''), COALESCE(i.author_name, ''),
		       i.status, i.created_at, i.updated_at
		FROM connector_items i
		JOIN connectors c ON c.id = i.connector_id
		WHERE ` + connectorVisible + `
		  AND i.status = $3
		  AND ($4::text[] IS NULL OR i.content_type = ANY($4::text[]))
		  AND (i.title ILIKE $5 OR i.content ILIKE $5)
		ORDER BY i.updated_at DESC
		LIMIT $6
	`

	rows, err := s.db.QueryContext(ctx, q,
		filter.OrganizationID, filter.UserID, domain.StatusSynced, textArray(filter.ContentTypes),
		likePattern(query), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query connector items: %w", err)
	}
	defer rows.Close()

	var items []*domain.ConnectorItem
	for rows.Next() {
		var i domain.ConnectorItem
		if err := rows.Scan(
			&i.ID, &i.ConnectorID, &i.ConnectorType, &i.ConnectorName, &i.ExternalID, &i.Title, &i.Content,
			&i.ContentType, &i.URL, &i.AuthorName,
			&i.Status, &i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan connector item: %w", err)
		}
		items = append(items, &i)
	}
	return items, rows.Err()
}

// ListActiveConnectors returns active connectors visible to the filter
func (s *ConnectorItemStore) ListActiveConnectors(ctx context.Context, filter domain.ContentFilter) ([]*domain.Connector, error) {
	q := `
		SELECT c.id, c.organization_id, COALESCE(c.owner_id, ''), c.type, c.name, c.status, c.config, c.secrets
		FROM connectors c
		WHERE ` + connectorVisible + `
		ORDER BY c.created_at
	`

	rows, err := s.db.QueryContext(ctx, q, filter.OrganizationID, filter.UserID)
	if err != nil {
		return nil, fmt.Errorf("query connectors: %w", err)
	}
	defer rows.Close()

	return s.scanConnectors(rows)
}

// rowScanner is the subset of *sql.Rows read by scanConnectors
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanConnectors decodes connector rows. A connector whose config or secrets
// cannot be read is logged and skipped so the others stay searchable.
func (s *ConnectorItemStore) scanConnectors(rows rowScanner) ([]*domain.Connector, error) {
	var connectors []*domain.Connector
	for rows.Next() {
		var c domain.Connector
		var configJSON, secrets []byte
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.OwnerID, &c.Type, &c.Name, &c.Status, &configJSON, &secrets); err != nil {
			return nil, fmt.Errorf("scan connector: %w", err)
		}
		config, err := s.connectorConfig(configJSON, secrets)
		if err != nil {
			s.logger.Warn("skipping connector with unreadable config",
				"connector_id", c.ID,
				"connector_type", c.Type,
				"error", err,
			)
			continue
		}
		c.Config = config
		connectors = append(connectors, &c)
	}
	return connectors, rows.Err()
}

// connectorConfig merges the plain config with decrypted secrets
func (s *ConnectorItemStore) connectorConfig(configJSON, secrets []byte) (map[string]string, error) {
	config := make(map[string]string)
	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &config); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}

	if len(secrets) == 0 || s.keyring == nil {
		return config, nil
	}

	decrypted, err := s.keyring.Open(secrets)
	if err != nil {
		return nil, err
	}
	for k, v := range decrypted {
		config[k] = v
	}
	return config, nil
}
