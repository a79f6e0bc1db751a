package postgres

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DirectoryStore = (*DirectoryStore)(nil)

// DirectoryStore implements driven.DirectoryStore using PostgreSQL
type DirectoryStore struct {
	db *DB
}

// NewDirectoryStore creates a new DirectoryStore
func NewDirectoryStore(db *DB) *DirectoryStore {
	return &DirectoryStore{db: db}
}

// FindProfilesByKeyword matches name, email, job title and department
func (s *DirectoryStore) FindProfilesByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.EmployeeProfile, error) {
	q := `
		SELECT p.id, p.organization_id, COALESCE(p.user_id, ''), p.full_name,
		       COALESCE(p.email, u.email, ''), COALESCE(p.job_title, ''), COALESCE(p.department, ''),
		       COALESCE(p.bio, ''), COALESCE(p.avatar_url, u.avatar_url, ''),
		       p.created_at, p.updated_at
		FROM employee_profiles p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE ($1 = '' OR p.organization_id = $1)
		  AND (p.full_name ILIKE $2 OR p.email ILIKE $2 OR p.job_title ILIKE $2 OR p.department ILIKE $2)
		ORDER BY p.full_name
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, q, filter.OrganizationID, likePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("query employee profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.EmployeeProfile
	for rows.Next() {
		var p domain.EmployeeProfile
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.UserID, &p.FullName,
			&p.Email, &p.JobTitle, &p.Department,
			&p.Bio, &p.AvatarURL,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan employee profile: %w", err)
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

// FindAccountsByKeyword matches name and email of active user accounts
func (s *DirectoryStore) FindAccountsByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.UserAccount, error) {
	q := `
		SELECT u.id, u.organization_id, u.name, u.email, COALESCE(u.avatar_url, ''), u.created_at
		FROM users u
		WHERE u.active
		  AND ($1 = '' OR u.organization_id = $1)
		  AND (u.name ILIKE $2 OR u.email ILIKE $2)
		ORDER BY u.name
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, q, filter.OrganizationID, likePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("query user accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.UserAccount
	for rows.Next() {
		var a domain.UserAccount
		if err := rows.Scan(&a.ID, &a.OrganizationID, &a.Name, &a.Email, &a.AvatarURL, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user account: %w", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}
