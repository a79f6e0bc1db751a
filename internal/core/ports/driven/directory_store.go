package driven

import (
	"context"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// DirectoryStore reads people records from the two directory tables
type DirectoryStore interface {
	// FindProfilesByKeyword matches employee profiles by name, email, title or department
	FindProfilesByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.EmployeeProfile, error)

	// FindAccountsByKeyword matches active user accounts by name or email
	FindAccountsByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.UserAccount, error)
}
