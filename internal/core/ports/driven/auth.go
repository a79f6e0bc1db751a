package driven

import "github.com/custodia-labs/sercha-federation/internal/core/domain"

// AuthAdapter handles token cryptographic operations.
// Tokens are issued by the intranet platform; this service only verifies them.
type AuthAdapter interface {
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
