package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid (empty query, bad config)
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidProvider indicates an unknown or incomplete embedding provider
	ErrInvalidProvider = errors.New("invalid AI provider")

	// ErrServiceUnavailable indicates an upstream service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrEmbeddingUnavailable indicates no query embedding could be produced.
	// Search absorbs it and continues keyword-only.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrSourceUnavailable indicates a source repository call failed.
	// Search absorbs it into a zero-count source entry.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrStrategyTimeout indicates a source did not answer within its budget
	ErrStrategyTimeout = errors.New("strategy timed out")
)
