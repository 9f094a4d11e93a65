package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Resolve finds the identity for email, creating it when absent. The
	// returned identity is guaranteed to exist after a nil error.
	Resolve(ctx context.Context, email string, metadata map[string]any) (Identity, error)

	// FindByEmail returns the identity for email or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (Identity, error)

	// IssueLoginToken creates a one-time sign-in URL for email, scoped to
	// redirect after authentication.
	IssueLoginToken(ctx context.Context, email, redirectURL string) (string, error)

	// ConsumeLoginToken validates and burns a raw token, returning the
	// identity and the redirect target.
	ConsumeLoginToken(ctx context.Context, rawToken string) (Identity, string, error)
}

var (
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrNotFound      = errors.New("identity_not_found")
	ErrInvalidToken  = errors.New("invalid_token")
	ErrTokenExpired  = errors.New("token_expired")
	ErrTokenConsumed = errors.New("token_consumed")
)
