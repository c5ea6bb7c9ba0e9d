package session

import "context"

// Storage defines the portal browser session storage API
type Storage interface {
	// GetByRawToken retrieves a session by its raw (prior hashing) token
	GetByRawToken(ctx context.Context, rawToken string) (*Session, error)

	// Create creates a new session and returns its raw token
	Create(ctx context.Context, userID string, online bool, expires int64) (string, error)

	// Update replaces the user ID and online flag of the session identified by the given raw token
	Update(ctx context.Context, rawToken, userID string, online bool) error

	// TerminateByRawToken terminates a session by its raw token
	TerminateByRawToken(ctx context.Context, rawToken string) error

	// TerminateExpired terminates all sessions that are expired
	TerminateExpired(ctx context.Context) (int, error)
}
