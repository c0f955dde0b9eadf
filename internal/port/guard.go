package port

import "context"

// RequestGuard rejects duplicate submissions of the same client request key.
type RequestGuard interface {
	// Claim records key, returns false if it was already claimed
	Claim(ctx context.Context, key string) (bool, error)

	// Release forgets key so a failed request can be retried
	Release(ctx context.Context, key string) error
}
