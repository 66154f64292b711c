package driving

import (
	"context"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
)

// Authenticator resolves a token from an authentication request.
type Authenticator interface {
	// Resolve runs the strategy named by req.Method exactly once.
	// Returns domain.ErrAuthenticationFailed if the remote API rejects it.
	Resolve(ctx context.Context, req domain.AuthRequest) (domain.Token, error)
}
