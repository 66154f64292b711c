package driven

import (
	"context"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
)

// RemoteAPI is the remote asset-management service assets are migrated to.
type RemoteAPI interface {
	// ValidateAPIKey probes the asset listing endpoint with key.
	// Returns domain.ErrAuthenticationFailed if the key is rejected.
	ValidateAPIKey(ctx context.Context, key string) error

	// ExchangeCredentials trades a username and password for a token.
	// Returns domain.ErrAuthenticationFailed on any non-200 response.
	ExchangeCredentials(ctx context.Context, username, password string) (domain.Token, error)

	// CreateAsset creates one remote asset record.
	// Returns domain.ErrUploadFailed if the API does not accept it.
	CreateAsset(ctx context.Context, token domain.Token, asset domain.RemoteAsset) error
}
