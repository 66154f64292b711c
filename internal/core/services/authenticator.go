package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/ose-migrate/internal/logger"
)

// Ensure Authenticator implements the interface.
var _ driving.Authenticator = (*Authenticator)(nil)

// authStrategy turns a request into a token with a single remote call.
type authStrategy func(ctx context.Context, req domain.AuthRequest) (domain.Token, error)

// Authenticator resolves tokens against the remote API.
// Neither strategy retries.
type Authenticator struct {
	remote     driven.RemoteAPI
	strategies map[domain.AuthMethod]authStrategy
}

// NewAuthenticator creates an authenticator backed by the remote API.
func NewAuthenticator(remote driven.RemoteAPI) *Authenticator {
	a := &Authenticator{remote: remote}
	a.strategies = map[domain.AuthMethod]authStrategy{
		domain.AuthMethodAPIKey:      a.byAPIKey,
		domain.AuthMethodCredentials: a.byCredentials,
	}
	return a
}

// Resolve runs the strategy selected by req.Method.
func (a *Authenticator) Resolve(ctx context.Context, req domain.AuthRequest) (domain.Token, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	strategy, ok := a.strategies[req.Method]
	if !ok {
		return "", fmt.Errorf("%w: unsupported method %q", domain.ErrInvalidInput, req.Method)
	}

	logger.Debug("Authenticating with %s", req.Method.Description())
	token, err := strategy(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrAuthenticationFailed, err)
	}
	return token, nil
}

// byAPIKey accepts the key itself as the token once the API confirms it.
func (a *Authenticator) byAPIKey(ctx context.Context, req domain.AuthRequest) (domain.Token, error) {
	if err := a.remote.ValidateAPIKey(ctx, req.APIKey); err != nil {
		return "", fmt.Errorf("validate api key: %w", err)
	}
	return domain.Token(req.APIKey), nil
}

func (a *Authenticator) byCredentials(ctx context.Context, req domain.AuthRequest) (domain.Token, error) {
	token, err := a.remote.ExchangeCredentials(ctx, req.Username, req.Password)
	if err != nil {
		return "", fmt.Errorf("exchange credentials: %w", err)
	}
	if token == "" {
		return "", fmt.Errorf("%w: empty token in response", domain.ErrAuthenticationFailed)
	}
	return token, nil
}
