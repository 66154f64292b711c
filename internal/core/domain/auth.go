package domain

import "fmt"

// AuthMethod selects how a migration run obtains its token.
type AuthMethod string

// Available authentication methods.
const (
	// AuthMethodAPIKey validates a user-supplied API key.
	AuthMethodAPIKey AuthMethod = "api-key"

	// AuthMethodCredentials exchanges a username and password for a token.
	AuthMethodCredentials AuthMethod = "credentials"

	// AuthMethodExit ends the program without migrating.
	AuthMethodExit AuthMethod = "exit"
)

// ParseAuthMethod accepts either the menu number ("1", "2", "0") or the method name.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch s {
	case "1", string(AuthMethodAPIKey):
		return AuthMethodAPIKey, nil
	case "2", string(AuthMethodCredentials):
		return AuthMethodCredentials, nil
	case "0", string(AuthMethodExit):
		return AuthMethodExit, nil
	default:
		return "", fmt.Errorf("%w: unknown method %q", ErrInvalidInput, s)
	}
}

// Description returns a human-readable label for menus.
func (m AuthMethod) Description() string {
	switch m {
	case AuthMethodAPIKey:
		return "API token"
	case AuthMethodCredentials:
		return "Credentials"
	case AuthMethodExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// AuthRequest carries the secrets for one authentication strategy.
type AuthRequest struct {
	Method   AuthMethod
	APIKey   string
	Username string
	Password string
}

// Validate checks that the fields required by Method are present.
func (r AuthRequest) Validate() error {
	switch r.Method {
	case AuthMethodAPIKey:
		if r.APIKey == "" {
			return fmt.Errorf("%w: api key is required", ErrInvalidInput)
		}
	case AuthMethodCredentials:
		if r.Username == "" || r.Password == "" {
			return fmt.Errorf("%w: username and password are required", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: method %q cannot authenticate", ErrInvalidInput, r.Method)
	}
	return nil
}

// Token is the opaque credential attached to remote API requests.
type Token string
