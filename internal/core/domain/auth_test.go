package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuthMethod(t *testing.T) {
	tests := []struct {
		input string
		want  AuthMethod
	}{
		{"1", AuthMethodAPIKey},
		{"api-key", AuthMethodAPIKey},
		{"2", AuthMethodCredentials},
		{"credentials", AuthMethodCredentials},
		{"0", AuthMethodExit},
		{"exit", AuthMethodExit},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAuthMethod(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAuthMethod_Invalid(t *testing.T) {
	_, err := ParseAuthMethod("3")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthMethod_Description(t *testing.T) {
	assert.Equal(t, "API token", AuthMethodAPIKey.Description())
	assert.Equal(t, "Credentials", AuthMethodCredentials.Description())
	assert.Equal(t, "Exit", AuthMethodExit.Description())
	assert.Equal(t, "Unknown", AuthMethod("other").Description())
}

func TestAuthRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     AuthRequest
		wantErr bool
	}{
		{"api key present", AuthRequest{Method: AuthMethodAPIKey, APIKey: "k"}, false},
		{"api key missing", AuthRequest{Method: AuthMethodAPIKey}, true},
		{"credentials present", AuthRequest{Method: AuthMethodCredentials, Username: "u", Password: "p"}, false},
		{"password missing", AuthRequest{Method: AuthMethodCredentials, Username: "u"}, true},
		{"exit cannot authenticate", AuthRequest{Method: AuthMethodExit}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
