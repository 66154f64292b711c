package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrAuthenticationFailed indicates the API key or credentials were rejected.
	// The run aborts before any transient service is started.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// Exposure Errors.

	// ErrNoFreePort indicates every port in the configured range is in use.
	ErrNoFreePort = errors.New("no free port")

	// ErrStartupFailure indicates the exposer or tunnel could not be brought up.
	ErrStartupFailure = errors.New("startup failure")

	// ErrStartupTimeout indicates a process never passed its readiness probe
	// within the attempt budget.
	ErrStartupTimeout = errors.New("startup timeout")

	// ErrTunnelDiscoveryTimeout indicates the tunnel never registered a public URL.
	ErrTunnelDiscoveryTimeout = errors.New("tunnel discovery timeout")

	// ErrRetryExhausted indicates a polling loop used up its attempt budget.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// Asset Errors.

	// ErrUploadFailed indicates the remote API did not accept an asset.
	ErrUploadFailed = errors.New("asset upload failed")

	// ErrInvalidAssetURI indicates an asset URI is neither under local asset
	// storage nor a remote URL.
	ErrInvalidAssetURI = errors.New("invalid asset uri")
)
