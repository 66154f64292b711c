package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/ose-migrate/internal/logger"
)

// Verify interface compliance.
var _ driven.RemoteAPI = (*Client)(nil)

const (
	// AssetsPath lists and creates assets.
	AssetsPath = "/api/v3/assets/"

	// TokensPath exchanges credentials for a token.
	TokensPath = "/api/v3/tokens/"

	// TokenType is the authorization scheme the API expects.
	TokenType = "Token"

	// DefaultTimeout bounds each request.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept for messages.
	maxErrorBody = 512
)

// Config configures the API client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.screenlyapp.com.
	BaseURL string

	// Timeout bounds each request. Zero uses DefaultTimeout.
	Timeout time.Duration

	// UploadsPerSecond throttles CreateAsset. Zero or less disables throttling.
	UploadsPerSecond float64

	// HTTPClient is the base client requests are sent through.
	// Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// Client talks to the remote asset-management API.
type Client struct {
	baseURL string
	timeout time.Duration
	base    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base := cfg.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	limit := rate.Inf
	if cfg.UploadsPerSecond > 0 {
		limit = rate.Limit(cfg.UploadsPerSecond)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		base:    base,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// authorised returns an HTTP client that attaches token to every request.
func (c *Client) authorised(token domain.Token) *http.Client {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: string(token),
		TokenType:   TokenType,
	})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = c.timeout
	return tc
}

// anonymous returns an HTTP client without credentials.
func (c *Client) anonymous() *http.Client {
	return &http.Client{
		Transport: c.base.Transport,
		Timeout:   c.timeout,
	}
}

// ValidateAPIKey probes the asset listing endpoint with key.
func (c *Client) ValidateAPIKey(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+AssetsPath, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.authorised(domain.Token(key)).Do(req)
	if err != nil {
		return fmt.Errorf("validate api key: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: api key rejected with status %d", domain.ErrAuthenticationFailed, resp.StatusCode)
	}
	return nil
}

// ExchangeCredentials trades a username and password for a token.
func (c *Client) ExchangeCredentials(ctx context.Context, username, password string) (domain.Token, error) {
	data := url.Values{}
	data.Set("username", username)
	data.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+TokensPath, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.anonymous().Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request failed with status %d", domain.ErrAuthenticationFailed, resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode token response: %w", domain.ErrAuthenticationFailed, err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("%w: token response did not contain a token", domain.ErrAuthenticationFailed)
	}
	return domain.Token(body.Token), nil
}

// CreateAsset creates one remote asset record.
func (c *Client) CreateAsset(ctx context.Context, token domain.Token, asset domain.RemoteAsset) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrUploadFailed, asset.Title, err)
	}

	data := url.Values{}
	data.Set("title", asset.Title)
	data.Set("source_url", asset.SourceURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+AssetsPath, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.authorised(token).Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrUploadFailed, asset.Title, err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		detail := readSnippet(resp.Body)
		logger.Debug("Asset %q rejected: status %d: %s", asset.Title, resp.StatusCode, detail)
		if detail != "" {
			return fmt.Errorf("%w: %s: status %d: %s", domain.ErrUploadFailed, asset.Title, resp.StatusCode, detail)
		}
		return fmt.Errorf("%w: %s: status %d", domain.ErrUploadFailed, asset.Title, resp.StatusCode)
	}
	return nil
}

// readSnippet returns the start of an error body for diagnostics.
func readSnippet(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// drain consumes and closes the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
