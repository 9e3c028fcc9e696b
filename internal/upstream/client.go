// Package upstream implements a team Source backed by an HTTP sports-data
// provider speaking the API-Football v3 response shape.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"

	"github.com/scoreline/scoreline/internal/team"
)

const apiKeyHeader = "x-apisports-key"

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 1 << 20

// ErrStatus is wrapped by errors for non-2xx provider responses.
var ErrStatus = errors.New("unexpected upstream status")

// Client fetches team records from the provider.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	attempts   uint
	delay      time.Duration
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithAPIKey sets the key sent in the provider's auth header.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the deadline for each individual attempt.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetry sets the number of attempts and the base delay between them.
func WithRetry(attempts uint, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// NewClient creates a Client for the provider rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing upstream base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("upstream base url must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: cleanhttp.DefaultPooledClient(),
		timeout:    5 * time.Second,
		attempts:   3,
		delay:      200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.attempts == 0 {
		c.attempts = 1
	}
	return c, nil
}

// Fetch implements team.Source. An empty provider result maps to team.ErrTeamNotFound.
func (c *Client) Fetch(ctx context.Context, teamID string) (*team.Record, error) {
	body, err := retry.DoWithData(
		func() ([]byte, error) {
			return c.get(ctx, "/teams", url.Values{"id": {teamID}})
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(attempt uint, err error) {
			slog.Warn("retrying upstream team fetch", "teamId", teamID, "attempt", attempt+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}

	return parseTeam(teamID, body)
}

// Ping checks that the provider answers its status endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/status", nil)
	return err
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("building upstream request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling upstream: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	return body, nil
}

// StatusError reports a non-2xx provider response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrStatus, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// isRetryable retries transport failures, throttling and server errors.
func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return !errors.Is(err, context.Canceled)
}

func parseTeam(teamID string, body []byte) (*team.Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("upstream returned invalid JSON")
	}

	doc := gjson.ParseBytes(body)

	// The provider reports request problems in an "errors" member with a 200 status.
	errs := doc.Get("errors")
	if (errs.IsArray() && len(errs.Array()) > 0) || (errs.IsObject() && len(errs.Map()) > 0) {
		return nil, fmt.Errorf("upstream reported errors: %s", errs.Raw)
	}

	entry := doc.Get("response.0.team")
	if !entry.Exists() {
		return nil, team.ErrTeamNotFound
	}

	rec := &team.Record{
		ID:           teamID,
		Name:         entry.Get("name").String(),
		Translations: map[string]string{},
	}
	entry.Get("translations").ForEach(func(key, value gjson.Result) bool {
		rec.Translations[key.String()] = value.String()
		return true
	})

	return rec, nil
}
