// Package habbo fetches public profile data from the Habbo API, used by
// the verification flow to check a user's motto for the challenge code.
package habbo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/resilience"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

const defaultBaseURL = "https://www.habbo.com/api/public"

var errHabboTransient = crerr.New("habbo transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

// Client is a thin read-only profile client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.Breaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxRetries: cfg.MaxRetries,
		logger:     logger.With("component", "habbo_client"),
		breaker:    resilience.NewBreaker(cfg.CircuitBreaker),
	}
}

// Profile is the subset of the public user payload the system needs.
type Profile struct {
	UniqueID     string `json:"uniqueId"`
	Name         string `json:"name"`
	Motto        string `json:"motto"`
	FigureString string `json:"figureString"`
	Online       bool   `json:"online"`
}

// Profile fetches a user's public profile by name.
func (c *Client) Profile(ctx context.Context, name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, fmt.Errorf("%w: name is required", usecase.ErrInvalidInput)
	}

	if err := c.breaker.Allow(); err != nil {
		return Profile{}, fmt.Errorf("%w: circuit open", usecase.ErrExternalUnavailable)
	}

	fullURL := c.baseURL + "/users?name=" + url.QueryEscape(name)
	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil {
		if crerr.Is(err, errHabboTransient) {
			c.breaker.RecordFailure()
			c.logger.WarnContext(ctx, "profile lookup failed", "name", name, "error", err)
			return Profile{}, fmt.Errorf("%w: %v", usecase.ErrExternalUnavailable, err)
		}
		c.breaker.RecordSuccess()
		return Profile{}, err
	}
	c.breaker.RecordSuccess()

	var profile Profile
	if err := sonic.Unmarshal(raw, &profile); err != nil {
		return Profile{}, fmt.Errorf("%w: decode profile: %v", usecase.ErrExternalUnavailable, err)
	}
	if profile.Name == "" {
		return Profile{}, fmt.Errorf("%w: profile %q", usecase.ErrNotFound, name)
	}
	return profile, nil
}

// Motto implements the verification lookup.
func (c *Client) Motto(ctx context.Context, name string) (string, error) {
	profile, err := c.Profile(ctx, name)
	if err != nil {
		return "", err
	}
	return profile.Motto, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errHabboTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response: %v", errHabboTransient, readErr)
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: profile lookup", usecase.ErrNotFound)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errHabboTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", usecase.ErrExternalUnavailable, ctx.Err())
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

var _ usecase.ProfileLookup = (*Client)(nil)
