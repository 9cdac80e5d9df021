package discord

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

const (
	authorizeEndpoint = "https://discord.com/oauth2/authorize"
	tokenEndpoint     = "https://discord.com/api/oauth2/token"
	identityEndpoint  = "https://discord.com/api/users/@me"
)

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	HTTPClient   *http.Client
}

// OAuth performs the authorization-code login flow for the panel.
type OAuth struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

func NewOAuth(cfg OAuthConfig) *OAuth {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &OAuth{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		httpClient:   httpClient,
	}
}

func (o *OAuth) Configured() bool {
	return o.clientID != "" && o.clientSecret != "" && o.redirectURI != ""
}

// AuthorizeURL builds the login redirect target. Only the identify scope is
// requested, the panel never reads guilds or messages on the user's behalf.
func (o *OAuth) AuthorizeURL(state string) string {
	query := url.Values{}
	query.Set("client_id", o.clientID)
	query.Set("redirect_uri", o.redirectURI)
	query.Set("response_type", "code")
	query.Set("scope", "identify")
	query.Set("state", state)
	return authorizeEndpoint + "?" + query.Encode()
}

// Exchange trades an authorization code for an access token.
func (o *OAuth) Exchange(ctx context.Context, code string) (string, error) {
	if !o.Configured() {
		return "", fmt.Errorf("%w: oauth is not configured", usecase.ErrExternalUnavailable)
	}
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: authorization code is required", usecase.ErrInvalidInput)
	}

	form := url.Values{}
	form.Set("client_id", o.clientID)
	form.Set("client_secret", o.clientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", o.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	raw, err := o.send(req)
	if err != nil {
		return "", err
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", usecase.ErrExternalUnavailable, err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", usecase.ErrUnauthorized)
	}
	return payload.AccessToken, nil
}

// Identity is the minimal profile read back after login.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (o *OAuth) Identity(ctx context.Context, accessToken string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, identityEndpoint, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	raw, err := o.send(req)
	if err != nil {
		return Identity{}, err
	}

	var identity Identity
	if err := sonic.Unmarshal(raw, &identity); err != nil {
		return Identity{}, fmt.Errorf("%w: decode identity: %v", usecase.ErrExternalUnavailable, err)
	}
	if identity.ID == "" {
		return Identity{}, fmt.Errorf("%w: identity missing id", usecase.ErrUnauthorized)
	}
	return identity, nil
}

func (o *OAuth) send(req *http.Request) ([]byte, error) {
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrExternalUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", usecase.ErrExternalUnavailable, err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: oauth status=%d", usecase.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: oauth status=%d", usecase.ErrExternalUnavailable, resp.StatusCode)
	}
	return raw, nil
}
