package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agoramall/backend/internal/infrastructure/config"
)

// OAuth errors
var (
	ErrUnknownProvider  = errors.New("unknown oauth provider")
	ErrExchangeFailed   = errors.New("authorization code exchange failed")
	ErrProfileFetchFail = errors.New("failed to fetch user profile")
)

// OAuthProfile is the normalized identity returned by a provider
type OAuthProfile struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
}

// OAuthClient exchanges authorization codes and fetches user profiles
// from the configured social login providers.
type OAuthClient struct {
	providers map[string]config.OAuthProvider
	http      *http.Client
}

// NewOAuthClient creates an OAuth client from config
func NewOAuthClient(cfg config.OAuthConfig) *OAuthClient {
	return &OAuthClient{
		providers: cfg.Providers,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// HasProvider reports whether the named provider is configured
func (c *OAuthClient) HasProvider(name string) bool {
	_, ok := c.providers[name]
	return ok
}

// Exchange trades an authorization code for the provider access token
func (c *OAuthClient) Exchange(ctx context.Context, provider, code string) (string, error) {
	p, ok := c.providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"client_id":     {p.ClientID},
		"client_secret": {p.ClientSecret},
		"redirect_uri":  {p.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: provider returned %d", ErrExchangeFailed, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if body.AccessToken == "" {
		return "", ErrExchangeFailed
	}
	return body.AccessToken, nil
}

// FetchProfile retrieves and normalizes the user profile for the provider
func (c *OAuthClient) FetchProfile(ctx context.Context, provider, accessToken string) (*OAuthProfile, error) {
	p, ok := c.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetchFail, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned %d", ErrProfileFetchFail, resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetchFail, err)
	}

	profile := parseProfile(provider, raw)
	if profile.ProviderID == "" {
		return nil, ErrProfileFetchFail
	}
	return profile, nil
}

// parseProfile maps each provider's response shape to the normalized profile
func parseProfile(provider string, raw map[string]any) *OAuthProfile {
	p := &OAuthProfile{Provider: provider}

	switch provider {
	case "google":
		p.ProviderID = asString(raw["sub"])
		if p.ProviderID == "" {
			p.ProviderID = asString(raw["id"])
		}
		p.Email = asString(raw["email"])
		p.Name = asString(raw["name"])
	case "kakao":
		p.ProviderID = asString(raw["id"])
		if account, ok := raw["kakao_account"].(map[string]any); ok {
			p.Email = asString(account["email"])
			if prof, ok := account["profile"].(map[string]any); ok {
				p.Name = asString(prof["nickname"])
			}
		}
	case "naver":
		// Naver nests everything under "response"
		if response, ok := raw["response"].(map[string]any); ok {
			p.ProviderID = asString(response["id"])
			p.Email = asString(response["email"])
			p.Name = asString(response["name"])
		}
	}

	return p
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return fmt.Sprintf("%.0f", s)
	case json.Number:
		return s.String()
	default:
		return ""
	}
}
