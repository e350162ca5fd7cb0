package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"propertyhub/listingsync/internal/config"
	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/logging"
	"propertyhub/listingsync/internal/models/dtos"
)

// TokenSource hands out a bearer token for one sync run.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// GuestyTokenProvider performs the OAuth2 client-credentials exchange
type GuestyTokenProvider struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Client       *http.Client
}

var _ TokenSource = (*GuestyTokenProvider)(nil)

// NewGuestyTokenProvider creates a token provider from configuration
func NewGuestyTokenProvider(cfg *config.Config) *GuestyTokenProvider {
	return &GuestyTokenProvider{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Client: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
	}
}

// Token exchanges the client credentials for an access token. There is no
// retry here; a failure ends the run.
func (p *GuestyTokenProvider) Token(ctx context.Context) (string, error) {
	if p.ClientID == "" || p.ClientSecret == "" {
		return "", &AuthError{Code: constants.ErrCodeMissingCredentials}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "open-api")
	form.Set("client_id", p.ClientID)
	form.Set("client_secret", p.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Code: constants.ErrCodeAuthenticationFailed, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", &AuthError{Code: constants.ErrCodeAuthenticationFailed, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthError{Code: constants.ErrCodeAuthenticationFailed, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AuthError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Status:  resp.StatusCode,
			Details: string(body),
		}
	}

	var tokenResp dtos.GuestyTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", &AuthError{Code: constants.ErrCodeMalformedToken, Status: resp.StatusCode, Details: string(body), Err: err}
	}
	if tokenResp.AccessToken == "" {
		return "", &AuthError{Code: constants.ErrCodeMalformedToken, Status: resp.StatusCode, Details: string(body)}
	}

	fields := []interface{}{"expires_in", tokenResp.ExpiresIn}
	if exp, ok := tokenExpiry(tokenResp.AccessToken); ok {
		fields = append(fields, "expires_at", exp.Format(time.RFC3339))
	}
	logging.Component("GuestyTokenProvider").Debugw("Obtained access token", fields...)

	return tokenResp.AccessToken, nil
}

// tokenExpiry reads the exp claim of a JWT access token without verifying
// it. Used for diagnostics only.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
