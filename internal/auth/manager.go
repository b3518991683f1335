package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultTokenURL = "https://datamarket.accesscontrol.windows.net/v2/OAuth2-13"
	DefaultClientID = "webpulse"
	DefaultScope    = "http://api.microsofttranslator.com"
)

// SecretSource supplies the OAuth2 client secret
type SecretSource interface {
	Load() (string, error)
}

// AuthenticationError reports a failed token request
type AuthenticationError struct {
	URL string
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed at %s: %v", e.URL, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Config holds the token endpoint settings
type Config struct {
	TokenURL string
	ClientID string
	Scope    string

	// HTTPClient is used for token requests; nil means http.DefaultClient
	HTTPClient *http.Client
	// Trace receives a "POST <url>" line before every token request; nil disables it
	Trace  io.Writer
	Logger *zap.Logger
}

// TokenManager hands out cached access tokens and refreshes them once they
// get within RefreshMargin of expiry.
type TokenManager struct {
	secrets SecretSource
	config  Config
	logger  *zap.Logger
	now     func() time.Time

	// httpClient posts token requests and decodes every answer as JSON
	httpClient *http.Client

	mu    sync.Mutex
	token *AccessToken
}

// jsonResponses marks every response as JSON. The token endpoint answers
// with a JSON body whatever Content-Type it declares, and oauth2 would
// parse a text/plain body as a form.
type jsonResponses struct {
	next http.RoundTripper
}

func (t jsonResponses) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func newTokenHTTPClient(base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	next := base.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	client := *base
	client.Transport = jsonResponses{next: next}
	return &client
}

// NewTokenManager creates a token manager that reads its client secret from secrets
func NewTokenManager(secrets SecretSource, config Config) *TokenManager {
	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}
	if config.ClientID == "" {
		config.ClientID = DefaultClientID
	}
	if config.Scope == "" {
		config.Scope = DefaultScope
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenManager{
		secrets:    secrets,
		config:     config,
		logger:     logger,
		now:        time.Now,
		httpClient: newTokenHTTPClient(config.HTTPClient),
	}
}

// AccessToken returns the cached token, refreshing it first when there is
// none or it is about to expire.
func (m *TokenManager) AccessToken(ctx context.Context) (*AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token.Fresh(m.now()) {
		return m.token, nil
	}

	token, err := m.requestToken(ctx)
	if err != nil {
		return nil, err
	}
	m.token = token
	return m.token, nil
}

// AuthorizationHeader returns "Bearer <access_token>" for a fresh token
func (m *TokenManager) AuthorizationHeader(ctx context.Context) (string, error) {
	token, err := m.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	return token.Bearer(), nil
}

func (m *TokenManager) requestToken(ctx context.Context) (*AccessToken, error) {
	issuedAt := m.now()

	secret, err := m.secrets.Load()
	if err != nil {
		return nil, err
	}

	cc := &clientcredentials.Config{
		ClientID:     m.config.ClientID,
		ClientSecret: secret,
		TokenURL:     m.config.TokenURL,
		Scopes:       []string{m.config.Scope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)

	if m.config.Trace != nil {
		fmt.Fprintf(m.config.Trace, "POST %s\n", m.config.TokenURL)
	}
	m.logger.Debug("requesting access token",
		zap.String("url", m.config.TokenURL),
		zap.String("client_id", m.config.ClientID))

	tok, err := cc.Token(ctx)
	if err != nil {
		return nil, &AuthenticationError{URL: m.config.TokenURL, Err: err}
	}

	token := newAccessToken(tok, issuedAt)
	m.logger.Debug("access token issued",
		zap.String("scope", token.Field("scope")),
		zap.Time("expires_at", token.ExpiresAt))
	return token, nil
}
