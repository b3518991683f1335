package translation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultDetectURL    = "http://api.microsofttranslator.com/v2/Http.svc/Detect"
	DefaultTranslateURL = "http://api.microsofttranslator.com/v2/Http.svc/Translate"
	DefaultLanguagesURL = "http://api.microsofttranslator.com/v2/Http.svc/GetLanguagesForTranslate"

	// maxErrorBody bounds how much of a failed response ends up in a StatusError
	maxErrorBody = 4096
)

// Authorizer supplies the Authorization header for API requests
type Authorizer interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// Config holds the translator endpoints and transport settings
type Config struct {
	DetectURL    string
	TranslateURL string
	LanguagesURL string

	// HTTPClient is used for API requests; nil means http.DefaultClient
	HTTPClient *http.Client
	// Trace receives a "GET <url>" line before every request; nil disables it
	Trace  io.Writer
	Logger *zap.Logger
}

// Client issues detection and translation requests. It is meant to be
// created once and shared for the life of the process.
type Client struct {
	auth       Authorizer
	httpClient *http.Client
	config     Config
	logger     *zap.Logger
}

// NewClient creates a translator client that authorizes its requests through auth
func NewClient(auth Authorizer, config Config) *Client {
	if config.DetectURL == "" {
		config.DetectURL = DefaultDetectURL
	}
	if config.TranslateURL == "" {
		config.TranslateURL = DefaultTranslateURL
	}
	if config.LanguagesURL == "" {
		config.LanguagesURL = DefaultLanguagesURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		auth:       auth,
		httpClient: httpClient,
		config:     config,
		logger:     logger,
	}
}

// DetectLanguage returns the language code the service detects for text
func (c *Client) DetectLanguage(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("text", text)

	body, err := c.get(ctx, c.config.DetectURL, params)
	if err != nil {
		return "", err
	}
	return RootText(body)
}

// Translate translates text from sourceLang to targetLang. An empty result
// is returned as "" without error.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("from", sourceLang)
	params.Set("to", targetLang)
	params.Set("text", text)

	body, err := c.get(ctx, c.config.TranslateURL, params)
	if err != nil {
		return "", err
	}
	return RootText(body)
}

// Languages returns the codes of all languages the service translates between
func (c *Client) Languages(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, c.config.LanguagesURL, nil)
	if err != nil {
		return nil, err
	}
	return childTexts(body)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.config.Trace != nil {
		fmt.Fprintf(c.config.Trace, "GET %s\n", endpoint)
	}

	credential, err := c.auth.AuthorizationHeader(ctx)
	if err != nil {
		return nil, err
	}

	reqURL := endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	traceID := uuid.NewString()
	req.Header.Set("Authorization", credential)
	req.Header.Set("X-ClientTraceId", traceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("translator response",
		zap.String("url", endpoint),
		zap.String("trace_id", traceID),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
