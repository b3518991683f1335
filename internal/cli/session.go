package cli

import (
	"io"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/mtrans/internal/auth"
	"codeberg.org/snonux/mtrans/internal/history"
	"codeberg.org/snonux/mtrans/internal/secret"
	"codeberg.org/snonux/mtrans/internal/translation"
)

// Session owns the translator components for a single command run
type Session struct {
	Settings Settings
	Logger   *zap.Logger
	Secrets  *secret.Loader
	Tokens   *auth.TokenManager
	Client   *translation.Client

	history *history.Store
}

// NewSession resolves the configuration and builds the client stack. Trace
// lines go to out.
func NewSession(flags *Flags, out io.Writer) (*Session, error) {
	settings := LoadSettings()
	if flags.Quiet {
		settings.Trace = false
	}

	logger, err := NewLogger(flags.Verbose)
	if err != nil {
		return nil, err
	}

	var trace io.Writer
	if settings.Trace {
		trace = out
	}
	httpClient := &http.Client{Timeout: settings.HTTPTimeout}

	secrets := secret.NewLoader(settings.Secret)
	tokens := auth.NewTokenManager(secrets, auth.Config{
		TokenURL:   settings.TokenURL,
		ClientID:   settings.ClientID,
		Scope:      settings.Scope,
		HTTPClient: httpClient,
		Trace:      trace,
		Logger:     logger.Named("auth"),
	})
	client := translation.NewClient(tokens, translation.Config{
		DetectURL:    settings.DetectURL,
		TranslateURL: settings.TranslateURL,
		LanguagesURL: settings.LanguagesURL,
		HTTPClient:   httpClient,
		Trace:        trace,
		Logger:       logger.Named("translation"),
	})

	logger.Debug("session configured",
		zap.String("config", viper.ConfigFileUsed()),
		zap.String("secret", settings.Secret.Location()),
		zap.String("token_url", settings.TokenURL),
		zap.String("translate_url", settings.TranslateURL),
		zap.String("from", settings.From),
		zap.String("to", settings.To))

	return &Session{
		Settings: settings,
		Logger:   logger,
		Secrets:  secrets,
		Tokens:   tokens,
		Client:   client,
	}, nil
}

// CheckCredentials loads the client secret so that a missing secret is
// reported before any prompt or request.
func (s *Session) CheckCredentials() error {
	_, err := s.Secrets.Load()
	return err
}

// History opens the history store if recording is enabled. It returns nil
// when history is off.
func (s *Session) History() (*history.Store, error) {
	if !s.Settings.HistoryEnabled {
		return nil, nil
	}
	if s.history == nil {
		store, err := history.Open(s.Settings.HistoryPath)
		if err != nil {
			return nil, err
		}
		s.history = store
	}
	return s.history, nil
}

// Close releases the history database and flushes the logger
func (s *Session) Close() error {
	_ = s.Logger.Sync()
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}
