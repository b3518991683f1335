package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/mtrans/internal/auth"
	"codeberg.org/snonux/mtrans/internal/history"
	"codeberg.org/snonux/mtrans/internal/secret"
	"codeberg.org/snonux/mtrans/internal/translation"
)

// Settings is the resolved configuration for one command run
type Settings struct {
	Secret secret.Config

	TokenURL string
	ClientID string
	Scope    string

	DetectURL    string
	TranslateURL string
	LanguagesURL string
	HTTPTimeout  time.Duration

	From  string
	To    string
	Trace bool

	HistoryEnabled bool
	HistoryPath    string
}

func setDefaults() {
	viper.SetDefault("secret.source", secret.SourceFile)
	viper.SetDefault("secret.file", secret.DefaultPath())
	viper.SetDefault("secret.keyring_service", secret.DefaultKeyringService)
	viper.SetDefault("secret.keyring_user", secret.DefaultKeyringUser)

	viper.SetDefault("auth.token_url", auth.DefaultTokenURL)
	viper.SetDefault("auth.client_id", auth.DefaultClientID)
	viper.SetDefault("auth.scope", auth.DefaultScope)

	viper.SetDefault("api.detect_url", translation.DefaultDetectURL)
	viper.SetDefault("api.translate_url", translation.DefaultTranslateURL)
	viper.SetDefault("api.languages_url", translation.DefaultLanguagesURL)
	viper.SetDefault("http.timeout", "0s")

	viper.SetDefault("lang.from", "en")
	viper.SetDefault("lang.to", "es")
	viper.SetDefault("trace", true)

	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.path", history.DefaultPath())
}

// LoadSettings resolves the current viper configuration
func LoadSettings() Settings {
	setDefaults()

	return Settings{
		Secret: secret.Config{
			Source:         viper.GetString("secret.source"),
			Path:           expandHome(viper.GetString("secret.file")),
			KeyringService: viper.GetString("secret.keyring_service"),
			KeyringUser:    viper.GetString("secret.keyring_user"),
		},
		TokenURL:       viper.GetString("auth.token_url"),
		ClientID:       viper.GetString("auth.client_id"),
		Scope:          viper.GetString("auth.scope"),
		DetectURL:      viper.GetString("api.detect_url"),
		TranslateURL:   viper.GetString("api.translate_url"),
		LanguagesURL:   viper.GetString("api.languages_url"),
		HTTPTimeout:    viper.GetDuration("http.timeout"),
		From:           viper.GetString("lang.from"),
		To:             viper.GetString("lang.to"),
		Trace:          viper.GetBool("trace"),
		HistoryEnabled: viper.GetBool("history.enabled"),
		HistoryPath:    expandHome(viper.GetString("history.path")),
	}
}

// expandHome resolves a leading "~/" against the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
