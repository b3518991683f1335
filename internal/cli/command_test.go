package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/mtrans/internal/auth"
	"codeberg.org/snonux/mtrans/internal/secret"
	"codeberg.org/snonux/mtrans/internal/testutil"
	"codeberg.org/snonux/mtrans/internal/translation"
)

func TestCreateRootCommand(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "mtrans" {
		t.Errorf("Expected Use to be 'mtrans', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Microsoft Translator") {
		t.Errorf("Expected Short description to contain 'Microsoft Translator'")
	}

	// Test that persistent flags are set up
	for _, name := range []string{"config", "from", "to", "quiet", "verbose", "history"} {
		t.Run("flag_"+name, func(t *testing.T) {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}

	// Test that subcommands are registered
	for _, name := range []string{"translate", "detect", "batch", "languages", "history", "secret"} {
		t.Run("command_"+name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			if err != nil || sub == cmd {
				t.Errorf("Expected subcommand %s to exist", name)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	defaults := map[string]string{
		"from":    "en",
		"to":      "es",
		"quiet":   "false",
		"history": "false",
	}
	for name, want := range defaults {
		var flag *pflag.Flag = cmd.PersistentFlags().Lookup(name)
		if flag == nil {
			t.Fatalf("%s flag not found", name)
		}
		if flag.DefValue != want {
			t.Errorf("Expected default %s to be %s, got %s", name, want, flag.DefValue)
		}
	}

	if cmd.PersistentFlags().ShorthandLookup("q") == nil {
		t.Error("Expected -q shorthand for --quiet")
	}
}

func TestBindFlagsToViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.PersistentFlags().Set("from", "bg")
	cmd.PersistentFlags().Set("to", "de")
	cmd.PersistentFlags().Set("history", "true")

	// Test that values are bound
	if viper.GetString("lang.from") != "bg" {
		t.Errorf("Expected lang.from to be bg, got %s", viper.GetString("lang.from"))
	}

	if viper.GetString("lang.to") != "de" {
		t.Errorf("Expected lang.to to be de, got %s", viper.GetString("lang.to"))
	}

	if !viper.GetBool("history.enabled") {
		t.Error("Expected history.enabled to be true")
	}
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		key       string
		expected  string
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `lang:
  to: de
auth:
  client_id: myapp
`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			key:      "lang.to",
			expected: "de",
		},
		{
			name: "environment variable",
			setupFunc: func(t *testing.T) string {
				t.Setenv("MTRANS_AUTH_CLIENT_ID", "env-client")
				return ""
			},
			key:      "auth.client_id",
			expected: "env-client",
		},
		{
			name: "defaults",
			setupFunc: func(t *testing.T) string {
				return ""
			},
			key:      "api.translate_url",
			expected: translation.DefaultTranslateURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()
			defer viper.Reset()

			InitConfig(tt.setupFunc(t))

			if got := viper.GetString(tt.key); got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestInitConfig_QuietAboutConfigFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfgPath := filepath.Join(t.TempDir(), "mtrans.yaml")
	testutil.CreateTestFile(t, cfgPath, []byte("trace: false\n"))

	stdout, stderr := testutil.CaptureOutput(t, func() {
		InitConfig(cfgPath)
	})

	if stdout != "" || stderr != "" {
		t.Errorf("Expected no output, got stdout %q stderr %q", stdout, stderr)
	}
	if viper.ConfigFileUsed() != cfgPath {
		t.Errorf("Expected config file %s, got %s", cfgPath, viper.ConfigFileUsed())
	}
	if viper.GetBool("trace") {
		t.Error("Expected trace to be disabled by the config file")
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	settings := LoadSettings()

	if settings.Secret.Source != secret.SourceFile {
		t.Errorf("Expected file secret source, got %s", settings.Secret.Source)
	}
	if settings.Secret.Path != secret.DefaultPath() {
		t.Errorf("Expected secret path %s, got %s", secret.DefaultPath(), settings.Secret.Path)
	}
	if settings.TokenURL != auth.DefaultTokenURL {
		t.Errorf("Unexpected token URL %s", settings.TokenURL)
	}
	if settings.ClientID != "webpulse" {
		t.Errorf("Expected client id webpulse, got %s", settings.ClientID)
	}
	if settings.From != "en" || settings.To != "es" {
		t.Errorf("Expected en->es, got %s->%s", settings.From, settings.To)
	}
	if !settings.Trace {
		t.Error("Expected trace to be enabled by default")
	}
	if settings.HistoryEnabled {
		t.Error("Expected history to be disabled by default")
	}
	if settings.HTTPTimeout != 0 {
		t.Errorf("Expected no HTTP timeout, got %v", settings.HTTPTimeout)
	}
}

func TestLoadSettings_ExpandsHome(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	viper.Set("secret.file", "~/keys/translator.secret")
	viper.Set("history.path", "/var/lib/mtrans/history.db")

	settings := LoadSettings()

	if want := filepath.Join(home, "keys", "translator.secret"); settings.Secret.Path != want {
		t.Errorf("Expected %s, got %s", want, settings.Secret.Path)
	}
	if settings.HistoryPath != "/var/lib/mtrans/history.db" {
		t.Errorf("Absolute path changed to %s", settings.HistoryPath)
	}
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en", "English"},
		{"bg", "Bulgarian"},
		{"de", "German"},
		{"not a tag", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := LanguageName(tt.code); got != tt.want {
				t.Errorf("LanguageName(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestShellPrompt(t *testing.T) {
	if got := shellPrompt("en"); got != "Enter some English text (CTRL+C to quit): " {
		t.Errorf("Unexpected prompt %q", got)
	}
	if got := shellPrompt("de"); got != "Enter some German text (CTRL+C to quit): " {
		t.Errorf("Unexpected prompt %q", got)
	}
}
