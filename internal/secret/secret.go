package secret

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

// Secret sources
const (
	SourceFile    = "file"
	SourceKeyring = "keyring"
)

const (
	DefaultKeyringService = "mtrans"
	DefaultKeyringUser    = "client-secret"
)

const fileSetupHelp = `
    No client secret is configured, so mtrans cannot talk to the translator.
    Register an application for your account in the Microsoft Azure
    Marketplace, copy the application's "Client secret", and save it to
    %s
    (or run "mtrans secret set").

    Restrict the file so that only your account can read, write or delete it.
    `

const keyringSetupHelp = `
    No client secret is stored in the system keyring entry %s.
    Register an application for your account in the Microsoft Azure
    Marketplace, copy the application's "Client secret", and store it with
    "mtrans secret set --keyring".
    `

// DefaultPath returns the secret file location under the user's home directory
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".azure", "myapp.secret")
}

// ConfigurationError reports a missing client secret together with
// instructions for setting it up.
type ConfigurationError struct {
	Source   string // SourceFile or SourceKeyring
	Location string // file path or keyring "service/user"
}

func (e *ConfigurationError) Error() string {
	if e.Source == SourceKeyring {
		return fmt.Sprintf(keyringSetupHelp, e.Location)
	}
	return fmt.Sprintf(fileSetupHelp, e.Location)
}

// Config selects where the secret lives
type Config struct {
	Source         string
	Path           string
	KeyringService string
	KeyringUser    string
}

func (c Config) withDefaults() Config {
	if c.Source == "" {
		c.Source = SourceFile
	}
	if c.Path == "" {
		c.Path = DefaultPath()
	}
	if c.KeyringService == "" {
		c.KeyringService = DefaultKeyringService
	}
	if c.KeyringUser == "" {
		c.KeyringUser = DefaultKeyringUser
	}
	return c
}

// Location describes where the secret is read from and written to.
func (c Config) Location() string {
	c = c.withDefaults()
	if c.Source == SourceKeyring {
		return c.KeyringService + "/" + c.KeyringUser
	}
	return c.Path
}

// Loader reads the client secret once and caches it for its lifetime.
// Changes to the underlying file or keyring entry are not observed.
type Loader struct {
	config Config

	mu     sync.Mutex
	value  string
	loaded bool
}

// NewLoader creates a loader for the given configuration
func NewLoader(config Config) *Loader {
	return &Loader{config: config.withDefaults()}
}

// Load returns the trimmed client secret, reading it on first use.
// A missing file or keyring entry yields a *ConfigurationError.
func (l *Loader) Load() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.value, nil
	}

	var (
		value string
		err   error
	)
	switch l.config.Source {
	case SourceFile:
		value, err = l.readFile()
	case SourceKeyring:
		value, err = l.readKeyring()
	default:
		return "", fmt.Errorf("unknown secret source: %s", l.config.Source)
	}
	if err != nil {
		return "", err
	}

	l.value = value
	l.loaded = true
	return l.value, nil
}

func (l *Loader) readFile() (string, error) {
	info, err := os.Stat(l.config.Path)
	if err != nil || info.IsDir() {
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return "", &ConfigurationError{Source: SourceFile, Location: l.config.Path}
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}

	content, err := os.ReadFile(l.config.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

func (l *Loader) readKeyring() (string, error) {
	value, err := keyring.Get(l.config.KeyringService, l.config.KeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", &ConfigurationError{Source: SourceKeyring, Location: l.config.Location()}
		}
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// Store saves value as the client secret. Files are written with owner-only
// permissions.
func Store(config Config, value string) error {
	config = config.withDefaults()

	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New("secret is empty")
	}

	switch config.Source {
	case SourceFile:
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o700); err != nil {
			return fmt.Errorf("failed to create secret directory: %w", err)
		}
		if err := os.WriteFile(config.Path, []byte(value+"\n"), 0o600); err != nil {
			return fmt.Errorf("failed to write secret file: %w", err)
		}
		// WriteFile keeps the mode of an existing file
		if err := os.Chmod(config.Path, 0o600); err != nil {
			return fmt.Errorf("failed to restrict secret file: %w", err)
		}
		return nil
	case SourceKeyring:
		if err := keyring.Set(config.KeyringService, config.KeyringUser, value); err != nil {
			return fmt.Errorf("failed to write keyring: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown secret source: %s", config.Source)
	}
}
