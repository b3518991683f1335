package cli

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile string
	From    string
	To      string
	Quiet   bool
	Verbose bool
	History bool

	// history command
	HistoryLimit int
	Archive      bool

	// secret set command
	Keyring bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		From:         "en",
		To:           "es",
		HistoryLimit: 20,
	}
}
