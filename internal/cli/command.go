package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/mtrans/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mtrans",
		Short: "Microsoft Translator command-line client",
		Long: `mtrans translates text with the Microsoft Translator web service.

Without a subcommand it starts an interactive shell that translates every
line you type. The client secret of your Azure Marketplace application is
read from ~/.azure/myapp.secret (see "mtrans secret set").

Examples:
  mtrans                          # Interactive English to Spanish shell
  mtrans --to de                  # Interactive English to German shell
  mtrans translate Good morning   # Translate once
  mtrans detect Dobro utro        # Detect the language of a text
  mtrans batch phrases.txt        # Translate every line of a file`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newTranslateCommand(flags),
		newDetectCommand(flags),
		newBatchCommand(flags),
		newLanguagesCommand(flags),
		newHistoryCommand(flags),
		newSecretCommand(flags),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.mtrans.yaml)")
	cmd.PersistentFlags().StringVar(&flags.From, "from", flags.From, "Source language code")
	cmd.PersistentFlags().StringVar(&flags.To, "to", flags.To, "Target language code")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Do not print a trace line for each HTTP request")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging on stderr")
	cmd.PersistentFlags().BoolVar(&flags.History, "history", false, "Record translations in the history database")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("lang.from", cmd.PersistentFlags().Lookup("from"))
	viper.BindPFlag("lang.to", cmd.PersistentFlags().Lookup("to"))
	viper.BindPFlag("history.enabled", cmd.PersistentFlags().Lookup("history"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".mtrans" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mtrans")
	}

	setDefaults()

	// A .env file in the working directory may provide MTRANS_* variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	// Environment variables
	viper.SetEnvPrefix("MTRANS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file; NewSession logs which one was used
	_ = viper.ReadInConfig()
}
