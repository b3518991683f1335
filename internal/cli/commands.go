package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/mtrans/internal/batch"
	"codeberg.org/snonux/mtrans/internal/history"
	"codeberg.org/snonux/mtrans/internal/secret"
	"codeberg.org/snonux/mtrans/internal/shell"
)

// RunShell starts the interactive translation shell. The client secret is
// loaded up front so that a missing secret fails before the first prompt.
func RunShell(cmd *cobra.Command, flags *Flags) error {
	session, err := NewSession(flags, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.CheckCredentials(); err != nil {
		return err
	}

	opts := shell.Options{
		From:   session.Settings.From,
		To:     session.Settings.To,
		Prompt: shellPrompt(session.Settings.From),
	}
	store, err := session.History()
	if err != nil {
		return err
	}
	if store != nil {
		opts.Recorder = store
	}

	sh := shell.New(session.Client, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	return sh.Run(cmd.Context())
}

// ReportError prints err for the user. A missing secret is shown with its
// setup instructions only.
func ReportError(w io.Writer, err error) {
	var cfgErr *secret.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintln(w, cfgErr.Error())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func newTranslateCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "translate TEXT...",
		Short: "Translate a text once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := NewSession(flags, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer session.Close()

			text := strings.Join(args, " ")
			from, to := session.Settings.From, session.Settings.To
			translated, err := session.Client.Translate(cmd.Context(), text, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), translated)

			store, err := session.History()
			if err != nil {
				return err
			}
			if store == nil {
				return nil
			}
			return store.Record(cmd.Context(), history.Entry{
				Text:        text,
				Translation: translated,
				From:        from,
				To:          to,
			})
		},
	}
}

func newDetectCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "detect TEXT...",
		Short: "Detect the language of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := NewSession(flags, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer session.Close()

			code, err := session.Client.DetectLanguage(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeLanguage(code))
			return nil
		},
	}
}

func newBatchCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Translate every line of a text file",
		Long: `Translate every line of a text file.

Blank lines and lines starting with '#' are skipped. Repeated lines are
translated only once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := batch.ReadBatchFile(args[0])
			if err != nil {
				return err
			}

			session, err := NewSession(flags, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer session.Close()

			proc := batch.NewProcessor(session.Client, session.Settings.From, session.Settings.To,
				session.Logger.Named("batch"))
			summary, err := proc.Process(cmd.Context(), lines, cmd.OutOrStdout())
			session.Logger.Info("batch finished",
				zap.Int("total", summary.Total),
				zap.Int("requested", summary.Requested),
				zap.Int("cached", summary.Cached))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Translated %d lines (%d requests, %d cached)\n",
				summary.Total, summary.Requested, summary.Cached)
			return nil
		},
	}
}

func newLanguagesCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := NewSession(flags, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer session.Close()

			codes, err := session.Client.Languages(cmd.Context())
			if err != nil {
				return err
			}
			printLanguages(cmd.OutOrStdout(), codes)
			return nil
		},
	}
}

func newHistoryCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded translations",
		Long: `Show recently recorded translations.

Translations are recorded when --history is given or history.enabled is set
in the config file. With --archive the database is moved into an archive
directory next to it and a fresh one is started on the next recording.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := LoadSettings()

			if flags.Archive {
				dest, err := history.Archive(settings.HistoryPath)
				if err != nil {
					return fmt.Errorf("failed to archive history: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "History archived to %s\n", dest)
				return nil
			}

			store, err := history.Open(settings.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), flags.HistoryLimit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&flags.HistoryLimit, "limit", "n", flags.HistoryLimit, "Number of entries to show")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the history database to the archive directory")

	return cmd
}

func printHistory(out io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No translations recorded")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s->%s  %s = %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.From, e.To, e.Text, e.Translation)
	}
}

func newSecretCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the Azure Marketplace client secret",
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Store the client secret read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := LoadSettings().Secret
			if flags.Keyring {
				config.Source = secret.SourceKeyring
			}

			value, err := readSecret(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := secret.Store(config, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Secret stored in %s\n", config.Location())
			return nil
		},
	}
	setCmd.Flags().BoolVar(&flags.Keyring, "keyring", false, "Store the secret in the system keyring")

	cmd.AddCommand(setCmd)
	return cmd
}

// readSecret returns the first line of in
func readSecret(in io.Reader) (string, error) {
	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return "", errors.New("no secret given on stdin")
}
