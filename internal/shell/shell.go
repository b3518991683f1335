// Package shell runs the interactive read-translate-print loop.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"codeberg.org/snonux/mtrans/internal/history"
)

const DefaultPrompt = "Enter some English text (CTRL+C to quit): "

// maxLineSize bounds a single input line
const maxLineSize = 1 << 20

// Translator translates a line of text
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Recorder stores completed translations
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Options configures a Shell
type Options struct {
	From     string
	To       string
	Prompt   string
	Recorder Recorder // optional
}

// Shell reads lines from in and writes their translations to out
type Shell struct {
	translator Translator
	in         io.Reader
	out        io.Writer
	opts       Options
}

// New creates a shell. Empty options fall back to English to Spanish with
// the default prompt.
func New(translator Translator, in io.Reader, out io.Writer, opts Options) *Shell {
	if opts.From == "" {
		opts.From = "en"
	}
	if opts.To == "" {
		opts.To = "es"
	}
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	return &Shell{
		translator: translator,
		in:         in,
		out:        out,
		opts:       opts,
	}
}

// Run prompts for lines until ctx is cancelled or input ends; both finish
// with a newline and a nil error. Any other error ends the loop and is
// returned.
func (s *Shell) Run(ctx context.Context) error {
	// Stops the reader when Run returns early
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, readErr := s.readLines(readCtx)

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(s.out)
			return nil
		}
		fmt.Fprint(s.out, s.opts.Prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				fmt.Fprintln(s.out)
				return nil
			}
			line = l
		}

		translated, err := s.translator.Translate(ctx, line, s.opts.From, s.opts.To)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}
		fmt.Fprintln(s.out, translated)

		if s.opts.Recorder != nil {
			err := s.opts.Recorder.Record(ctx, history.Entry{
				Text:        line,
				Translation: translated,
				From:        s.opts.From,
				To:          s.opts.To,
			})
			if err != nil {
				return fmt.Errorf("failed to record translation: %w", err)
			}
		}
	}
}

// readLines feeds input lines to a channel so that Run can stop waiting on
// a blocked read when ctx is cancelled.
func (s *Shell) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errs <- nil
				return
			}
		}
		errs <- scanner.Err()
	}()

	return lines, errs
}
