// Package batch translates the lines of a text file in one run.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/mtrans/internal/translation"
)

// Translator translates a single text
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Summary counts what a batch run did
type Summary struct {
	Total     int // lines processed
	Requested int // lines sent to the service
	Cached    int // lines answered from the cache
}

// ReadBatchFile reads a batch file and returns its non-blank lines with
// surrounding whitespace removed. Lines starting with '#' are comments.
func ReadBatchFile(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Processor translates lists of lines, asking the service only once per
// distinct line
type Processor struct {
	translator Translator
	cache      *translation.Cache
	from, to   string
	logger     *zap.Logger
}

// NewProcessor creates a batch processor for the given language pair
func NewProcessor(translator Translator, from, to string, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		translator: translator,
		cache:      translation.NewCache(),
		from:       from,
		to:         to,
		logger:     logger,
	}
}

// Process writes "<line> = <translation>" to out for every line. It stops
// at the first failing line and returns the summary so far with the error.
func (p *Processor) Process(ctx context.Context, lines []string, out io.Writer) (Summary, error) {
	var summary Summary

	for i, line := range lines {
		translated, ok := p.cache.Get(line, p.from, p.to)
		if ok {
			summary.Cached++
		} else {
			var err error
			translated, err = p.translator.Translate(ctx, line, p.from, p.to)
			if err != nil {
				return summary, fmt.Errorf("line %d (%q): %w", i+1, line, err)
			}
			p.cache.Add(line, p.from, p.to, translated)
			summary.Requested++
		}
		summary.Total++

		p.logger.Debug("batch line translated",
			zap.Int("line", i+1),
			zap.Bool("cached", ok))
		fmt.Fprintf(out, "%s = %s\n", line, translated)
	}

	return summary, nil
}
