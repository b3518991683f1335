package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"runtime"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/mtrans/internal/history"
	"codeberg.org/snonux/mtrans/internal/testutil"
)

type memoryRecorder struct {
	entries []history.Entry
	err     error
}

func (r *memoryRecorder) Record(ctx context.Context, e history.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

type errReader struct{ err error }

func (r errReader) Read(p []byte) (int, error) { return 0, r.err }

func TestNew_Defaults(t *testing.T) {
	s := New(&testutil.MockTranslator{}, strings.NewReader(""), io.Discard, Options{})

	if s.opts.From != "en" || s.opts.To != "es" {
		t.Errorf("Expected en->es, got %s->%s", s.opts.From, s.opts.To)
	}
	if s.opts.Prompt != DefaultPrompt {
		t.Errorf("Expected default prompt, got %q", s.opts.Prompt)
	}
}

func TestRun_TranslatesLinesUntilEOF(t *testing.T) {
	translator := &testutil.MockTranslator{
		Translations: map[string]string{
			"Hello":    "Hola",
			"Good bye": "Adiós",
		},
	}
	var out bytes.Buffer
	s := New(translator, strings.NewReader("Hello\nGood bye\n"), &out, Options{})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expected := DefaultPrompt + "Hola\n" + DefaultPrompt + "Adiós\n" + DefaultPrompt + "\n"
	if out.String() != expected {
		t.Errorf("Unexpected output:\n got: %q\nwant: %q", out.String(), expected)
	}

	expectedCalls := []string{
		"Translate: Hello (en->es)",
		"Translate: Good bye (en->es)",
	}
	if len(translator.Calls) != len(expectedCalls) {
		t.Fatalf("Expected %d calls, got %v", len(expectedCalls), translator.Calls)
	}
	for i, call := range expectedCalls {
		if translator.Calls[i] != call {
			t.Errorf("Call %d = %s, want %s", i, translator.Calls[i], call)
		}
	}
}

func TestRun_EmptyTranslationIsPrinted(t *testing.T) {
	translator := &testutil.MockTranslator{Translations: map[string]string{"x": ""}}
	var out bytes.Buffer
	s := New(translator, strings.NewReader("x\n"), &out, Options{Prompt: "> "})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "> \n> \n" {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestRun_CustomLanguages(t *testing.T) {
	translator := &testutil.MockTranslator{}
	s := New(translator, strings.NewReader("Hallo\n"), io.Discard, Options{From: "de", To: "fr"})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(translator.Calls) != 1 || translator.Calls[0] != "Translate: Hallo (de->fr)" {
		t.Errorf("Unexpected calls %v", translator.Calls)
	}
}

func TestRun_CancelledContextEndsCleanly(t *testing.T) {
	translator := &testutil.MockTranslator{}
	var out bytes.Buffer
	s := New(translator, strings.NewReader("Hello\n"), &out, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Expected nil error on interrupt, got %v", err)
	}
	if out.String() != "\n" {
		t.Errorf("Expected trailing newline only, got %q", out.String())
	}
	if len(translator.Calls) != 0 {
		t.Errorf("Expected no translations, got %v", translator.Calls)
	}
}

func TestRun_InterruptWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	s := New(&testutil.MockTranslator{}, pr, &out, Options{Prompt: "> "})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	if _, err := pw.Write([]byte("one\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Expected nil error on interrupt, got %v", err)
	}
	if !strings.HasSuffix(out.String(), "\n") {
		t.Errorf("Expected output to end with newline, got %q", out.String())
	}
}

func TestRun_TranslatorErrorStopsLoop(t *testing.T) {
	boom := errors.New("service unavailable")
	translator := &testutil.MockTranslator{Errors: map[string]error{"bad": boom}}
	var out bytes.Buffer
	s := New(translator, strings.NewReader("good\nbad\nnever\n"), &out, Options{})

	err := s.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Expected translator error, got %v", err)
	}
	if len(translator.Calls) != 2 {
		t.Errorf("Expected loop to stop after failing line, got calls %v", translator.Calls)
	}
}

func TestRun_ReadError(t *testing.T) {
	readErr := errors.New("tty gone")
	s := New(&testutil.MockTranslator{}, errReader{readErr}, io.Discard, Options{})

	err := s.Run(context.Background())
	if !errors.Is(err, readErr) {
		t.Errorf("Expected read error, got %v", err)
	}
}

func TestRun_RecordsHistory(t *testing.T) {
	recorder := &memoryRecorder{}
	translator := &testutil.MockTranslator{Translations: map[string]string{"cat": "gato"}}
	s := New(translator, strings.NewReader("cat\n"), io.Discard, Options{Recorder: recorder})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(recorder.entries) != 1 {
		t.Fatalf("Expected 1 recorded entry, got %d", len(recorder.entries))
	}
	e := recorder.entries[0]
	if e.Text != "cat" || e.Translation != "gato" || e.From != "en" || e.To != "es" {
		t.Errorf("Unexpected entry %+v", e)
	}
}

func TestRun_RecorderError(t *testing.T) {
	recorder := &memoryRecorder{err: errors.New("disk full")}
	s := New(&testutil.MockTranslator{}, strings.NewReader("cat\n"), io.Discard, Options{Recorder: recorder})

	err := s.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected recorder error, got %v", err)
	}
}

func TestRun_ErrorStopsInputReader(t *testing.T) {
	before := runtime.NumGoroutine()

	boom := errors.New("service unavailable")
	translator := &testutil.MockTranslator{Errors: map[string]error{"bad": boom}}
	// Lines remain unread when the loop stops
	s := New(translator, strings.NewReader("bad\nmore\nlines\n"), io.Discard, Options{})

	if err := s.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Expected translator error, got %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("Input reader still running: %d goroutines, want %d", runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
