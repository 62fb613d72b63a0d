package options

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func config(t *testing.T, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "softmacs.yaml")

	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestCommandLineWins(t *testing.T) {
	path := config(t, `
store:
  remote: ws://file/store
  timeout: 2s
continuations: multi
listen: ":9000"
log:
  level: warn
`)

	s, err := parse([]string{"--config", path, "-s", "-r", "ws://flag/store", "-c", "(+ 1 2)"}, true)
	if err != nil {
		t.Fatal(err)
	}

	if s.Store.Remote != "ws://flag/store" {
		t.Errorf("expected the remote from the command line, got %q", s.Store.Remote)
	}

	if s.Store.Timeout != 2*time.Second {
		t.Errorf("expected a 2s timeout, got %v", s.Store.Timeout)
	}

	if s.Listen != ":9000" {
		t.Errorf("expected :9000, got %q", s.Listen)
	}

	if s.Continuations != "single" {
		t.Errorf("expected single-shot continuations, got %q", s.Continuations)
	}

	if s.command != "(+ 1 2)" || s.interactive {
		t.Errorf("expected a command and no interactive session, got %q, %v", s.command, s.interactive)
	}

	if s.Log.Level != "warn" {
		t.Errorf("expected warn, got %q", s.Log.Level)
	}
}

func TestDefaults(t *testing.T) {
	path := config(t, "")

	s, err := parse([]string{"--config", path}, true)
	if err != nil {
		t.Fatal(err)
	}

	if !s.interactive || s.Continuations != "multi" || s.Store.Timeout != 5*time.Second {
		t.Fatalf("unexpected defaults %+v", s)
	}
}

func TestMissingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := parse([]string{"--config", path}, false); err == nil {
		t.Fatal("expected an error for a missing configuration file")
	}

	if _, err := Load(path, false); err != nil {
		t.Fatalf("expected defaults for an optional file, got %v", err)
	}
}

func TestScripts(t *testing.T) {
	s, err := parse([]string{"--config", config(t, ""), "--trace", "a.sm", "b.sm"}, true)
	if err != nil {
		t.Fatal(err)
	}

	if len(s.scripts) != 2 || s.interactive {
		t.Fatalf("expected two scripts and no interactive session, got %v, %v", s.scripts, s.interactive)
	}

	if !s.Log.Trace || s.Log.Level != "debug" {
		t.Fatalf("expected tracing at debug level, got %v, %q", s.Log.Trace, s.Log.Level)
	}
}

func TestUnknownContinuations(t *testing.T) {
	path := config(t, "continuations: sometimes\n")

	if _, err := parse([]string{"--config", path}, false); !errors.Is(err, ErrContinuations) {
		t.Fatalf("expected %v, got %v", ErrContinuations, err)
	}
}
