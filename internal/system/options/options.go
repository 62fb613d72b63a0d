// Released under an MIT license. See LICENSE.

// Package options gathers softmacs settings from the command line and the
// configuration file. Command line settings win.
package options

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Version is reported by --version.
const Version = "softmacs 0.1.0"

// Config mirrors the configuration file.
type Config struct {
	Continuations string `yaml:"continuations"` // "multi" or "single".
	Listen        string `yaml:"listen"`        // Address for serving the store.
	Log           struct {
		Level string `yaml:"level"`
		Trace bool   `yaml:"trace"`
	} `yaml:"log"`
	Store struct {
		Remote  string        `yaml:"remote"`  // URL of a remote store.
		Timeout time.Duration `yaml:"timeout"` // Limit on each remote resolve.
	} `yaml:"store"`
}

//nolint:gochecknoglobals
var (
	// ErrContinuations is returned for an unknown continuations setting.
	ErrContinuations = errors.New(`continuations must be "multi" or "single"`)

	current settings
	usage   = `softmacs

Usage:
  softmacs [options] [SCRIPT...]

Arguments:
  SCRIPT  Path to a script. Each is evaluated in turn.

Options:
  -c, --command=EXPRESSION  Evaluate the expression.
  --config=PATH             Configuration file. Defaults to ~/.softmacs.yaml.
  -d, --debug               Log at debug level.
  -l, --listen=ADDRESS      Serve the local store over websocket.
  -r, --remote=URL          Resolve references through a remote store.
  -s, --single-shot         Continuations may be invoked at most once.
  -t, --trace               Log every machine step. Implies --debug.
  -h, --help                Display this help.
  -v, --version             Print softmacs version.

When no script or expression is given, expressions are read from stdin.
If stdin is a TTY, softmacs starts an interactive session.
`
)

type settings struct {
	Config

	command     string
	interactive bool
	scripts     []string
}

// Parse reads the command line and the configuration file.
func Parse() error {
	s, err := parse(os.Args[1:], isatty.IsTerminal(os.Stdin.Fd()) ||
		isatty.IsCygwinTerminal(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	current = *s

	return nil
}

// Command returns the expression passed with -c, if any.
func Command() string {
	return current.command
}

// SingleShot returns true if continuations may be invoked at most once.
func SingleShot() bool {
	return current.Continuations == "single"
}

// Interactive returns true if softmacs should start an interactive session.
func Interactive() bool {
	return current.interactive
}

// Listen returns the address on which to serve the local store.
func Listen() string {
	return current.Listen
}

// Logger returns a text logger on stderr at the configured level.
func Logger() *slog.Logger {
	level := slog.LevelInfo

	switch strings.ToLower(current.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Remote returns the URL of the remote store, if any.
func Remote() string {
	return current.Store.Remote
}

// Scripts returns the scripts to evaluate.
func Scripts() []string {
	return current.scripts
}

// Timeout returns the limit on each remote resolve.
func Timeout() time.Duration {
	return current.Store.Timeout
}

// Trace returns true if every machine step should be logged.
func Trace() bool {
	return current.Log.Trace
}

// Defaults returns the configuration used when there is no file.
func Defaults() *Config {
	c := &Config{Continuations: "multi"}
	c.Log.Level = "info"
	c.Store.Timeout = 5 * time.Second

	return c
}

// Load reads the configuration file at path over the defaults. A missing
// file is not an error when required is false.
func Load(path string, required bool) (*Config, error) {
	c := Defaults()

	b, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}

		return nil, err
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

func parse(argv []string, terminal bool) (*settings, error) {
	p := &docopt.Parser{HelpHandler: docopt.PrintHelpAndExit}

	opts, err := p.ParseArgs(usage, argv, Version)
	if err != nil {
		return nil, err
	}

	path, _ := opts.String("--config")

	required := path != ""
	if !required {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".softmacs.yaml")
		}
	}

	s := &settings{Config: *Defaults()}

	if path != "" {
		c, err := Load(path, required)
		if err != nil {
			return nil, err
		}

		s.Config = *c
	}

	s.command, _ = opts.String("--command")
	s.scripts, _ = opts["SCRIPT"].([]string)

	if v, _ := opts.String("--listen"); v != "" {
		s.Listen = v
	}

	if v, _ := opts.String("--remote"); v != "" {
		s.Store.Remote = v
	}

	if v, _ := opts.Bool("--single-shot"); v {
		s.Continuations = "single"
	}

	if v, _ := opts.Bool("--debug"); v {
		s.Log.Level = "debug"
	}

	if v, _ := opts.Bool("--trace"); v {
		s.Log.Trace = true
	}

	if s.Log.Trace {
		s.Log.Level = "debug"
	}

	switch s.Continuations {
	case "", "multi", "single":
	default:
		return nil, ErrContinuations
	}

	s.interactive = terminal && s.command == "" && len(s.scripts) == 0

	return s, nil
}
