// Package presenter provides consistent CLI output for user-facing
// messages: success, warning, error and informational lines with color
// support and a quiet mode. Log output goes through pkg/logger; this
// package is for what the user is meant to read.
package presenter

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Presenter writes user-facing messages.
type Presenter struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

// New creates a presenter writing to stdout/stderr with color mode
// derived from the environment (NO_COLOR and SKILLCTL_COLOR).
func New() *Presenter {
	configureColor()
	return &Presenter{out: os.Stdout, errOut: os.Stderr}
}

// NewWithWriters creates a presenter with custom writers, used in tests.
func NewWithWriters(out, errOut io.Writer) *Presenter {
	return &Presenter{out: out, errOut: errOut}
}

func configureColor() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
		return
	}
	switch os.Getenv("SKILLCTL_COLOR") {
	case "always", "force":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
}

// SetQuiet suppresses Info and Success output. Warnings and errors are
// always written.
func (p *Presenter) SetQuiet(quiet bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quiet = quiet
}

// Info writes an informational message.
func (p *Presenter) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, message)
}

// Success writes a success message.
func (p *Presenter) Success(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, color.GreenString("✓ %s", message))
}

// Warning writes a warning message to stderr.
func (p *Presenter) Warning(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.errOut, color.YellowString("⚠ %s", message))
}

// Error writes an error with optional context to stderr.
func (p *Presenter) Error(err error, context string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if context != "" {
		fmt.Fprintln(p.errOut, color.RedString("✗ %s: %v", context, err))
		return
	}
	fmt.Fprintln(p.errOut, color.RedString("✗ %v", err))
}

// Section writes a titled separator line.
func (p *Presenter) Section(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, color.New(color.Bold).Sprintf("=== %s ===", title))
}

// Default is the process-wide presenter used by the CLI commands.
var Default = New()

// Info writes an informational message via the default presenter.
func Info(message string) { Default.Info(message) }

// Success writes a success message via the default presenter.
func Success(message string) { Default.Success(message) }

// Warning writes a warning via the default presenter.
func Warning(message string) { Default.Warning(message) }

// Error writes an error via the default presenter.
func Error(err error, context string) { Default.Error(err, context) }

// Section writes a titled separator via the default presenter.
func Section(title string) { Default.Section(title) }

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) { Default.SetQuiet(quiet) }
