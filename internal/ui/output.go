// Package ui renders user-facing output and prompts for treestage.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const ruleWidth = 70

// level is a kind of status line: a fixed tag in a fixed color
type level struct {
	tag   string
	color *color.Color
}

var (
	levelInfo    = level{tag: "[INFO]", color: color.New(color.FgBlue)}
	levelSuccess = level{tag: "[✓]", color: color.New(color.FgGreen)}
	levelWarning = level{tag: "[WARNING]", color: color.New(color.FgYellow)}
	levelError   = level{tag: "[ERROR]", color: color.New(color.FgRed)}

	headingColor = color.New(color.FgCyan, color.Bold)
)

// UI writes status lines and headings. It is safe for concurrent use:
// profiles staged in parallel report through one UI.
type UI struct {
	mu             sync.Mutex
	output         io.Writer
	nonInteractive bool
}

// New creates a UI writing to stderr
func New() *UI {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a UI with custom output writer (useful for testing)
func NewWithWriter(w io.Writer) *UI {
	return &UI{output: w}
}

// SetNonInteractive enables or disables non-interactive mode
func (u *UI) SetNonInteractive(enabled bool) {
	u.nonInteractive = enabled
}

// IsNonInteractive returns true if non-interactive mode is enabled
func (u *UI) IsNonInteractive() bool {
	return u.nonInteractive
}

// Writer returns the writer output goes to
func (u *UI) Writer() io.Writer {
	return u.output
}

func (u *UI) emit(l level, msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	l.color.Fprintf(u.output, "%s %s\n", l.tag, msg)
}

// Info prints an info message
func (u *UI) Info(msg string) { u.emit(levelInfo, msg) }

// Infof prints a formatted info message
func (u *UI) Infof(format string, args ...any) { u.emit(levelInfo, fmt.Sprintf(format, args...)) }

// Success prints a success message
func (u *UI) Success(msg string) { u.emit(levelSuccess, msg) }

// Successf prints a formatted success message
func (u *UI) Successf(format string, args ...any) { u.emit(levelSuccess, fmt.Sprintf(format, args...)) }

// Warning prints a warning message
func (u *UI) Warning(msg string) { u.emit(levelWarning, msg) }

// Warningf prints a formatted warning message
func (u *UI) Warningf(format string, args ...any) { u.emit(levelWarning, fmt.Sprintf(format, args...)) }

// Error prints an error message
func (u *UI) Error(msg string) { u.emit(levelError, msg) }

// Errorf prints a formatted error message
func (u *UI) Errorf(format string, args ...any) { u.emit(levelError, fmt.Sprintf(format, args...)) }

// Header prints title between two rules, with a blank line around it
func (u *UI) Header(title string) {
	rule := strings.Repeat("=", ruleWidth)

	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.output)
	headingColor.Fprintf(u.output, "%s\n  %s\n%s\n", rule, title, rule)
	fmt.Fprintln(u.output)
}

// Separator prints a thin rule
func (u *UI) Separator() {
	u.mu.Lock()
	defer u.mu.Unlock()
	headingColor.Fprintln(u.output, strings.Repeat("-", ruleWidth))
}

// Print prints a plain message without formatting
func (u *UI) Print(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.output, msg)
}
