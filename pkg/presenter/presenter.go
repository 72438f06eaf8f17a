// Package presenter is the single channel for user-facing CLI output:
// errors, successes, warnings, prompts, and section headers, with color
// handling and a quiet mode shared by every command.
package presenter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Presenter is the interface commands print through.
type Presenter interface {
	Error(err error, context string)
	Success(message string)
	Warning(message string)
	Info(message string)
	Section(title string)
	Prompt(question string, options ...string) string
	Separator()
	SetQuiet(quiet bool)
	IsQuiet() bool
}

// ColorMode controls whether output is colorized.
type ColorMode int

const (
	// ColorAuto lets the color package detect terminal capabilities.
	ColorAuto ColorMode = iota
	// ColorAlways forces color even when output is not a terminal.
	ColorAlways
	// ColorNever disables color entirely.
	ColorNever
)

// TerminalPresenter implements Presenter for terminal output.
type TerminalPresenter struct {
	output      io.Writer
	errorOutput io.Writer
	colorMode   ColorMode
	quiet       bool
}

// New returns a presenter on stdout/stderr with color detected from the
// environment.
func New() *TerminalPresenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions returns a presenter with explicit writers and color mode,
// used by tests to capture output.
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *TerminalPresenter {
	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}

	return &TerminalPresenter{
		output:      output,
		errorOutput: errorOutput,
		colorMode:   colorMode,
	}
}

// detectColorMode honors NO_COLOR and SNIPMD_COLOR before falling back to
// terminal detection.
func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}

	switch os.Getenv("SNIPMD_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Error prints an error with optional context to stderr. Errors print even
// in quiet mode.
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}

	errorColor := color.New(color.FgRed, color.Bold)
	if context != "" {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

// Success prints a checkmarked confirmation.
func (p *TerminalPresenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(p.output, "✓ %s\n", message)
}

// Warning prints a non-fatal notice.
func (p *TerminalPresenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(p.output, "⚠ %s\n", message)
}

// Info prints a plain informational line.
func (p *TerminalPresenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "%s\n", message)
}

// Section prints a bold title with an underline of matching width.
func (p *TerminalPresenter) Section(title string) {
	if p.quiet {
		return
	}

	headerColor := color.New(color.Bold)
	headerColor.Fprintf(p.output, "%s\n", title)
	headerColor.Fprintf(p.output, "%s\n", strings.Repeat("-", len(title)))
}

// Prompt prints a question, optionally with options like "Y/n", and returns
// the trimmed line read from stdin. A read failure returns an empty string
// so callers fall through to their default choice.
func (p *TerminalPresenter) Prompt(question string, options ...string) string {
	promptColor := color.New(color.FgCyan)
	if len(options) > 0 {
		promptColor.Fprintf(p.output, "%s [%s]: ", question, strings.Join(options, "/"))
	} else {
		promptColor.Fprintf(p.output, "%s: ", question)
	}

	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(response)
}

// Separator prints a faint horizontal rule.
func (p *TerminalPresenter) Separator() {
	if p.quiet {
		return
	}
	color.New(color.Faint).Fprintf(p.output, "%s\n", strings.Repeat("-", 60))
}

// SetQuiet suppresses everything except errors and prompts.
func (p *TerminalPresenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet reports whether quiet mode is on.
func (p *TerminalPresenter) IsQuiet() bool {
	return p.quiet
}

var defaultPresenter = New()

// Error prints through the default presenter.
func Error(err error, context string) {
	defaultPresenter.Error(err, context)
}

// Success prints through the default presenter.
func Success(message string) {
	defaultPresenter.Success(message)
}

// Warning prints through the default presenter.
func Warning(message string) {
	defaultPresenter.Warning(message)
}

// Info prints through the default presenter.
func Info(message string) {
	defaultPresenter.Info(message)
}

// Section prints through the default presenter.
func Section(title string) {
	defaultPresenter.Section(title)
}

// Prompt prompts through the default presenter.
func Prompt(question string, options ...string) string {
	return defaultPresenter.Prompt(question, options...)
}

// Separator prints through the default presenter.
func Separator() {
	defaultPresenter.Separator()
}

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) {
	defaultPresenter.SetQuiet(quiet)
}

// IsQuiet reports the default presenter's quiet mode.
func IsQuiet() bool {
	return defaultPresenter.IsQuiet()
}
