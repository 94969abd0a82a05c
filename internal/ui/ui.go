package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// OutputMode determines how output should be formatted
type OutputMode int

const (
	// OutputModeInteractive enables full colors, spinners, and progress bars
	OutputModeInteractive OutputMode = iota
	// OutputModePlain disables colors and progress (for piped output)
	OutputModePlain
	// OutputModeJSON outputs raw JSON only
	OutputModeJSON
)

// Output formats accepted by --format
const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
)

// UI provides a unified interface for terminal output with TTY detection
type UI struct {
	Mode      OutputMode
	Writer    io.Writer
	ErrWriter io.Writer
	Styles    *Styles
}

// New creates a new UI instance with automatic TTY detection
func New(w, errW io.Writer, format string) *UI {
	mode := detectMode(w, format)
	return &UI{
		Mode:      mode,
		Writer:    w,
		ErrWriter: errW,
		Styles:    NewStyles(mode == OutputModeInteractive),
	}
}

// ValidateFormat rejects unknown --format values
func ValidateFormat(format string) error {
	switch format {
	case FormatTerminal, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatTerminal, FormatJSON)
	}
}

// detectMode determines the output mode based on TTY and format flags
func detectMode(w io.Writer, format string) OutputMode {
	if format == FormatJSON {
		return OutputModeJSON
	}

	if f, ok := w.(*os.File); ok {
		if term.IsTerminal(int(f.Fd())) {
			return OutputModeInteractive
		}
	}

	return OutputModePlain
}

// Width returns the terminal width, or 80 when it cannot be determined
func (ui *UI) Width() int {
	if f, ok := ui.Writer.(*os.File); ok && ui.IsInteractive() {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// IsInteractive returns true if the output is interactive (TTY)
func (ui *UI) IsInteractive() bool {
	return ui.Mode == OutputModeInteractive
}

// IsJSON returns true if JSON output mode is enabled
func (ui *UI) IsJSON() bool {
	return ui.Mode == OutputModeJSON
}

// Warn prints a styled warning to the error writer
func (ui *UI) Warn(format string, args ...any) {
	fmt.Fprintln(ui.ErrWriter, ui.Styles.Warning.Render(
		fmt.Sprintf("%s %s", ui.Styles.IconWarning, fmt.Sprintf(format, args...)),
	))
}
