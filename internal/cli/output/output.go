// Package output renders CLI output in text, markdown, or JSON form. All
// user-facing printing goes through a Renderer so commands stay consistent
// and machine-readable modes stay clean of styling.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

const (
	// ModeAuto picks text with styling on a TTY, plain text otherwise.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Styles holds the lipgloss styles used across commands.
type Styles struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
}

func newStyles() *Styles {
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// plainStyles strips all styling for non-TTY and markdown output.
func plainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Title: plain, Bold: plain, Success: plain,
		Warning: plain, Error: plain, Info: plain, Muted: plain,
	}
}

// OutputMode is an alias of Mode kept for readability at call sites.
type OutputMode = Mode

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a Renderer for the given writers and mode, detecting
// whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, detectTTY(out), mode)
}

// NewRendererWithTTY creates a Renderer with an explicit TTY state. Tests
// use this to exercise both styled and plain output.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	r := &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}

	if r.isTTY && r.EffectiveMode() == ModeText && termenv.EnvColorProfile() != termenv.Ascii {
		r.styles = newStyles()
	} else {
		r.styles = plainStyles()
	}
	return r
}

func detectTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto to the concrete mode in use.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode == ModeAuto || r.mode == "" {
		return ModeText
	}
	return r.mode
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer exposes the underlying output writer for tabular output.
func (r *Renderer) Writer() io.Writer { return r.out }

// Styles returns the active style set. Styles are no-ops off-TTY.
func (r *Renderer) Styles() *Styles { return r.styles }

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

// Success prints a checkmarked success line.
func (r *Renderer) Success(msg string) {
	fmt.Fprintln(r.out, r.styles.Success.Render("✓"), msg)
}

// Warning prints a warning line to standard error.
func (r *Renderer) Warning(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Warning.Render("⚠"), msg)
}

// Error prints an error line to standard error.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Error.Render("✗"), msg)
}

// Muted prints a de-emphasized line.
func (r *Renderer) Muted(msg string) {
	fmt.Fprintln(r.out, r.styles.Muted.Render(msg))
}

// Header prints a section header. In markdown mode the level maps to the
// heading depth.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		for i := 0; i < level; i++ {
			fmt.Fprint(r.out, "#")
		}
		fmt.Fprintln(r.out, " "+text)
		fmt.Fprintln(r.out)
		return
	}
	fmt.Fprintln(r.out, r.styles.Title.Render(text))
}

// StatusLine prints a name with a status marker and optional detail, the
// form used by doctor and other check-style commands.
func (r *Renderer) StatusLine(name, status, detail string) {
	var marker string
	switch status {
	case "success", "ok":
		marker = r.styles.Success.Render("✓")
	case "warning":
		marker = r.styles.Warning.Render("⚠")
	case "error", "failed":
		marker = r.styles.Error.Render("✗")
	default:
		marker = r.styles.Muted.Render("-")
	}

	if detail != "" {
		fmt.Fprintf(r.out, "  %s %s: %s\n", marker, name, detail)
		return
	}
	fmt.Fprintf(r.out, "  %s %s\n", marker, name)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
