package term

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
)

// Reporter renders fatal fault diagnostics: the error name as a red
// badge, the message in bold, the raise location, and the reset notice
// dimmed. It implements fault.DiagnosticSink.
type Reporter struct {
	out     io.Writer
	badge   *color.Color
	bold    *color.Color
	dim     *color.Color
	noColor bool
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithoutColor disables all styling regardless of the output device.
func WithoutColor() ReporterOption {
	return func(r *Reporter) {
		r.noColor = true
	}
}

// NewReporter returns a Reporter writing to out. Styling is enabled only
// when out is a terminal.
func NewReporter(out io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		out:   out,
		badge: color.New(color.FgBlack, color.BgRed),
		bold:  color.New(color.Bold),
		dim:   color.New(color.Faint),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if f, ok := out.(*os.File); !r.noColor && (!ok || !isatty.IsTerminal(f.Fd())) {
		r.noColor = true
	}
	if r.noColor {
		r.badge.DisableColor()
		r.bold.DisableColor()
		r.dim.DisableColor()
	}
	return r
}

// ReportFault writes the fatal diagnostic for rec.
func (r *Reporter) ReportFault(rec fault.Record) {
	fmt.Fprint(r.out, "\r\n\r\n")
	r.badge.Fprintf(r.out, " %s ", rec.Name)
	fmt.Fprint(r.out, "\r\n")
	if msg, ok := rec.Message(); ok {
		r.bold.Fprintf(r.out, " %s", msg)
	} else {
		r.bold.Fprint(r.out, " (no message)")
	}
	fmt.Fprintf(r.out, "\r\n at %s\r\n", rec.Location.String())
	r.dim.Fprint(r.out, "The above error was not caught.\r\n")
	r.dim.Fprint(r.out, "Reset the board to continue operation.\r\n")
}
