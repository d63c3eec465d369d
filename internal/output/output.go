// Package output carries the stdout side of ws: workspace paths for shell
// `cd` wrappers, list and status tables, and JSON/YAML/TOML documents.
// Progress, ledgers and warnings go to stderr through the log package, so
// stdout stays safe to capture in `$(ws switch login)`.
//
// Terminal printers pass everything through a colorprofile writer: styles
// are downsampled to what TERM supports and removed entirely when stdout
// is piped or NO_COLOR is set.
package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
)

// Printer writes data to stdout. It is attached to the command context
// once in the root command and shared by every subcommand.
type Printer struct {
	w io.Writer
}

// New returns a Printer that writes to w unchanged.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewTerminal returns a Printer whose ANSI styling is adapted to the color
// support described by environ.
func NewTerminal(w io.Writer, environ []string) *Printer {
	return New(colorprofile.NewWriter(w, environ))
}

type printerKey struct{}

// WithPrinter returns ctx carrying p.
func WithPrinter(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, printerKey{}, p)
}

// FromContext returns the attached Printer, or one on os.Stdout.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(printerKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) Print(a ...any)                 { fmt.Fprint(p.w, a...) }
func (p *Printer) Printf(format string, a ...any) { fmt.Fprintf(p.w, format, a...) }
func (p *Printer) Println(a ...any)               { fmt.Fprintln(p.w, a...) }

// Writer exposes the destination for encoders and table renderers.
func (p *Printer) Writer() io.Writer {
	return p.w
}
