package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gitlab.com/tozd/go/errors"

	"github.com/sdejongh/exporter/pkg/models"
)

// Formatter renders an export run as it happens.
// Every formatter satisfies export.Observer.
type Formatter interface {
	// Started is called once the candidates are known
	Started(total int, dryRun bool)

	// Processed reports one candidate outcome, index starting at 1
	Processed(index int, outcome models.Outcome)

	// Finished displays the summary
	Finished(summary *models.RunSummary)

	// Error reports a fatal error
	Error(err error)

	// Name returns the formatter name
	Name() string
}

// Options selects formatter behaviour
type Options struct {
	// Progress shows a progress bar when writing to a terminal
	Progress bool
	// Color enables ANSI colours when writing to a terminal
	Color bool
	// Quiet hides everything but errors and the summary
	Quiet bool
}

// New returns the formatter for format ("human" or "json") writing to w
func New(format string, w io.Writer, opts Options) (Formatter, error) {
	if w == nil {
		w = os.Stdout
	}

	switch format {
	case "json":
		return NewJSONFormatter(w), nil
	case "human", "":
		tty := isTerminal(w)
		human := NewHumanFormatter(w, opts.Color && tty, opts.Quiet)
		if opts.Progress && tty && !opts.Quiet {
			return NewProgressFormatter(w, human), nil
		}
		return human, nil
	default:
		return nil, errors.Errorf("unsupported output format: %s (use: human, json)", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
