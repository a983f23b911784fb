package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/sdejongh/exporter/pkg/models"
)

// HumanFormatter prints one line per file and a summary block
type HumanFormatter struct {
	writer io.Writer
	quiet  bool
	total  int
	dryRun bool

	green *color.Color
	cyan  *color.Color
	gray  *color.Color
	warn  *color.Color
	red   *color.Color
	bold  *color.Color
}

// NewHumanFormatter creates a human-readable formatter
func NewHumanFormatter(w io.Writer, colored, quiet bool) *HumanFormatter {
	f := &HumanFormatter{
		writer: w,
		quiet:  quiet,
		green:  color.New(color.FgGreen),
		cyan:   color.New(color.FgCyan),
		gray:   color.New(color.FgHiBlack),
		warn:   color.New(color.FgYellow),
		red:    color.New(color.FgHiRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{f.green, f.cyan, f.gray, f.warn, f.red, f.bold} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Started prints the header
func (f *HumanFormatter) Started(total int, dryRun bool) {
	f.total = total
	f.dryRun = dryRun
	if f.quiet {
		return
	}

	mode := ""
	if dryRun {
		mode = " (dry run, nothing will be written)"
	}
	fmt.Fprintf(f.writer, "Exporting %d files%s\n", total, mode)
}

// Processed prints the outcome line for one file
func (f *HumanFormatter) Processed(index int, o models.Outcome) {
	if f.quiet && o.Kind != models.OutcomeError {
		return
	}
	fmt.Fprintln(f.writer, f.outcomeLine(index, o))
}

func (f *HumanFormatter) outcomeLine(index int, o models.Outcome) string {
	prefix := fmt.Sprintf("[%d/%d]", index, f.total)
	name := o.Candidate.Name

	switch o.Kind {
	case models.OutcomeCopied:
		return fmt.Sprintf("%s %s %s%s (%s)", prefix, f.green.Sprint("✓"), name, f.renamedSuffix(o), humanize.IBytes(uint64(o.BytesCopied)))
	case models.OutcomeSimulated:
		return fmt.Sprintf("%s %s %s%s (would copy)", prefix, f.cyan.Sprint("~"), name, f.renamedSuffix(o))
	case models.OutcomeSkippedDuplicate:
		return fmt.Sprintf("%s %s %s (duplicate, skipped)", prefix, f.gray.Sprint("-"), name)
	case models.OutcomeSkippedUnreadable:
		return fmt.Sprintf("%s %s %s (unreadable, skipped)", prefix, f.warn.Sprint("!"), name)
	default:
		return fmt.Sprintf("%s %s %s: %s", prefix, f.red.Sprint("✗"), name, o.ErrorText())
	}
}

func (f *HumanFormatter) renamedSuffix(o models.Outcome) string {
	if !o.Renamed {
		return ""
	}
	return " → " + f.bold.Sprint(baseName(o.DestPath))
}

// Finished prints the summary block
func (f *HumanFormatter) Finished(s *models.RunSummary) {
	fmt.Fprintln(f.writer)
	fmt.Fprint(f.writer, s.Text())
	if s.Renamed > 0 {
		fmt.Fprintf(f.writer, "- Renamed to avoid a conflict: %d\n", s.Renamed)
	}
	fmt.Fprintf(f.writer, "\nCompleted in %s, status: %s\n", s.Duration().Round(time.Millisecond), f.statusText(s.Status))
}

func (f *HumanFormatter) statusText(status models.RunStatus) string {
	switch status {
	case models.StatusSuccess:
		return f.green.Sprint(status)
	case models.StatusPartial, models.StatusCancelled:
		return f.warn.Sprint(status)
	default:
		return f.red.Sprint(status)
	}
}

// Error reports a fatal error
func (f *HumanFormatter) Error(err error) {
	fmt.Fprintf(f.writer, "%s %v\n", f.red.Sprint("Error:"), err)
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}
