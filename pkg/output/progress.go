package output

import (
	"fmt"
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/exporter/pkg/models"
)

// clearLine erases the current terminal line
const clearLine = "\x1b[2K"

const progressTemplate pb.ProgressBarTemplate = `{{string . "mode"}} {{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{string . "file"}}`

// ProgressFormatter draws a progress bar while files are processed. Lines
// for problem files are printed above the bar as they happen; the summary is
// delegated to a HumanFormatter. The bar is static and redrawn by the
// formatter, so all writes happen on the caller's goroutine.
type ProgressFormatter struct {
	writer  io.Writer
	human   *HumanFormatter
	bar     *pb.ProgressBar
	running bool
}

// NewProgressFormatter creates a progress formatter writing to w
func NewProgressFormatter(w io.Writer, human *HumanFormatter) *ProgressFormatter {
	return &ProgressFormatter{writer: w, human: human}
}

// Started creates the bar
func (f *ProgressFormatter) Started(total int, dryRun bool) {
	f.human.total = total
	f.human.dryRun = dryRun

	mode := "export"
	if dryRun {
		mode = "plan"
	}

	f.bar = progressTemplate.New(total)
	f.bar.SetWriter(f.writer)
	f.bar.SetWidth(terminalWidth(f.writer))
	f.bar.Set(pb.Static, true)
	f.bar.Set("mode", mode)
	f.bar.Start()
	f.bar.Write()
	f.running = true
}

// Processed prints problem files above the bar and advances it
func (f *ProgressFormatter) Processed(index int, o models.Outcome) {
	if o.Kind == models.OutcomeError || o.Kind == models.OutcomeSkippedUnreadable || o.Renamed {
		f.printAbove(f.human.outcomeLine(index, o))
	}
	if !f.running {
		return
	}
	f.bar.Set("file", o.Candidate.Name)
	f.bar.Increment()
	f.bar.Write()
}

// printAbove clears the bar line, prints line and lets the next redraw
// put the bar back underneath
func (f *ProgressFormatter) printAbove(line string) {
	if f.running {
		fmt.Fprint(f.writer, "\r"+clearLine)
	}
	fmt.Fprintln(f.writer, line)
	if f.running {
		f.bar.Write()
	}
}

// stop draws the final state of the bar and ends its line
func (f *ProgressFormatter) stop() {
	if !f.running {
		return
	}
	f.running = false
	f.bar.Write()
	f.bar.Finish()
	fmt.Fprintln(f.writer)
}

// Finished stops the bar and prints the summary
func (f *ProgressFormatter) Finished(s *models.RunSummary) {
	if f.bar != nil {
		f.bar.Set("file", "")
	}
	f.stop()
	f.human.Finished(s)
}

// Error reports a fatal error
func (f *ProgressFormatter) Error(err error) {
	f.stop()
	f.human.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

// terminalWidth returns the width of w, or 100 when it is not a terminal
func terminalWidth(w io.Writer) int {
	if file, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 100
}
