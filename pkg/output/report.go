package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/sdejongh/exporter/pkg/models"
)

// WriteSummaryReport writes the run summary to path, or to stdout when
// path is "-". Format can be "human" or "json".
func WriteSummaryReport(summary *models.RunSummary, path string, format string) error {
	if path == "-" {
		return WriteSummary(os.Stdout, summary, format)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Errorf("failed to create summary report: %w", err)
	}

	if err := WriteSummary(file, summary, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Errorf("failed to close summary report: %w", err)
	}
	return nil
}

// WriteSummary writes the run summary to w in the given format
func WriteSummary(w io.Writer, summary *models.RunSummary, format string) error {
	switch format {
	case "json":
		if err := encodeJSON(w, NewJSONReport(summary)); err != nil {
			return errors.Errorf("failed to write summary report: %w", err)
		}
		return nil
	default: // "human"
		return writeSummaryHuman(summary, w)
	}
}

// writeSummaryHuman writes the summary block followed by the files that
// need attention, grouped by outcome
func writeSummaryHuman(s *models.RunSummary, w io.Writer) error {
	fmt.Fprint(w, s.Text())
	fmt.Fprintf(w, "\nSource: %s\n", s.SourcePath)
	fmt.Fprintf(w, "Destination: %s\n", s.DestPath)
	fmt.Fprintf(w, "Dry run: %v\n", s.DryRun)
	fmt.Fprintf(w, "Status: %s\n", s.Status)
	fmt.Fprintf(w, "Duration: %s\n", s.Duration().Round(time.Millisecond))

	groups := []struct {
		label   string
		matches func(models.Outcome) bool
	}{
		{"Errors", func(o models.Outcome) bool { return o.Kind == models.OutcomeError }},
		{"Unreadable", func(o models.Outcome) bool { return o.Kind == models.OutcomeSkippedUnreadable }},
		{"Renamed", func(o models.Outcome) bool {
			return o.Renamed && (o.Kind == models.OutcomeCopied || o.Kind == models.OutcomeSimulated)
		}},
		{"Duplicates", func(o models.Outcome) bool { return o.Kind == models.OutcomeSkippedDuplicate }},
	}

	for _, g := range groups {
		var lines []string
		for _, o := range s.Outcomes {
			if !g.matches(o) {
				continue
			}
			line := o.Candidate.Name
			switch {
			case o.Err != nil:
				line += ": " + o.ErrorText()
			case o.Renamed:
				line += " -> " + baseName(o.DestPath)
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s (%d files)\n", g.label, len(lines))
		for _, line := range lines {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	return nil
}
