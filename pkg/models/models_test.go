package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// ============== FileCandidate Tests ==============

func TestFileCandidate(t *testing.T) {
	tests := []struct {
		name     string
		wantBase string
		wantExt  string
	}{
		{"report.txt", "report", ".txt"},
		{"dump.backup.sql", "dump.backup", ".sql"},
		{"README", "README", ""},
		{"Upper.PDF", "Upper", ".PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &FileCandidate{Name: tt.name}
			if c.Base() != tt.wantBase {
				t.Errorf("Base() = %q, want %q", c.Base(), tt.wantBase)
			}
			if c.Ext() != tt.wantExt {
				t.Errorf("Ext() = %q, want %q", c.Ext(), tt.wantExt)
			}
		})
	}
}

// ============== ExportRequest Tests ==============

func TestExportRequestValidate(t *testing.T) {
	t.Run("ValidRequest", func(t *testing.T) {
		req := &ExportRequest{SourceDir: "/source", DestDir: "/dest"}
		if err := req.Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})

	t.Run("EmptySourceDir", func(t *testing.T) {
		req := &ExportRequest{DestDir: "/dest"}
		err := req.Validate()
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Validate() error = %v, want *ValidationError", err)
		}
		if ve.Field != "SourceDir" {
			t.Errorf("ValidationError.Field = %s, want SourceDir", ve.Field)
		}
	})

	t.Run("EmptyDestDir", func(t *testing.T) {
		req := &ExportRequest{SourceDir: "/source"}
		err := req.Validate()
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Validate() error = %v, want *ValidationError", err)
		}
		if ve.Field != "DestDir" {
			t.Errorf("ValidationError.Field = %s, want DestDir", ve.Field)
		}
	})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "TestField", Message: "test message"}
	if err.Error() != "TestField: test message" {
		t.Errorf("Error() = %s, want %s", err.Error(), "TestField: test message")
	}
}

// ============== RunSummary Tests ==============

func TestRunSummaryRecord(t *testing.T) {
	s := &RunSummary{}
	s.Record(Outcome{Kind: OutcomeCopied, BytesCopied: 10})
	s.Record(Outcome{Kind: OutcomeCopied, BytesCopied: 20, Renamed: true})
	s.Record(Outcome{Kind: OutcomeSimulated, Renamed: true})
	s.Record(Outcome{Kind: OutcomeSkippedDuplicate})
	s.Record(Outcome{Kind: OutcomeSkippedUnreadable})
	s.Record(Outcome{Kind: OutcomeError, Renamed: true})

	if s.Copied != 2 {
		t.Errorf("Copied = %d, want 2", s.Copied)
	}
	if s.Simulated != 1 {
		t.Errorf("Simulated = %d, want 1", s.Simulated)
	}
	if s.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", s.Skipped)
	}
	if s.Errors != 1 {
		t.Errorf("Errors = %d, want 1", s.Errors)
	}
	if s.Renamed != 2 {
		t.Errorf("Renamed = %d, want 2", s.Renamed)
	}
	if s.BytesCopied != 30 {
		t.Errorf("BytesCopied = %d, want 30", s.BytesCopied)
	}
	if s.Total() != len(s.Outcomes) {
		t.Errorf("Total() = %d, want %d", s.Total(), len(s.Outcomes))
	}
}

func TestRunSummaryFinish(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := &RunSummary{StartTime: time.Now()}
		s.Record(Outcome{Kind: OutcomeCopied})
		s.Finish(s.StartTime.Add(time.Second))
		if s.Status != StatusSuccess {
			t.Errorf("Status = %s, want success", s.Status)
		}
		if s.Duration() != time.Second {
			t.Errorf("Duration() = %v, want 1s", s.Duration())
		}
	})

	t.Run("Partial", func(t *testing.T) {
		s := &RunSummary{StartTime: time.Now()}
		s.Record(Outcome{Kind: OutcomeError})
		s.Finish(time.Now())
		if s.Status != StatusPartial {
			t.Errorf("Status = %s, want partial", s.Status)
		}
	})

	t.Run("CancelledIsKept", func(t *testing.T) {
		s := &RunSummary{StartTime: time.Now(), Status: StatusCancelled}
		s.Finish(time.Now())
		if s.Status != StatusCancelled {
			t.Errorf("Status = %s, want cancelled", s.Status)
		}
	})
}

func TestRunSummaryText(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	s := &RunSummary{Copied: 2, Simulated: 1, Skipped: 3, Errors: 4, Timestamp: ts}
	text := s.Text()

	for _, want := range []string{
		"2025-03-04 05:06:07",
		"Files copied: 2",
		"Simulated (dry-run): 1",
		"Skipped (duplicate or unreadable): 3",
		"Errors: 4",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Text() missing %q:\n%s", want, text)
		}
	}
}

func TestRunStatusExitCode(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   int
	}{
		{StatusSuccess, 0},
		{StatusPartial, 1},
		{StatusFailed, 2},
		{StatusCancelled, 3},
		{RunStatus("bogus"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOutcomeKindIsSkip(t *testing.T) {
	if !OutcomeSkippedDuplicate.IsSkip() || !OutcomeSkippedUnreadable.IsSkip() {
		t.Error("skip kinds should report IsSkip")
	}
	if OutcomeCopied.IsSkip() || OutcomeSimulated.IsSkip() || OutcomeError.IsSkip() {
		t.Error("non-skip kinds should not report IsSkip")
	}
}
