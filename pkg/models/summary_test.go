package models

import (
	"testing"
	"time"
)

func TestRunSummaryOrdering(t *testing.T) {
	s := NewRunSummary("collect")

	m1 := Message{ID: "m1", Subject: "first", ReceivedAt: time.Now()}
	m2 := Message{ID: "m2", Subject: "second", ReceivedAt: time.Now()}

	s.Skip("not a pdf", &m2, "")
	s.Saved(m1, "Feb - Sat - 07-02-2026.pdf", false)
	s.Skip("no travel date", &m1, "receipt.pdf: no travel date")
	s.Skip("not a pdf", &m1, "")

	if len(s.Messages) != 2 || s.Messages[0].MessageID != "m2" || s.Messages[1].MessageID != "m1" {
		t.Fatalf("expected message reports in first-touch order, got %+v", s.Messages)
	}
	if got := s.SkipReasons; len(got) != 2 || got[0] != "not a pdf" || got[1] != "no travel date" {
		t.Errorf("expected skip reasons in first-seen order, got %v", got)
	}
	if s.SkipCounts["not a pdf"] != 2 {
		t.Errorf("expected 2 not-a-pdf skips, got %d", s.SkipCounts["not a pdf"])
	}
	if s.FilesSaved != 1 || s.DuplicatesRenamed != 0 {
		t.Errorf("unexpected save counts: %+v", s)
	}

	report := s.Report(m1)
	if len(report.Saved) != 1 || len(report.Skipped) != 2 {
		t.Errorf("unexpected m1 report: %+v", report)
	}
	// Blank detail falls back to the reason string.
	if report.Skipped[1] != "not a pdf" {
		t.Errorf("expected reason fallback, got %q", report.Skipped[1])
	}
}

func TestRunSummaryRenamedCount(t *testing.T) {
	s := NewRunSummary("collect")
	m := Message{ID: "m1"}

	s.Saved(m, "a.pdf", false)
	s.Saved(m, "a (2).pdf", true)

	if s.FilesSaved != 2 || s.DuplicatesRenamed != 1 {
		t.Errorf("expected 2 saves and 1 rename, got %+v", s)
	}
}
