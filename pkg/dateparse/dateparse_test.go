package dateparse

import (
	"testing"
	"time"

	"github.com/yurifrl/ticketfiler/pkg/models"
)

func TestResolveFromFilename(t *testing.T) {
	received := time.Date(2026, time.February, 1, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name     string
		filename string
		day      int
		month    time.Month
	}{
		{"underscore separators", "ticket_07_Feb_0900_receipt.pdf", 7, time.February},
		{"hyphen separators", "ticket-07-Feb-0900.pdf", 7, time.February},
		{"space separators", "ticket 07 Feb 0900.pdf", 7, time.February},
		{"mixed separators", "ticket 7_feb-0900.pdf", 7, time.February},
		{"single digit day", "outbound_3_Mar_1215.pdf", 3, time.March},
		{"uppercase month", "5-MAY-0600 boarding.pdf", 5, time.May},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.filename, "", received)
			if got.Source != models.SourceAttachmentName {
				t.Fatalf("expected source %s, got %s", models.SourceAttachmentName, got.Source)
			}
			assertDate(t, got.Date, received.Year(), tt.month, tt.day)
		})
	}
}

func TestResolveYearBoundary(t *testing.T) {
	tests := []struct {
		name     string
		received time.Time
		filename string
		wantYear int
	}{
		{
			"december booking for january travel",
			time.Date(2025, time.December, 28, 18, 0, 0, 0, time.Local),
			"ticket_02_Jan_0800.pdf",
			2026,
		},
		{
			"january booking for december travel",
			time.Date(2026, time.January, 3, 10, 0, 0, 0, time.Local),
			"ticket_30_Dec_2100.pdf",
			2025,
		},
		{
			"same month keeps received year",
			time.Date(2026, time.February, 1, 10, 0, 0, 0, time.Local),
			"ticket_07_Feb_0900.pdf",
			2026,
		},
		{
			"other cross-month combinations keep received year",
			time.Date(2026, time.March, 20, 10, 0, 0, 0, time.Local),
			"ticket_02_Apr_0900.pdf",
			2026,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.filename, "", tt.received)
			if got.Source != models.SourceAttachmentName {
				t.Fatalf("expected source %s, got %s", models.SourceAttachmentName, got.Source)
			}
			if got.Date.Year() != tt.wantYear {
				t.Errorf("expected year %d, got %d", tt.wantYear, got.Date.Year())
			}
		})
	}
}

func TestResolveFromText(t *testing.T) {
	received := time.Date(2026, time.January, 15, 8, 0, 0, 0, time.Local)

	t.Run("long pattern with explicit year", func(t *testing.T) {
		got := Resolve("receipt.pdf", "Your trip on Sat, Feb 21, 2026 is confirmed", received)
		if got.Source != models.SourceEmailBody {
			t.Fatalf("expected source %s, got %s", models.SourceEmailBody, got.Source)
		}
		assertDate(t, got.Date, 2026, time.February, 21)
	})

	t.Run("short pattern", func(t *testing.T) {
		got := Resolve("receipt.pdf", "Departure: 21 Feb 2026 at 09:00", received)
		if got.Source != models.SourceEmailBody {
			t.Fatalf("expected source %s, got %s", models.SourceEmailBody, got.Source)
		}
		assertDate(t, got.Date, 2026, time.February, 21)
	})

	t.Run("long pattern wins over earlier short match", func(t *testing.T) {
		text := "Booked on 10 Jan 2026. Travel: Sat, Feb 21, 2026."
		got := Resolve("receipt.pdf", text, received)
		assertDate(t, got.Date, 2026, time.February, 21)
	})

	t.Run("first match in text wins within a pattern", func(t *testing.T) {
		text := "Outbound 21 Feb 2026, return 28 Feb 2026"
		got := Resolve("receipt.pdf", text, received)
		assertDate(t, got.Date, 2026, time.February, 21)
	})

	t.Run("collapses whitespace before matching", func(t *testing.T) {
		text := "Travel date:\n  21   Feb\t2026"
		got := Resolve("receipt.pdf", text, received)
		if got.Source != models.SourceEmailBody {
			t.Fatalf("expected source %s, got %s", models.SourceEmailBody, got.Source)
		}
		assertDate(t, got.Date, 2026, time.February, 21)
	})

	t.Run("filename outranks text", func(t *testing.T) {
		got := Resolve("ticket_07_Feb_0900.pdf", "Travel on 21 Feb 2026", received)
		if got.Source != models.SourceAttachmentName {
			t.Fatalf("expected source %s, got %s", models.SourceAttachmentName, got.Source)
		}
		assertDate(t, got.Date, 2026, time.February, 7)
	})
}

func TestResolveFallback(t *testing.T) {
	received := time.Date(2026, time.March, 4, 23, 45, 0, 0, time.Local)

	got := Resolve("receipt.pdf", "thanks for your purchase", received)
	if got.Source != models.SourceEmailSentDate {
		t.Fatalf("expected source %s, got %s", models.SourceEmailSentDate, got.Source)
	}
	assertDate(t, got.Date, 2026, time.March, 4)
	if got.Date.Hour() != 12 {
		t.Errorf("expected midday normalization, got hour %d", got.Date.Hour())
	}
}

func TestResolveStrict(t *testing.T) {
	received := time.Date(2026, time.March, 4, 23, 45, 0, 0, time.Local)

	got := ResolveStrict("receipt.pdf", "thanks for your purchase", received)
	if got.Source != models.SourceNone {
		t.Fatalf("expected source %s, got %s", models.SourceNone, got.Source)
	}
	if got.Found() {
		t.Error("strict resolution without a parse should report not found")
	}

	got = ResolveStrict("ticket_07_Feb_0900.pdf", "", received)
	if got.Source != models.SourceAttachmentName {
		t.Fatalf("expected source %s, got %s", models.SourceAttachmentName, got.Source)
	}
}

func assertDate(t *testing.T, got time.Time, year int, month time.Month, day int) {
	t.Helper()
	if got.Year() != year || got.Month() != month || got.Day() != day {
		t.Errorf("expected %04d-%02d-%02d, got %s", year, month, day, got.Format("2006-01-02"))
	}
}
