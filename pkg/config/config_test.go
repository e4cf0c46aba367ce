package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestBuildFromFile(t *testing.T) {
	path := writeConfig(t, `
sender_address: tickets@rail.example
root_folder_name: Train Tickets
route_keyword_a: amsterdam
route_keyword_b: paris
attachment_keyword: receipt
page_size: 25
`)

	cfg, err := Build(path, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if cfg.SenderAddress != "tickets@rail.example" {
		t.Errorf("unexpected sender: %q", cfg.SenderAddress)
	}
	if cfg.PageSize != 25 {
		t.Errorf("expected page_size 25, got %d", cfg.PageSize)
	}
	// Defaults fill the rest.
	if cfg.ProcessedLabel != "receipts-filed" {
		t.Errorf("expected default processed label, got %q", cfg.ProcessedLabel)
	}
	if cfg.BackfillTarget != TargetPreviousMonth {
		t.Errorf("expected default backfill target, got %q", cfg.BackfillTarget)
	}
	if !cfg.RouteFilterEnabled() {
		t.Error("expected route filter enabled with both keywords set")
	}
}

func TestBuildEnvOverride(t *testing.T) {
	path := writeConfig(t, "sender_address: tickets@rail.example\n")
	t.Setenv("TICKETFILER_BACKFILL_LOOKBACK_DAYS", "90")

	cfg, err := Build(path, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.BackfillLookbackDays != 90 {
		t.Errorf("expected env override 90, got %d", cfg.BackfillLookbackDays)
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing sender", "root_folder_name: Tickets\n"},
		{"bad backfill target", "sender_address: a@b.c\nbackfill_target: LAST_YEAR\n"},
		{"bad attachment mode", "sender_address: a@b.c\nbackfill_attachment_mode: SOME_PDFS\n"},
		{"zero page size", "sender_address: a@b.c\npage_size: 0\n"},
		{"negative lookback", "sender_address: a@b.c\nbackfill_lookback_days: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(writeConfig(t, tt.content), nil); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestRouteFilterDisabledWhenEitherKeywordBlank(t *testing.T) {
	path := writeConfig(t, `
sender_address: tickets@rail.example
route_keyword_a: amsterdam
`)
	cfg, err := Build(path, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.RouteFilterEnabled() {
		t.Error("expected route filter disabled with one blank keyword")
	}
}
