package drive

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"February", "february"},
		{"february ", "february"},
		{"  Train   Tickets ", "train tickets"},
		{"Train\tTickets", "train tickets"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestFolderIndexIdempotentLookup(t *testing.T) {
	ix := newFolderIndex()
	ix.add("February", "folder-1")

	id, ok := ix.find("february ")
	if !ok || id != "folder-1" {
		t.Fatalf("expected normalized lookup to hit folder-1, got %q ok=%v", id, ok)
	}

	// Duplicate listings keep the first ID.
	ix.add(" FEBRUARY", "folder-2")
	id, _ = ix.find("February")
	if id != "folder-1" {
		t.Errorf("expected first listing to win, got %q", id)
	}

	if _, ok := ix.find("March"); ok {
		t.Error("unexpected hit for unlisted folder")
	}
}
