// Package namer builds canonical receipt filenames and resolves collisions
// against a folder listing without ever overwriting.
package namer

import (
	"fmt"
	"strings"
	"time"
)

const pdfExt = ".pdf"

// ExistsFunc answers whether a filename is already taken in the target folder.
type ExistsFunc func(name string) (bool, error)

// CanonicalName renders a travel date as "<Mon> - <Ddd> - DD-MM-YYYY.pdf",
// e.g. "Feb - Sat - 07-02-2026.pdf".
func CanonicalName(t time.Time) string {
	return fmt.Sprintf("%s - %s - %02d-%02d-%04d%s",
		t.Month().String()[:3],
		t.Weekday().String()[:3],
		t.Day(), int(t.Month()), t.Year(), pdfExt)
}

// ResolveUnique probes candidate, "candidate (2).pdf", "candidate (3).pdf", …
// in order until an unused name is found. The counter strictly increases and
// probing is sequential, so the first free slot is always taken. The second
// return reports whether any renaming occurred.
func ResolveUnique(exists ExistsFunc, candidate string) (string, bool, error) {
	base := strings.TrimSuffix(candidate, pdfExt)

	name := candidate
	for n := 2; ; n++ {
		taken, err := exists(name)
		if err != nil {
			return "", false, fmt.Errorf("check name %q: %w", name, err)
		}
		if !taken {
			return name, name != candidate, nil
		}
		name = fmt.Sprintf("%s (%d)%s", base, n, pdfExt)
	}
}
