package drive

import (
	"regexp"
	"strings"
)

var nameWhitespace = regexp.MustCompile(`\s+`)

// NormalizeName lowers a folder name and collapses runs of whitespace so
// "February" and "february " resolve to the same node. Typos still escape
// normalization; that is a known limitation, not a bug.
func NormalizeName(name string) string {
	return nameWhitespace.ReplaceAllString(strings.TrimSpace(strings.ToLower(name)), " ")
}

// folderIndex is an in-memory listing of one parent's child folders, keyed by
// normalized name. Every lookup and insertion goes through NormalizeName so
// get-or-create stays idempotent within a run.
type folderIndex struct {
	byName map[string]string
}

func newFolderIndex() *folderIndex {
	return &folderIndex{byName: make(map[string]string)}
}

func (ix *folderIndex) add(name, id string) {
	key := NormalizeName(name)
	// First listing wins; Drive may hold accidental duplicates.
	if _, ok := ix.byName[key]; !ok {
		ix.byName[key] = id
	}
}

func (ix *folderIndex) find(name string) (string, bool) {
	id, ok := ix.byName[NormalizeName(name)]
	return id, ok
}
