package gmail

import (
	"fmt"
	"strings"
)

// Query models the small slice of Gmail's search grammar the sweeps use:
// from:<address> [-label:<name>] [label:<name>] [newer_than:<N>d] has:attachment
type Query struct {
	From          string
	WithLabel     string
	WithoutLabel  string
	NewerThanDays int
	HasAttachment bool
}

func (q Query) String() string {
	var parts []string
	if q.From != "" {
		parts = append(parts, "from:"+q.From)
	}
	if q.WithLabel != "" {
		parts = append(parts, "label:"+labelQueryName(q.WithLabel))
	}
	if q.WithoutLabel != "" {
		parts = append(parts, "-label:"+labelQueryName(q.WithoutLabel))
	}
	if q.NewerThanDays > 0 {
		parts = append(parts, fmt.Sprintf("newer_than:%dd", q.NewerThanDays))
	}
	if q.HasAttachment {
		parts = append(parts, "has:attachment")
	}
	return strings.Join(parts, " ")
}

// labelQueryName maps a label's display name to its search form: Gmail search
// wants spaces and slashes as hyphens.
func labelQueryName(name string) string {
	return strings.NewReplacer(" ", "-", "/", "-").Replace(name)
}
