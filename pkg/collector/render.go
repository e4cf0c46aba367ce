package collector

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/ticketfiler/pkg/models"
)

var (
	savedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// RenderSummary produces the human-readable end-of-run report: totals, the
// per-reason skip breakdown, and the per-message detail in processing order.
func RenderSummary(s *models.RunSummary) string {
	var b strings.Builder

	fmt.Fprintln(&b, headerStyle.Render(fmt.Sprintf("%s sweep summary", s.Mode)))
	fmt.Fprintf(&b, "  threads scanned:    %d\n", s.ThreadsScanned)
	fmt.Fprintf(&b, "  messages scanned:   %d\n", s.MessagesScanned)
	fmt.Fprintf(&b, "  files saved:        %d\n", s.FilesSaved)
	fmt.Fprintf(&b, "  duplicates renamed: %d\n", s.DuplicatesRenamed)

	if len(s.SkipReasons) > 0 {
		fmt.Fprintln(&b, "  skips:")
		for _, reason := range s.SkipReasons {
			fmt.Fprintf(&b, "    %-28s %d\n", reason, s.SkipCounts[reason])
		}
	}

	for _, m := range s.Messages {
		fmt.Fprintf(&b, "%s (%s)\n", m.Subject, m.MessageID)
		for _, name := range m.Saved {
			fmt.Fprintln(&b, savedStyle.Render("  + "+name))
		}
		for _, reason := range m.Skipped {
			fmt.Fprintln(&b, skippedStyle.Render("  - "+reason))
		}
	}

	return b.String()
}
