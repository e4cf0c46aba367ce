package collector

import (
	"context"
	"fmt"

	"github.com/yurifrl/ticketfiler/pkg/gmail"
)

// ResetLabels strips the processed label from every thread carrying it, so a
// collection sweep can be rerun from scratch. Each pass re-queries from the
// start because removing the label shrinks the result set under pagination.
func (c *Collector) ResetLabels(ctx context.Context) (int, error) {
	labelID, err := c.mail.EnsureLabel(ctx, c.cfg.ProcessedLabel)
	if err != nil {
		return 0, err
	}

	q := gmail.Query{WithLabel: c.cfg.ProcessedLabel}

	total := 0
	for {
		page, err := c.mail.Search(ctx, q, "", c.cfg.PageSize)
		if err != nil {
			return total, fmt.Errorf("search labeled threads: %w", err)
		}
		if len(page.Threads) == 0 {
			return total, nil
		}

		removed := 0
		for _, thread := range page.Threads {
			if err := c.mail.RemoveThreadLabel(ctx, thread.ID, labelID); err != nil {
				c.logger.Warn("failed to unlabel thread", "thread", thread.ID, "error", err)
				continue
			}
			removed++
			total++
		}
		// A pass with zero removals would loop forever on the same page.
		if removed == 0 {
			return total, fmt.Errorf("could not remove label from any of %d threads", len(page.Threads))
		}
	}
}
