package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/yurifrl/ticketfiler/pkg/config"
	"github.com/yurifrl/ticketfiler/pkg/dateparse"
	"github.com/yurifrl/ticketfiler/pkg/gmail"
	"github.com/yurifrl/ticketfiler/pkg/models"
)

// Backfill re-scans the lookback window and re-files receipts into a single
// target month. It neither reads nor writes the processed label; the run is
// additive and idempotent purely through the unique-name resolver. Unlike
// Collect there is no sent-date fallback: an attachment whose date cannot be
// parsed is recorded and skipped, because defaulting to the received date
// could misfile it into the wrong month.
func (c *Collector) Backfill(ctx context.Context) (*models.RunSummary, error) {
	summary := models.NewRunSummary("backfill")

	targetYear, targetMonth := c.targetMonth()
	c.logger.Info("backfill target",
		"year", targetYear,
		"month", targetMonth.String(),
		"lookback_days", c.cfg.BackfillLookbackDays)

	q := gmail.Query{
		From:          c.cfg.SenderAddress,
		NewerThanDays: c.cfg.BackfillLookbackDays,
		HasAttachment: true,
	}

	// RECEIPTS_ONLY keeps the filename keyword filter; ALL_PDFS takes every
	// PDF in the window.
	keyword := c.cfg.AttachmentKeyword
	if c.cfg.BackfillAttachmentMode == config.AttachmentsAllPDFs {
		keyword = ""
	}

	folders := newFolderCache(c.store)
	pageToken := ""
	for {
		page, err := c.mail.Search(ctx, q, pageToken, c.cfg.PageSize)
		if err != nil {
			return summary, fmt.Errorf("search threads: %w", err)
		}

		for _, thread := range page.Threads {
			summary.ThreadsScanned++
			for _, msg := range thread.Messages {
				summary.MessagesScanned++
				c.backfillMessage(ctx, msg, keyword, targetYear, targetMonth, folders, summary)
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return summary, nil
}

func (c *Collector) backfillMessage(ctx context.Context, msg models.Message, keyword string, targetYear int, targetMonth time.Month, folders *folderCache, summary *models.RunSummary) {
	if !c.routeMatch(msg) {
		summary.Skip(SkipRouteKeywords, &msg, "")
		return
	}

	for _, att := range msg.Attachments {
		if att.MimeType != pdfMimeType {
			summary.Skip(SkipNotPDF, &msg, fmt.Sprintf("%s: %s", att.Filename, SkipNotPDF))
			continue
		}
		if !c.filenameMatch(att.Filename, keyword) {
			summary.Skip(SkipFilenameKeyword, &msg, fmt.Sprintf("%s: %s", att.Filename, SkipFilenameKeyword))
			continue
		}

		resolved := dateparse.ResolveStrict(att.Filename, msg.Subject+" "+msg.Body, msg.ReceivedAt)
		if !resolved.Found() {
			summary.Skip(SkipNoTravelDate, &msg, fmt.Sprintf("%s: %s", att.Filename, SkipNoTravelDate))
			continue
		}
		if resolved.Date.Year() != targetYear || resolved.Date.Month() != targetMonth {
			summary.Skip(SkipWrongMonth, &msg, fmt.Sprintf("%s: resolved %s", att.Filename, resolved.Date.Format("2006-01")))
			continue
		}

		c.saveAttachment(ctx, msg, att, resolved.Date, folders, summary)
	}
}

// targetMonth resolves the configured backfill target relative to now.
// Anchoring to the first of the month keeps AddDate from spilling over on
// short months.
func (c *Collector) targetMonth() (int, time.Month) {
	now := c.now()
	first := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, now.Location())
	if c.cfg.BackfillTarget == config.TargetPreviousMonth {
		first = first.AddDate(0, -1, 0)
	}
	return first.Year(), first.Month()
}
