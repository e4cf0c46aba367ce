// Package collector orchestrates the sweeps: pull matching threads from the
// mailbox, filter messages and attachments, resolve travel dates, file PDFs
// into the dated folder tree, and mark threads processed.
package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/ticketfiler/pkg/config"
	"github.com/yurifrl/ticketfiler/pkg/dateparse"
	"github.com/yurifrl/ticketfiler/pkg/gmail"
	"github.com/yurifrl/ticketfiler/pkg/models"
	"github.com/yurifrl/ticketfiler/pkg/namer"
)

const pdfMimeType = "application/pdf"

// Skip reasons surfaced in the run summary.
const (
	SkipRouteKeywords   = "route keywords missing"
	SkipNotPDF          = "not a pdf"
	SkipFilenameKeyword = "filename keyword missing"
	SkipNoTravelDate    = "no travel date"
	SkipWrongMonth      = "outside target month"
	SkipFetchFailed     = "attachment fetch failed"
	SkipStorageFailed   = "storage failed"
)

// Mailbox is the mailbox collaborator contract.
type Mailbox interface {
	Search(ctx context.Context, q gmail.Query, pageToken string, pageSize int64) (*gmail.ThreadPage, error)
	Attachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
	EnsureLabel(ctx context.Context, name string) (string, error)
	AddThreadLabel(ctx context.Context, threadID, labelID string) error
	RemoveThreadLabel(ctx context.Context, threadID, labelID string) error
}

// Storage is the file storage collaborator contract.
type Storage interface {
	EnsureFolder(ctx context.Context, parentID, name string) (string, error)
	FileExists(ctx context.Context, folderID, name string) (bool, error)
	CreateFile(ctx context.Context, folderID, name string, data []byte) (string, error)
}

type Collector struct {
	cfg    *config.Config
	logger *log.Logger
	mail   Mailbox
	store  Storage

	// now is injectable so backfill target months are testable.
	now func() time.Time
}

func New(cfg *config.Config, logger *log.Logger, mail Mailbox, store Storage) *Collector {
	return &Collector{cfg: cfg, logger: logger, mail: mail, store: store, now: time.Now}
}

// Collect runs the incremental sweep: every unprocessed thread from the
// configured sender with attachments, filed and then labeled. Per-item
// failures are logged and skipped; only a failed search halts the remaining
// pagination.
func (c *Collector) Collect(ctx context.Context) (*models.RunSummary, error) {
	summary := models.NewRunSummary("collect")

	labelID, err := c.mail.EnsureLabel(ctx, c.cfg.ProcessedLabel)
	if err != nil {
		return summary, err
	}

	q := gmail.Query{
		From:          c.cfg.SenderAddress,
		WithoutLabel:  c.cfg.ProcessedLabel,
		HasAttachment: true,
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
				c.collectMessage(ctx, msg, folders, summary)
			}
			// The whole thread is marked after every message was evaluated,
			// even when only some matched the filters. Later messages in a
			// labeled thread are never revisited.
			if err := c.mail.AddThreadLabel(ctx, thread.ID, labelID); err != nil {
				c.logger.Warn("failed to label thread", "thread", thread.ID, "error", err)
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return summary, nil
}

func (c *Collector) collectMessage(ctx context.Context, msg models.Message, folders *folderCache, summary *models.RunSummary) {
	if !c.routeMatch(msg) {
		summary.Skip(SkipRouteKeywords, &msg, "")
		return
	}
	if c.cfg.LogBodies {
		c.logger.Debug("message body", "message", msg.ID, "subject", msg.Subject, "body", msg.Body)
	}

	for _, att := range msg.Attachments {
		if att.MimeType != pdfMimeType {
			summary.Skip(SkipNotPDF, &msg, fmt.Sprintf("%s: %s", att.Filename, SkipNotPDF))
			continue
		}
		if !c.filenameMatch(att.Filename, c.cfg.AttachmentKeyword) {
			summary.Skip(SkipFilenameKeyword, &msg, fmt.Sprintf("%s: %s", att.Filename, SkipFilenameKeyword))
			continue
		}

		resolved := dateparse.Resolve(att.Filename, msg.Subject+" "+msg.Body, msg.ReceivedAt)
		c.logger.Debug("resolved travel date",
			"attachment", att.Filename,
			"date", resolved.Date.Format("2006-01-02"),
			"source", resolved.Source)

		c.saveAttachment(ctx, msg, att, resolved.Date, folders, summary)
	}
}

// saveAttachment files one attachment under Root/YYYY/MonthName with a
// collision-free canonical name.
func (c *Collector) saveAttachment(ctx context.Context, msg models.Message, att models.Attachment, date time.Time, folders *folderCache, summary *models.RunSummary) {
	folderID, err := folders.monthFolder(ctx, c.cfg.RootFolderName, date)
	if err != nil {
		c.logger.Warn("failed to resolve folder", "attachment", att.Filename, "error", err)
		summary.Skip(SkipStorageFailed, &msg, fmt.Sprintf("%s: %s", att.Filename, SkipStorageFailed))
		return
	}

	name, renamed, err := namer.ResolveUnique(func(n string) (bool, error) {
		return c.store.FileExists(ctx, folderID, n)
	}, namer.CanonicalName(date))
	if err != nil {
		c.logger.Warn("failed to resolve unique name", "attachment", att.Filename, "error", err)
		summary.Skip(SkipStorageFailed, &msg, fmt.Sprintf("%s: %s", att.Filename, SkipStorageFailed))
		return
	}

	data, err := c.mail.Attachment(ctx, msg.ID, att.AttachmentID)
	if err != nil {
		c.logger.Warn("failed to fetch attachment", "attachment", att.Filename, "error", err)
		summary.Skip(SkipFetchFailed, &msg, fmt.Sprintf("%s: %s", att.Filename, SkipFetchFailed))
		return
	}

	if _, err := c.store.CreateFile(ctx, folderID, name, data); err != nil {
		c.logger.Warn("failed to create file", "name", name, "error", err)
		summary.Skip(SkipStorageFailed, &msg, fmt.Sprintf("%s: %s", att.Filename, SkipStorageFailed))
		return
	}

	c.logger.Info("saved receipt",
		"name", name,
		"year", date.Year(),
		"month", date.Month().String(),
		"renamed", renamed)
	summary.Saved(msg, name, renamed)
}

// routeMatch requires both route keywords in the lowercased subject+body.
// The filter is disabled when either keyword is blank.
func (c *Collector) routeMatch(msg models.Message) bool {
	if !c.cfg.RouteFilterEnabled() {
		return true
	}
	haystack := strings.ToLower(msg.Subject + " " + msg.Body)
	return strings.Contains(haystack, strings.ToLower(c.cfg.RouteKeywordA)) &&
		strings.Contains(haystack, strings.ToLower(c.cfg.RouteKeywordB))
}

// filenameMatch requires keyword in the lowercased filename; blank accepts all.
func (c *Collector) filenameMatch(filename, keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(filename), strings.ToLower(keyword))
}

// folderCache memoizes get-or-create folder IDs for one sweep so each
// Root/YYYY/Month path is resolved against storage once.
type folderCache struct {
	store Storage
	ids   map[string]string
}

func newFolderCache(store Storage) *folderCache {
	return &folderCache{store: store, ids: make(map[string]string)}
}

func (fc *folderCache) monthFolder(ctx context.Context, root string, date time.Time) (string, error) {
	year := fmt.Sprintf("%04d", date.Year())
	month := date.Month().String()

	rootID, err := fc.ensure(ctx, "", root)
	if err != nil {
		return "", err
	}
	yearID, err := fc.ensure(ctx, rootID, year)
	if err != nil {
		return "", err
	}
	return fc.ensure(ctx, yearID, month)
}

func (fc *folderCache) ensure(ctx context.Context, parentID, name string) (string, error) {
	key := parentID + "/" + name
	if id, ok := fc.ids[key]; ok {
		return id, nil
	}
	id, err := fc.store.EnsureFolder(ctx, parentID, name)
	if err != nil {
		return "", err
	}
	fc.ids[key] = id
	return id, nil
}
