// Package gmail wraps the Gmail API surface the sweeps need: paginated thread
// search, full message snapshots, attachment bytes, and label management.
package gmail

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/yurifrl/ticketfiler/pkg/models"
)

const user = "me"

// Scopes required by the client. gmail.modify covers search, read, and label
// changes.
var Scopes = []string{gmailv1.GmailModifyScope}

type Client struct {
	svc    *gmailv1.Service
	logger *log.Logger
}

// ThreadPage is one page of search results plus the cursor for the next.
type ThreadPage struct {
	Threads       []models.Thread
	NextPageToken string
}

func New(ctx context.Context, httpClient *http.Client, logger *log.Logger) (*Client, error) {
	svc, err := gmailv1.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &Client{svc: svc, logger: logger}, nil
}

// Search lists threads matching q, one page at a time, and resolves each
// thread to its full messages.
func (c *Client) Search(ctx context.Context, q Query, pageToken string, pageSize int64) (*ThreadPage, error) {
	call := c.svc.Users.Threads.List(user).Q(q.String()).MaxResults(pageSize).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}

	page := &ThreadPage{NextPageToken: resp.NextPageToken}
	for _, t := range resp.Threads {
		full, err := c.svc.Users.Threads.Get(user, t.Id).Format("full").Context(ctx).Do()
		if err != nil {
			// One unreadable thread should not sink the page.
			c.logger.Warn("failed to fetch thread", "thread", t.Id, "error", err)
			continue
		}
		page.Threads = append(page.Threads, toThread(full))
	}
	return page, nil
}

// Attachment fetches and decodes one attachment's bytes.
func (c *Client) Attachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	body, err := c.svc.Users.Messages.Attachments.Get(user, messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get attachment %s of message %s: %w", attachmentID, messageID, err)
	}
	data := decodeBase64URL(body.Data)
	if data == nil {
		return nil, fmt.Errorf("decode attachment %s of message %s", attachmentID, messageID)
	}
	return data, nil
}

// EnsureLabel returns the ID of the named label, creating it when absent.
func (c *Client) EnsureLabel(ctx context.Context, name string) (string, error) {
	list, err := c.svc.Users.Labels.List(user).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list labels: %w", err)
	}
	for _, l := range list.Labels {
		if strings.EqualFold(l.Name, name) {
			return l.Id, nil
		}
	}
	created, err := c.svc.Users.Labels.Create(user, &gmailv1.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create label %q: %w", name, err)
	}
	c.logger.Info("created label", "name", name, "id", created.Id)
	return created.Id, nil
}

// AddThreadLabel applies a label to a whole thread.
func (c *Client) AddThreadLabel(ctx context.Context, threadID, labelID string) error {
	req := &gmailv1.ModifyThreadRequest{AddLabelIds: []string{labelID}}
	if _, err := c.svc.Users.Threads.Modify(user, threadID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("label thread %s: %w", threadID, err)
	}
	return nil
}

// RemoveThreadLabel strips a label from a whole thread.
func (c *Client) RemoveThreadLabel(ctx context.Context, threadID, labelID string) error {
	req := &gmailv1.ModifyThreadRequest{RemoveLabelIds: []string{labelID}}
	if _, err := c.svc.Users.Threads.Modify(user, threadID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unlabel thread %s: %w", threadID, err)
	}
	return nil
}

func toThread(t *gmailv1.Thread) models.Thread {
	out := models.Thread{ID: t.Id}
	for _, m := range t.Messages {
		out.Messages = append(out.Messages, toMessage(m))
	}
	return out
}

func toMessage(m *gmailv1.Message) models.Message {
	msg := models.Message{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		// InternalDate is Gmail's authoritative received time, in epoch ms.
		ReceivedAt: time.UnixMilli(m.InternalDate),
	}
	if m.Payload != nil {
		for _, h := range m.Payload.Headers {
			if strings.EqualFold(h.Name, "Subject") {
				msg.Subject = h.Value
				break
			}
		}
		msg.Body = extractPlainText(m.Payload)
		msg.Attachments = collectAttachments(m.Payload, nil)
	}
	return msg
}
