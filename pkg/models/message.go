package models

import "time"

// Message is a read-only snapshot of a mailbox message, translated from the
// provider's wire format. The orchestrator never mutates it.
type Message struct {
	ID          string
	ThreadID    string
	Subject     string
	Body        string
	ReceivedAt  time.Time
	Attachments []Attachment
}

// Attachment holds attachment metadata; bytes are fetched lazily through the
// mailbox collaborator using AttachmentID.
type Attachment struct {
	Filename     string
	MimeType     string
	AttachmentID string
	Size         int64
}

// Thread groups the messages of one mailbox conversation.
type Thread struct {
	ID       string
	Messages []Message
}
