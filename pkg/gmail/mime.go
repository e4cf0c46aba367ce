package gmail

import (
	"encoding/base64"
	"strings"

	gmailv1 "google.golang.org/api/gmail/v1"

	"github.com/yurifrl/ticketfiler/pkg/models"
)

// extractPlainText walks a MIME part tree and returns the first text/plain
// body found. For multipart/alternative it prefers text/plain over text/html.
func extractPlainText(part *gmailv1.MessagePart) string {
	if part == nil {
		return ""
	}

	if strings.EqualFold(part.MimeType, "text/plain") && part.Body != nil && part.Body.Data != "" {
		return string(decodeBase64URL(part.Body.Data))
	}

	if len(part.Parts) > 0 {
		for _, sub := range part.Parts {
			if strings.EqualFold(sub.MimeType, "text/plain") {
				if body := extractPlainText(sub); body != "" {
					return body
				}
			}
		}
		for _, sub := range part.Parts {
			if body := extractPlainText(sub); body != "" {
				return body
			}
		}
	}

	return ""
}

// collectAttachments walks the part tree and gathers every part carrying a
// filename and an attachment ID.
func collectAttachments(part *gmailv1.MessagePart, out []models.Attachment) []models.Attachment {
	if part == nil {
		return out
	}
	if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
		out = append(out, models.Attachment{
			Filename:     part.Filename,
			MimeType:     part.MimeType,
			AttachmentID: part.Body.AttachmentId,
			Size:         part.Body.Size,
		})
	}
	for _, sub := range part.Parts {
		out = collectAttachments(sub, out)
	}
	return out
}

func decodeBase64URL(data string) []byte {
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Gmail uses unpadded base64url
		b, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return nil
		}
	}
	return b
}
