package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/inboxpilot/internal/mail"
)

// Normalize converts a full-format Gmail API message into the internal
// model. bodyLimit bounds the extracted plain-text body in bytes; zero
// means unlimited.
func Normalize(m *gmail.Message, account string, bodyLimit int) (mail.Message, error) {
	if m == nil || m.Payload == nil {
		return mail.Message{}, fmt.Errorf("message has no payload")
	}

	headers := headerMap(m.Payload.Headers)

	return mail.Message{
		ID:             m.Id,
		ThreadID:       m.ThreadId,
		Account:        account,
		Sender:         mail.ParseAddress(headers["from"]),
		Subject:        headers["subject"],
		Snippet:        m.Snippet,
		BodyText:       mail.Truncate(extractText(m.Payload), bodyLimit),
		Date:           time.UnixMilli(m.InternalDate).UTC(),
		HasAttachments: hasAttachments(m.Payload),
		Unread:         hasLabel(m.LabelIds, "UNREAD"),
	}, nil
}

func headerMap(headers []*gmail.MessagePartHeader) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(h.Name)
		if _, ok := out[key]; !ok {
			out[key] = h.Value
		}
	}
	return out
}

// extractText walks the MIME tree and returns the first text/plain body,
// falling back to stripped-down text/html when no plain part exists.
func extractText(part *gmail.MessagePart) string {
	if text := findBody(part, "text/plain"); text != "" {
		return text
	}
	return findBody(part, "text/html")
}

func findBody(part *gmail.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		// Body data arrives base64url encoded, with or without padding.
		if decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(part.Body.Data, "=")); err == nil {
			return string(decoded)
		}
		return ""
	}
	for _, p := range part.Parts {
		if text := findBody(p, mimeType); text != "" {
			return text
		}
	}
	return ""
}

func hasAttachments(part *gmail.MessagePart) bool {
	if part == nil {
		return false
	}
	if part.Filename != "" {
		return true
	}
	for _, p := range part.Parts {
		if hasAttachments(p) {
			return true
		}
	}
	return false
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
