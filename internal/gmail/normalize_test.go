package gmail

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestNormalizeSimpleMessage(t *testing.T) {
	m := &gmail.Message{
		Id:           "m1",
		ThreadId:     "t1",
		Snippet:      "Hi there",
		InternalDate: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC).UnixMilli(),
		LabelIds:     []string{"INBOX", "UNREAD"},
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "Alice <alice@example.com>"},
				{Name: "Subject", Value: "Lunch?"},
			},
			Body: &gmail.MessagePartBody{Data: b64("Hi there, lunch today?")},
		},
	}

	msg, err := Normalize(m, "me@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, "t1", msg.ThreadID)
	assert.Equal(t, "me@example.com", msg.Account)
	assert.Equal(t, "alice@example.com", msg.Sender.Email)
	assert.Equal(t, "Alice", msg.Sender.Name)
	assert.Equal(t, "Lunch?", msg.Subject)
	assert.Equal(t, "Hi there, lunch today?", msg.BodyText)
	assert.Equal(t, time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC), msg.Date)
	assert.True(t, msg.Unread)
	assert.False(t, msg.HasAttachments)
}

func TestNormalizeMultipartPrefersPlainText(t *testing.T) {
	m := &gmail.Message{
		Id: "m2",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "bob@example.com"},
				{Name: "Subject", Value: "Report"},
			},
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64("<p>html body</p>")}},
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("plain body")}},
				{MimeType: "application/pdf", Filename: "report.pdf", Body: &gmail.MessagePartBody{AttachmentId: "a1"}},
			},
		},
	}

	msg, err := Normalize(m, "me@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, "plain body", msg.BodyText)
	assert.True(t, msg.HasAttachments)
}

func TestNormalizeFallsBackToHTML(t *testing.T) {
	m := &gmail.Message{
		Id: "m3",
		Payload: &gmail.MessagePart{
			MimeType: "text/html",
			Headers:  []*gmail.MessagePartHeader{{Name: "From", Value: "bob@example.com"}},
			Body:     &gmail.MessagePartBody{Data: b64("<p>only html</p>")},
		},
	}

	msg, err := Normalize(m, "me@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, "<p>only html</p>", msg.BodyText)
}

func TestNormalizeTruncatesBody(t *testing.T) {
	m := &gmail.Message{
		Id: "m4",
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers:  []*gmail.MessagePartHeader{{Name: "From", Value: "bob@example.com"}},
			Body:     &gmail.MessagePartBody{Data: b64("0123456789")},
		},
	}

	msg, err := Normalize(m, "me@example.com", 4)
	require.NoError(t, err)
	assert.Equal(t, "0123", msg.BodyText)
}

func TestNormalizeUnpaddedBody(t *testing.T) {
	raw := base64.RawURLEncoding.EncodeToString([]byte("unpadded body"))
	m := &gmail.Message{
		Id: "m5",
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers:  []*gmail.MessagePartHeader{{Name: "From", Value: "bob@example.com"}},
			Body:     &gmail.MessagePartBody{Data: raw},
		},
	}

	msg, err := Normalize(m, "me@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, "unpadded body", msg.BodyText)
}

func TestNormalizeNoPayload(t *testing.T) {
	_, err := Normalize(&gmail.Message{Id: "m6"}, "me@example.com", 0)
	assert.Error(t, err)
}

func TestBuildReply(t *testing.T) {
	raw := buildReply("me@example.com", "alice@example.com", "Re: Lunch?", "Sounds good.")
	assert.Contains(t, raw, "From: me@example.com\r\n")
	assert.Contains(t, raw, "To: alice@example.com\r\n")
	assert.Contains(t, raw, "Subject: Re: Lunch?\r\n")
	assert.Contains(t, raw, "\r\n\r\nSounds good.")
}
