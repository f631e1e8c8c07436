package mail

import (
	netmail "net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// Priority is the urgency assigned to a message by classification.
type Priority string

// Priority levels, from most to least urgent.
const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Category is the inbox category assigned to a message by classification.
type Category string

// Message categories.
const (
	CategoryActionRequired Category = "action_required"
	CategoryWaitingOn      Category = "waiting_on"
	CategoryFYI            Category = "fyi"
	CategoryNewsletter     Category = "newsletter"
	CategoryPromotional    Category = "promotional"
	CategoryPersonal       Category = "personal"
	CategorySpam           Category = "spam"
)

// Address is a parsed email address with an optional display name.
type Address struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// String renders the address in "Name <email>" form.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// ParseAddress parses a raw From/To header value into an Address.
// Inputs RFC 5322 parsing rejects are treated as a bare email address
// with any angle brackets stripped.
func ParseAddress(raw string) Address {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Address{}
	}
	if parsed, err := netmail.ParseAddress(raw); err == nil {
		return Address{Name: parsed.Name, Email: parsed.Address}
	}
	return Address{Email: strings.Trim(raw, "<>")}
}

// Message is a normalized email message. It is immutable after creation:
// sources build it, everything downstream reads it.
type Message struct {
	ID             string    `json:"id"`
	ThreadID       string    `json:"thread_id,omitempty"`
	Account        string    `json:"account"`
	Sender         Address   `json:"sender"`
	Subject        string    `json:"subject"`
	Snippet        string    `json:"snippet"`
	BodyText       string    `json:"body_text"`
	Date           time.Time `json:"date"`
	HasAttachments bool      `json:"has_attachments"`
	Unread         bool      `json:"unread"`
}

// Analysis carries the AI-derived annotation for one message. The zero
// value means the classifier has no opinion.
type Analysis struct {
	Priority         Priority  `json:"priority,omitempty"`
	Category         Category  `json:"category,omitempty"`
	Summary          string    `json:"summary,omitempty"`
	SuggestedAction  string    `json:"suggested_action,omitempty"`
	VIP              bool      `json:"is_vip"`
	Sentiment        string    `json:"sentiment,omitempty"`
	ResponseDeadline time.Time `json:"response_deadline,omitzero"`
}

// Classified reports whether the analysis holds any opinion at all.
func (a Analysis) Classified() bool {
	return a.Priority != "" || a.Category != ""
}

// Annotated pairs a message with its (possibly absent) analysis.
type Annotated struct {
	Message  Message
	Analysis Analysis
}

// Truncate cuts s to at most max bytes without splitting a UTF-8
// sequence. Message bodies are truncated at normalization time to keep
// model input costs bounded.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
