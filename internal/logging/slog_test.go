package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestAnonymizeEmail(t *testing.T) {
	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("AnonymizeEmail(\"\") = %q, want empty", got)
	}

	a := AnonymizeEmail("alice@example.com")
	b := AnonymizeEmail("alice@example.com")
	c := AnonymizeEmail("bob@example.com")

	if !strings.HasPrefix(a, "user:") {
		t.Errorf("AnonymizeEmail should prefix with user:, got %q", a)
	}
	if a != b {
		t.Errorf("same email must hash identically: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different emails must hash differently")
	}
	if strings.Contains(a, "alice") {
		t.Errorf("hash must not contain the address: %q", a)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "example.com"},
		{"", ""},
		{"not-an-email", ""},
		{"a@b@c", ""},
	}
	for _, tc := range tests {
		if got := ExtractDomain(tc.email); got != tc.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %q", got)
	}
	got := SanitizeToken("secret-token")
	if strings.Contains(got, "secret") {
		t.Errorf("sanitized token must not contain content: %q", got)
	}
}

func TestErrNilOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("op done", Err(nil))
	if strings.Contains(buf.String(), "error") {
		t.Errorf("nil error should be omitted, got %q", buf.String())
	}

	buf.Reset()
	logger.Info("op failed", Err(errTest))
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("error attribute missing, got %q", buf.String())
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "boom" }

func TestAttributeHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("cycle finished",
		Operation("cycle.run"),
		UserID("alice"),
		Account("alice@example.com"),
		MessageID("m1"),
		Tier("deep"),
		Status(StatusSuccess),
		Duration(2*time.Second),
	)

	out := buf.String()
	for _, want := range []string{
		"operation=cycle.run", "user_id=alice", "message_id=m1",
		"tier=deep", "status=success",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}
