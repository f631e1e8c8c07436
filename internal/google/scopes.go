package google

// DefaultOAuthScopes are the Google OAuth scopes the agent needs.
//
// The scopes provide access to:
//   - Gmail: read, modify labels, create drafts and send
//   - Google Tasks: full access
//   - Contacts: read-only (including other contacts and directory)
var DefaultOAuthScopes = []string{
	// Gmail scopes
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",

	// Google Tasks scope
	"https://www.googleapis.com/auth/tasks",

	// Contacts scopes
	"https://www.googleapis.com/auth/contacts.readonly",
	"https://www.googleapis.com/auth/contacts.other.readonly",
	"https://www.googleapis.com/auth/directory.readonly",
}
