// Package users holds the directory of people the agent works for.
//
// A user owns one or more connected mail accounts plus the settings that
// shape how their mail is handled: VIP senders, contacts whose replies may
// be drafted automatically, draft tone, and briefing schedule. The
// Directory interface abstracts where the roster lives; the file-backed
// implementation reads a single JSON document.
package users
