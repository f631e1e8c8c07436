// Package briefing produces and stores daily morning briefings.
//
// A briefing is a rendered summary of everything unread in a user's
// mailboxes, generated on a per-user schedule. Unlike the processing
// cycle it looks at all unread mail, including messages the cycle has
// already handled, because the briefing is a snapshot of the inbox
// rather than a work queue.
package briefing
