// Package agent orchestrates the email-processing cycle.
//
// A cycle runs for one user: fetch unread mail from every active
// account, classify it, then label, file tasks, and draft replies per
// message. The orchestrator never fails a whole cycle because one
// message misbehaved; per-message errors are collected and the cycle
// finishes with whatever it could do.
//
// The Fleet runner drives cycles for every known user sequentially and
// records a combined summary. A panic in one user's cycle is contained
// and counted as a failure for that user only.
//
// All external services sit behind small interfaces (Mailbox,
// TaskCreator, Enricher) so the orchestrator can be tested without
// Google credentials.
package agent
