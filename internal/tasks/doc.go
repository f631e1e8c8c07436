// Package tasks turns actionable emails into Google Tasks entries.
//
// All agent tasks land in one dedicated task list per account, created
// lazily on first use. Task titles carry the priority and the email
// subject; the notes block preserves enough context to act on the task
// without reopening the email.
package tasks
