// Package drafts stores reply drafts produced by the drafting engine.
//
// Drafts are written with status "pending" and move through a small
// lifecycle (approved, sent, rejected) driven by the user; drafts for
// trusted senders may be created as "auto_sent". The store keeps every
// draft together with the safety review that was run on it.
package drafts
