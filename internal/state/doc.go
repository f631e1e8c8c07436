// Package state persists the per-user set of already-processed message
// identifiers across agent cycles.
//
// The set is what makes cycles idempotent: a message id present in the
// set is never classified or acted on again unless the set is reset. It
// is bounded to the most recent MaxProcessedIDs entries, with insertion
// order deciding which ids age out.
//
// Two backends are provided, a Postgres table and a local JSON file, plus
// a Fallback decorator that prefers the primary backend and silently
// degrades to the secondary when it is unreachable.
package state
