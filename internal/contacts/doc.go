// Package contacts enriches messages with what the address book knows
// about the sender.
//
// Lookups go to the People API and are cached per process; enrichment is
// best-effort by contract, so every error degrades to "no contact info"
// at the call site. The sender's relationship to the user is derived
// from contact group membership (clients, team, vendors, family).
package contacts
