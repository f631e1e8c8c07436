// Package audit keeps the append-only record of what the agent did.
//
// Every cycle produces one entry holding the full action and error lists;
// every fleet run produces a summary entry on top. Recording is
// best-effort by contract: a Recorder failure is logged by the caller but
// never aborts a cycle, and the Fallback decorator mirrors the state
// package's degrade-to-disk discipline.
package audit
