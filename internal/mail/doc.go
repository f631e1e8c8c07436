// Package mail defines the normalized email data model shared by every
// provider and pipeline stage.
//
// A Message is created once by a message source (e.g. the gmail package)
// and never mutated afterwards. AI-derived fields live in a separate
// Analysis value so that classification can annotate a batch without
// touching the underlying messages; an Annotated pairs the two.
//
// The zero Analysis means "no opinion": a message that could not be
// classified still flows through the pipeline and downstream consumers
// treat the absence of a category as a valid terminal state.
package mail
