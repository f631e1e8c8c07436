// Package brain is the model-backed reasoning layer: two-tier email
// classification, the evaluator-optimizer reply drafter, the safety
// review, and the daily briefing generator.
//
// Two model tiers are used, distinguished only by cost. The fast tier
// triages spam and newsletters and runs the safety review; the deep tier
// does full per-message analysis and drafting. Every tier failure
// degrades along a defined fail-open path rather than propagating: a
// batch that cannot be classified comes back with no opinion attached,
// never as an error.
package brain
