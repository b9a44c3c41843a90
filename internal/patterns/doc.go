// Package patterns maintains the learned condition-to-action rules that
// auto-fill cue metadata. Confidence is a reinforcement heuristic, not a
// probability: confirmations nudge it up, overrides nudge it down, and
// repeated consistent corrections seed new rules.
package patterns
