// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// The core consumes the embedding, vector-store and LLM collaborators
// through these narrow capability contracts and does not implement them.
package driven
