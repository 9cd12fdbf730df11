// Package orchestrator wires tree sources (inline trees, form documents,
// OpenAPI operations) through optional transformers into a mounted form and a
// named renderer, for callers that prefer a single entry point.
package orchestrator
