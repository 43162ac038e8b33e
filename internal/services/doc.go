// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, job IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper, so a job failure can be
//     classified (invalid input, transient, filesystem...) when it is recorded
//     in the job ledger.
//   - Thin abstractions that make external command execution testable.
//
// Integrations with remote services live in subpackages.
package services
