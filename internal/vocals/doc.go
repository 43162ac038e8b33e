// Package vocals separates the vocal stem from a mixed recording with Demucs.
//
// Isolation is a best-effort pre-pass: every failure is reported as
// services.ErrDegraded so the pipeline can continue with the original audio.
package vocals
