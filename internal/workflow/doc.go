// Package workflow turns audio files into lyric files.
//
// A Manager drives each file through the pipeline stages (optional vocal
// isolation, conversion, transcription, alignment, formatting, writing) as a
// Job. A stage failure moves the job straight to failed; the job's temporary
// files are removed whichever way it ends. RunBatch runs many jobs under a
// concurrency bound, records each one in the ledger, and reports how many
// succeeded. One job failing never stops its siblings.
//
// Collaborators (transcriber, acoustic model, vocal isolator, converter,
// prober, ledger) are interfaces so tests can substitute fakes;
// NewManagerFromConfig wires the production implementations.
package workflow
