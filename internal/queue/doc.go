// Package queue persists processing jobs in a SQLite ledger.
//
// Every file a batch run touches gets a row keyed by its job UUID. The row
// tracks the current pipeline status while the job runs and, once it ends,
// its terminal outcome: the classified error kind and message on failure, or
// the written lyric paths and word count on success. `autolrc history` reads
// the ledger back.
//
// Schema changes bump the version in schema.go; users delete the ledger to
// adopt the new schema.
package queue
