// Package staging owns the temporary directory namespace used while jobs run.
//
// Each batch run gets `<temp_dir>/run-<uuid>` and each job inside it a
// `job-<uuid>` subdirectory, so concurrent jobs never share a path. Runs
// remove their own root when they finish; CleanStale sweeps roots left behind
// by runs that crashed.
package staging
