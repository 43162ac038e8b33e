// Package preflight provides readiness checks for the filesystem paths,
// external programs and remote API autolrc depends on.
//
// These checks run in two contexts:
//   - `autolrc run` checks the output and temp directories before starting a
//     batch so a doomed run fails before any file is processed.
//   - `autolrc doctor` runs every check and prints the results as a table.
package preflight
