// Package emission models the output of an acoustic model: a per-frame
// log-probability distribution over a fixed vocabulary, plus the symbol table
// that gives each vocabulary index its meaning.
//
// Matrices are immutable once constructed. All scores are kept in the natural
// log domain so downstream dynamic programming can add instead of multiply.
package emission
