// Package align computes forced alignments between an emission matrix and a
// token sequence.
//
// The trellis is filled in the log domain, one frame at a time, and the best
// path is recovered by walking back from the last frame and last token. When
// staying and advancing score the same the walk stays, which places every
// emission as early as the scores allow.
//
// Alignment is synchronous and CPU bound. It takes no context: once started it
// runs to completion.
package align
