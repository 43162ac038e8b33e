// Package language turns transcript text into acoustic-model token sequences.
//
// A Mapper is one of a closed set of variants: PassThrough for scripts the
// acoustic model already understands, and Transliteration for scripts that
// must first be romanized through a static character table. Language names
// and ISO codes are resolved to a Mapper through ForLanguage, so callers never
// branch on language themselves.
//
// Mapping is pure. Characters a table or vocabulary does not know are dropped
// rather than reported, which keeps alignment working on noisy transcripts.
package language
