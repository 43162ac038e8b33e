// Package textutil provides filename sanitization helpers.
//
// External tools such as Demucs are fragile with non-ASCII paths, so working
// copies are given ASCII-only names, while output files keep their original
// names with only filesystem-unsafe characters replaced.
package textutil
