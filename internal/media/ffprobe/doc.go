// Package ffprobe runs ffprobe against an input file and decodes its JSON
// report. The workflow uses it to reject files without an audio stream and to
// read the duration the fallback timing strategies spread lines across.
package ffprobe
