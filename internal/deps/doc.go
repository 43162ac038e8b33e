// Package deps reports whether the external programs the pipeline shells out
// to (ffmpeg, ffprobe, the acoustic model command, Python with Demucs) can be
// found.
package deps
