// Package audio prepares recordings for transcription and alignment.
//
// Select picks the audio stream to work from when a container carries more
// than one. Converter shells out to ffmpeg to produce the mono 16-bit WAV the
// acoustic model and transcription service expect, and can decode a file to
// raw samples for onset detection.
package audio
