// Package acoustic runs the external acoustic model that produces per-frame
// emission scores for a WAV file.
//
// The model is any executable invoked as
//
//	<command> [args...] <input.wav> <output.json>
//
// which writes a JSON document with the model's labels, a frames × labels
// score table and enough sample information to derive the frame duration.
// Keeping the model out of process lets autolrc stay a pure Go binary while
// reusing whatever wav2vec2-style checkpoint the user already has.
package acoustic
