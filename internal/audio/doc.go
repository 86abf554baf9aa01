// Package audio provides the in-memory audio buffer consumed by the
// segmentation pipeline.
//
// A Buffer is an immutable view over mono 16-bit PCM samples, addressed in
// milliseconds so that segmentation boundaries, silence thresholds, and cache
// payloads all share one unit. Slicing a Buffer never copies samples; slices
// alias the parent's backing array.
//
// WAV files are loaded through go-audio/wav and downmixed to mono on load.
// Tone and Silence generators exist for tests and demos.
package audio
