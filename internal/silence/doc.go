// Package silence detects silent intervals in an audio buffer.
//
// The Detector interface is the oracle the segmentation engine escalates
// against: given a loudness threshold and a minimum silence length it returns
// merged [start, end) ranges in milliseconds. The default implementation
// slides an RMS window across the buffer; its output is approximate by
// nature, which is why callers bracket and re-query it rather than trusting
// any single pass.
package silence
