// Package segmentation splits a recording into utterance-sized chunks
// separated by silence.
//
// The engine runs the silence detector at the least sensitive rung of a
// threshold ladder, brackets every audible span with leading/trailing
// silence markers, then recursively re-segments any span that is still too
// long at progressively higher sensitivity, splicing refinements back into
// the chunk list while keeping it contiguous. A final pass folds
// almost-silent blips into the silence of the following chunk.
//
// Results are persisted through the Cache interface so a given recording is
// only ever fragmented once; see internal/fragcache for the implementations.
package segmentation
