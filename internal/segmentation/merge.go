package segmentation

// mergeAlmostSilent folds chunks whose audible span is shorter than
// minAudible into the leading silence of the next real chunk. Consecutive
// short chunks accumulate: the first pending silence start carries forward
// until a chunk long enough to keep absorbs it. A trailing run of short
// chunks has no following chunk to absorb into and is dropped.
func mergeAlmostSilent(chunks []Chunk, minAudible int) []Chunk {
	out := make([]Chunk, 0, len(chunks))
	pendingStart := -1
	for _, c := range chunks {
		if c.AudibleLen() < minAudible {
			if pendingStart < 0 {
				pendingStart = c.SilenceStart
			}
			continue
		}
		if pendingStart >= 0 {
			c.SilenceStart = pendingStart
			pendingStart = -1
		}
		out = append(out, c)
	}
	return out
}
