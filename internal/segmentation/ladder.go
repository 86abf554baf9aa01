package segmentation

import "speechsplit/internal/silence"

// Rung is one sensitivity setting on the threshold ladder.
type Rung struct {
	// ThresholdDBFS is the loudness below which audio counts as silent.
	ThresholdDBFS float64
	// MinSilenceLen is the shortest silence the detector will report, in
	// milliseconds.
	MinSilenceLen int
}

// Ladder is an ordered sequence of detection settings, least sensitive
// first. Climbing the ladder widens the loudness threshold and shortens the
// minimum silence, so borderline audio is increasingly judged silent.
type Ladder []Rung

// DefaultLadder returns the standard escalation table: thresholds from
// -42 dBFS up to -34 dBFS, and within each threshold minimum silence lengths
// of 500 down to 200 ms.
func DefaultLadder() Ladder {
	var rungs []Rung
	for thresh := -42; thresh <= -34; thresh++ {
		for minLen := 500; minLen >= 200; minLen -= 100 {
			rungs = append(rungs, Rung{
				ThresholdDBFS: float64(thresh),
				MinSilenceLen: minLen,
			})
		}
	}
	return rungs
}

// At returns the rung at the given level. ok is false once the level exceeds
// the ladder, signalling that sensitivity is exhausted.
func (l Ladder) At(level int) (Rung, bool) {
	if level < 0 || level >= len(l) {
		return Rung{}, false
	}
	return l[level], true
}

// Len returns the number of sensitivity levels.
func (l Ladder) Len() int {
	return len(l)
}

// params builds the detector parameters for a rung.
func (r Rung) params(seekStep int) silence.Params {
	return silence.Params{
		ThresholdDBFS: r.ThresholdDBFS,
		MinLength:     r.MinSilenceLen,
		SeekStep:      seekStep,
	}
}
