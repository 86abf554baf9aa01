package silence

import (
	"math"

	"speechsplit/internal/audio"
)

// Range is a half-open [Start, End) interval in milliseconds.
type Range struct {
	Start int
	End   int
}

// Len returns the interval length in milliseconds.
func (r Range) Len() int {
	return r.End - r.Start
}

// Params selects how aggressively a detection pass hunts for silence.
type Params struct {
	// ThresholdDBFS is the loudness at or below which a window counts as
	// silent, in dB relative to full scale.
	ThresholdDBFS float64
	// MinLength is the shortest stretch, in milliseconds, that qualifies
	// as a silent interval.
	MinLength int
	// SeekStep is the window advance in milliseconds. Larger steps are
	// faster and coarser. Zero means 1.
	SeekStep int
}

// Detector reports the silent intervals of a buffer for a given sensitivity.
// Implementations return ranges in increasing order without overlap.
type Detector interface {
	Detect(buf *audio.Buffer, params Params) []Range
}

// RMSDetector finds silence by sliding an RMS window over the raw samples.
type RMSDetector struct{}

// NewRMSDetector returns the default windowed-RMS detector.
func NewRMSDetector() *RMSDetector {
	return &RMSDetector{}
}

// Detect slides a MinLength window across buf in SeekStep increments and
// marks every window whose RMS is at or below the threshold, then merges
// adjacent silent windows into ranges. A buffer shorter than MinLength
// yields no ranges.
func (d *RMSDetector) Detect(buf *audio.Buffer, params Params) []Range {
	length := buf.Duration()
	minLen := params.MinLength
	if minLen <= 0 || length < minLen {
		return nil
	}
	step := params.SeekStep
	if step <= 0 {
		step = 1
	}
	threshold := audio.DBToLinear(params.ThresholdDBFS)

	// Prefix sums of squared samples keep every window O(1).
	samples := buf.Samples()
	prefix := make([]float64, len(samples)+1)
	for i, s := range samples {
		v := float64(s)
		prefix[i+1] = prefix[i] + v*v
	}
	rate := buf.SampleRate()
	windowRMS := func(startMS int) float64 {
		lo := startMS * rate / 1000
		hi := (startMS + minLen) * rate / 1000
		if hi > len(samples) {
			hi = len(samples)
		}
		if hi <= lo {
			return 0
		}
		return math.Sqrt((prefix[hi] - prefix[lo]) / float64(hi-lo))
	}

	// Window start offsets, always including the final full window.
	lastStart := length - minLen
	var silentStarts []int
	covered := false
	for start := 0; start <= lastStart; start += step {
		if start == lastStart {
			covered = true
		}
		if windowRMS(start) <= threshold {
			silentStarts = append(silentStarts, start)
		}
	}
	if !covered && windowRMS(lastStart) <= threshold {
		silentStarts = append(silentStarts, lastStart)
	}
	if len(silentStarts) == 0 {
		return nil
	}

	// Coalesce overlapping silent windows into ranges.
	var ranges []Range
	current := Range{Start: silentStarts[0], End: silentStarts[0] + minLen}
	for _, start := range silentStarts[1:] {
		if start <= current.End {
			current.End = start + minLen
			continue
		}
		ranges = append(ranges, current)
		current = Range{Start: start, End: start + minLen}
	}
	return append(ranges, current)
}
