package audio

import (
	"fmt"
	"math"
)

// maxAmplitude is the largest magnitude a 16-bit sample can hold.
const maxAmplitude = 32768.0

// Buffer is an immutable mono PCM recording addressed in milliseconds.
type Buffer struct {
	samples    []int16
	sampleRate int
}

// New wraps samples recorded at sampleRate into a Buffer. The samples slice
// is not copied; callers must not mutate it afterwards.
func New(samples []int16, sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio: invalid sample rate %d", sampleRate)
	}
	return &Buffer{samples: samples, sampleRate: sampleRate}, nil
}

// Samples exposes the raw PCM data. Read-only by convention.
func (b *Buffer) Samples() []int16 {
	return b.samples
}

// SampleRate returns the sample rate in Hz.
func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

// Duration returns the buffer length in milliseconds, rounded down.
func (b *Buffer) Duration() int {
	return len(b.samples) * 1000 / b.sampleRate
}

// sampleIndex converts a millisecond offset to a sample index, clamped to the
// buffer bounds.
func (b *Buffer) sampleIndex(ms int) int {
	idx := ms * b.sampleRate / 1000
	if idx < 0 {
		return 0
	}
	if idx > len(b.samples) {
		return len(b.samples)
	}
	return idx
}

// Slice returns the sub-buffer covering [start, end) milliseconds. The
// returned Buffer aliases the receiver's samples. Out-of-range bounds are
// clamped; an inverted range yields an empty buffer.
func (b *Buffer) Slice(start, end int) *Buffer {
	lo := b.sampleIndex(start)
	hi := b.sampleIndex(end)
	if hi < lo {
		hi = lo
	}
	return &Buffer{samples: b.samples[lo:hi], sampleRate: b.sampleRate}
}

// RMS returns the root mean square amplitude of the window
// [start, start+length) milliseconds in raw sample units.
func (b *Buffer) RMS(start, length int) float64 {
	lo := b.sampleIndex(start)
	hi := b.sampleIndex(start + length)
	if hi <= lo {
		return 0
	}
	var sum float64
	for _, s := range b.samples[lo:hi] {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(hi-lo))
}

// DBFS returns the loudness of the whole buffer in dB relative to full scale.
// An all-zero or empty buffer reports -Inf.
func (b *Buffer) DBFS() float64 {
	rms := b.RMS(0, b.Duration())
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/maxAmplitude)
}

// DBToLinear converts a dBFS threshold to the equivalent raw RMS amplitude.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20) * maxAmplitude
}
