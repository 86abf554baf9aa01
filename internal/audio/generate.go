package audio

import "math"

// Tone synthesizes a sine wave of the given frequency lasting duration
// milliseconds. gainDB attenuates (negative) or boosts (positive) the signal
// relative to full scale; 0 produces a near-full-scale tone.
func Tone(freq float64, duration, sampleRate int, gainDB float64) *Buffer {
	n := duration * sampleRate / 1000
	amp := math.Pow(10, gainDB/20) * (maxAmplitude - 1)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		v := amp * math.Sin(2*math.Pi*freq*t)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		samples[i] = int16(v)
	}
	return &Buffer{samples: samples, sampleRate: sampleRate}
}

// Silence synthesizes duration milliseconds of digital silence.
func Silence(duration, sampleRate int) *Buffer {
	return &Buffer{
		samples:    make([]int16, duration*sampleRate/1000),
		sampleRate: sampleRate,
	}
}

// Concat joins buffers into a new Buffer carrying the first buffer's sample
// rate. Mixed-rate inputs are not resampled; later rates are ignored. Concat
// of nothing returns an empty 8 kHz buffer.
func Concat(buffers ...*Buffer) *Buffer {
	if len(buffers) == 0 {
		return &Buffer{sampleRate: 8000}
	}
	total := 0
	for _, b := range buffers {
		total += len(b.samples)
	}
	samples := make([]int16, 0, total)
	for _, b := range buffers {
		samples = append(samples, b.samples...)
	}
	return &Buffer{samples: samples, sampleRate: buffers[0].sampleRate}
}
