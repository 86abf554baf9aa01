package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// LoadWAV reads a PCM WAV file into a Buffer. Multi-channel files are
// downmixed to mono by averaging channels; sample widths other than 16 bit
// are rescaled.
func LoadWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav %s: %w", path, err)
	}
	if pcm == nil || pcm.Format == nil || len(pcm.Data) == 0 {
		return nil, fmt.Errorf("decode wav %s: empty or invalid PCM payload", path)
	}

	channels := pcm.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	shift := bitDepth - 16

	frames := len(pcm.Data) / channels
	samples := make([]int16, frames)
	for i := 0; i < frames; i++ {
		var acc int
		for c := 0; c < channels; c++ {
			acc += pcm.Data[i*channels+c]
		}
		v := acc / channels
		switch {
		case shift > 0:
			v >>= shift
		case shift < 0:
			v <<= -shift
		}
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		samples[i] = int16(v)
	}

	return New(samples, pcm.Format.SampleRate)
}
