package fragcache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"speechsplit/internal/audio"
)

const (
	// fingerprintWindow is how much of the recording's start, in
	// milliseconds, identifies it.
	fingerprintWindow = 1000
	// fingerprintLen is the digest length kept, in hex characters.
	fingerprintLen = 16
)

// Fingerprint derives the cache key for a buffer from the raw samples of its
// first second. Buffers with identical leading samples share a key
// regardless of what follows.
func Fingerprint(buf *audio.Buffer) string {
	h := sha256.New()
	var scratch [2]byte
	for _, s := range buf.Slice(0, fingerprintWindow).Samples() {
		binary.LittleEndian.PutUint16(scratch[:], uint16(s))
		h.Write(scratch[:])
	}
	return hex.EncodeToString(h.Sum(nil))[:fingerprintLen]
}
