package segmentation

import (
	"context"
	"log/slog"

	"speechsplit/internal/audio"
	"speechsplit/internal/logging"
	"speechsplit/internal/silence"
)

// Options tunes the fragmenter.
type Options struct {
	// MinAudible is the shortest audible span, in milliseconds, treated as
	// a real utterance. Shorter spans are folded into adjacent silence.
	MinAudible int
	// TargetAudible is the audible span length, in milliseconds, above
	// which a chunk is re-segmented at higher sensitivity.
	TargetAudible int
	// SeekStep is the detector window advance in milliseconds.
	SeekStep int
}

// DefaultOptions returns the standard fragmentation settings.
func DefaultOptions() Options {
	return Options{MinAudible: 150, TargetAudible: 2000, SeekStep: 10}
}

// Cache persists fragment lists keyed by buffer content so fragmentation
// runs at most once per distinct recording.
type Cache interface {
	// Load returns the cached fragment list for buf, reporting whether an
	// entry existed. A corrupt entry is an error, not a miss.
	Load(ctx context.Context, buf *audio.Buffer) ([]Chunk, bool, error)
	// Save persists the fragment list for buf. Failures are fatal to the
	// fragmentation call.
	Save(ctx context.Context, buf *audio.Buffer, chunks []Chunk) error
}

// Fragmenter segments recordings into chunks.
type Fragmenter struct {
	detector silence.Detector
	ladder   Ladder
	cache    Cache
	logger   *slog.Logger
	opts     Options
}

// New builds a Fragmenter. detector defaults to the windowed-RMS detector
// and cache may be nil to disable persistence.
func New(detector silence.Detector, cache Cache, logger *slog.Logger, opts Options) *Fragmenter {
	if detector == nil {
		detector = silence.NewRMSDetector()
	}
	if opts.MinAudible <= 0 {
		opts.MinAudible = DefaultOptions().MinAudible
	}
	if opts.TargetAudible <= 0 {
		opts.TargetAudible = DefaultOptions().TargetAudible
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = DefaultOptions().SeekStep
	}
	return &Fragmenter{
		detector: detector,
		ladder:   DefaultLadder(),
		cache:    cache,
		logger:   logging.NewComponentLogger(logger, "fragmenter"),
		opts:     opts,
	}
}

// Fragments returns the ordered chunk list covering buf. The result is
// served from cache when available; otherwise it is computed, persisted, and
// returned. The context only applies to cache access; the segmentation loop
// itself runs to completion.
func (f *Fragmenter) Fragments(ctx context.Context, buf *audio.Buffer) ([]Chunk, error) {
	if f.cache != nil {
		chunks, ok, err := f.cache.Load(ctx, buf)
		if err != nil {
			return nil, err
		}
		if ok {
			f.logger.Debug("fragments served from cache",
				logging.Int("chunk_count", len(chunks)))
			return chunks, nil
		}
	}

	chunks := f.compute(buf)

	if f.cache != nil {
		if err := f.cache.Save(ctx, buf, chunks); err != nil {
			return nil, err
		}
	}

	f.logger.Info("fragmented recording",
		logging.Int("duration_ms", buf.Duration()),
		logging.Int("chunk_count", len(chunks)))
	return chunks, nil
}

func (f *Fragmenter) compute(buf *audio.Buffer) []Chunk {
	if buf.Duration() == 0 {
		// A zero-length recording still yields one (empty) chunk.
		return []Chunk{{}}
	}

	chunks := f.chunksAtLevel(buf, 0)
	for {
		refined, changed := f.refineOnce(buf, chunks)
		if !changed {
			break
		}
		chunks = refined
	}
	return mergeAlmostSilent(chunks, f.opts.MinAudible)
}

// refineOnce scans for the first chunk that is both longer than the target
// and still has sensitivity headroom, re-segments its audible span, and
// splices the result back in. It reports whether a splice happened; the
// caller restarts the scan from the beginning after every splice because a
// splice rewrites the following chunk's leading silence.
func (f *Fragmenter) refineOnce(buf *audio.Buffer, chunks []Chunk) ([]Chunk, bool) {
	for pos, c := range chunks {
		if c.AudibleLen() <= f.opts.TargetAudible || c.Level+1 >= f.ladder.Len() {
			continue
		}
		sub := f.seekSplit(buf.Slice(c.AudibleStart, c.AudibleEnd), c.Level+1)
		if len(sub) <= 1 {
			// Even full sensitivity could not split this span; leave it
			// and keep scanning.
			continue
		}
		for i := range sub {
			sub[i].SilenceStart += c.AudibleStart
			sub[i].AudibleStart += c.AudibleStart
			sub[i].AudibleEnd += c.AudibleStart
			sub[i].Label = Unlabeled
		}
		// The original leading silence belongs to the first refinement,
		// and the replaced chunk's right edge belongs to the last one.
		// Re-anchoring the edge matters because slicing can round the
		// sub-buffer's duration down a millisecond at sample rates not
		// divisible by 1000, which would otherwise shrink coverage.
		sub[0].SilenceStart = c.SilenceStart
		sub[len(sub)-1].AudibleEnd = c.AudibleEnd
		if pos+1 < len(chunks) {
			chunks[pos+1].SilenceStart = sub[len(sub)-1].AudibleEnd
		}
		return splice(chunks, pos, sub), true
	}
	return chunks, false
}

// splice replaces chunks[pos] with the given replacement sequence.
func splice(chunks []Chunk, pos int, replacement []Chunk) []Chunk {
	out := make([]Chunk, 0, len(chunks)+len(replacement)-1)
	out = append(out, chunks[:pos]...)
	out = append(out, replacement...)
	return append(out, chunks[pos+1:]...)
}

// seekSplit climbs the ladder from the given level until a detection pass
// splits buf into more than one chunk. When sensitivity runs out without a
// split it returns the last (most sensitive) pass as a best effort.
func (f *Fragmenter) seekSplit(buf *audio.Buffer, level int) []Chunk {
	if level >= f.ladder.Len() {
		level = f.ladder.Len() - 1
	}
	var chunks []Chunk
	for ; level < f.ladder.Len(); level++ {
		chunks = f.chunksAtLevel(buf, level)
		if len(chunks) > 1 {
			break
		}
	}
	return chunks
}

// chunksAtLevel runs one detection pass and normalizes its output so every
// audible span is bracketed by a silence on each side. Markers of zero
// length are synthesized at the buffer edges when the detector found none
// there, so even a buffer with no silence at all yields a single chunk
// spanning the whole buffer.
func (f *Fragmenter) chunksAtLevel(buf *audio.Buffer, level int) []Chunk {
	rung, _ := f.ladder.At(level)
	ranges := f.detector.Detect(buf, rung.params(f.opts.SeekStep))
	length := buf.Duration()

	if len(ranges) == 0 || ranges[0].Start != 0 {
		ranges = append([]silence.Range{{Start: 0, End: 0}}, ranges...)
	}
	if ranges[len(ranges)-1].End != length || len(ranges) < 2 {
		ranges = append(ranges, silence.Range{Start: length, End: length})
	}

	chunks := make([]Chunk, 0, len(ranges)-1)
	for i := 0; i+1 < len(ranges); i++ {
		chunks = append(chunks, Chunk{
			SilenceStart: ranges[i].Start,
			AudibleStart: ranges[i].End,
			AudibleEnd:   ranges[i+1].Start,
			Level:        level,
		})
	}
	return chunks
}
