package fragcache

import (
	"context"

	"speechsplit/internal/segmentation"
)

// Store is the persistent layer of the cache, keyed by fingerprint.
type Store interface {
	// Load returns the stored fragment list, reporting whether an entry
	// existed. Decoding failures are errors, never treated as misses.
	Load(ctx context.Context, fingerprint string) ([]segmentation.Chunk, bool, error)
	// Save persists the fragment list under the fingerprint. A partially
	// written entry must never be observable as valid.
	Save(ctx context.Context, fingerprint string, chunks []segmentation.Chunk) error
	// List returns the fingerprints of all stored entries.
	List(ctx context.Context) ([]string, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
}
