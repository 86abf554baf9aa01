package fragcache

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"speechsplit/internal/audio"
	"speechsplit/internal/logging"
	"speechsplit/internal/segmentation"
)

// defaultMemoSize bounds how many distinct recent recordings the in-process
// memo retains.
const defaultMemoSize = 32

// Cache fronts a Store with a bounded in-process memo. Both layers are the
// same idea at different lifetimes: the memo lives for one process, the
// store forever.
type Cache struct {
	store  Store
	memo   *lru.Cache[string, []segmentation.Chunk]
	logger *slog.Logger
}

// New wraps store with an in-process memo of memoSize entries (0 picks the
// default).
func New(store Store, memoSize int, logger *slog.Logger) (*Cache, error) {
	if memoSize <= 0 {
		memoSize = defaultMemoSize
	}
	memo, err := lru.New[string, []segmentation.Chunk](memoSize)
	if err != nil {
		return nil, err
	}
	return &Cache{
		store:  store,
		memo:   memo,
		logger: logging.NewComponentLogger(logger, "fragcache"),
	}, nil
}

// Load looks up the fragment list for buf, consulting the memo before the
// store. Store hits are promoted into the memo.
func (c *Cache) Load(ctx context.Context, buf *audio.Buffer) ([]segmentation.Chunk, bool, error) {
	fingerprint := Fingerprint(buf)

	if chunks, ok := c.memo.Get(fingerprint); ok {
		return chunks, true, nil
	}

	chunks, ok, err := c.store.Load(ctx, fingerprint)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	c.memo.Add(fingerprint, chunks)
	c.logger.Debug("cache hit",
		logging.String("fingerprint", fingerprint),
		logging.Int("chunk_count", len(chunks)))
	return chunks, true, nil
}

// Save persists the fragment list for buf and records it in the memo. Store
// failures propagate; the memo is only updated on success.
func (c *Cache) Save(ctx context.Context, buf *audio.Buffer, chunks []segmentation.Chunk) error {
	fingerprint := Fingerprint(buf)
	if err := c.store.Save(ctx, fingerprint, chunks); err != nil {
		return err
	}
	c.memo.Add(fingerprint, chunks)
	c.logger.Debug("cache entry stored",
		logging.String("fingerprint", fingerprint),
		logging.Int("chunk_count", len(chunks)))
	return nil
}

var _ segmentation.Cache = (*Cache)(nil)
