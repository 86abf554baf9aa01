package fragcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"speechsplit/internal/segmentation"
)

// schemaVersion is bumped when the fragments table changes shape. A mismatch
// requires clearing the database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version.
var ErrSchemaMismatch = errors.New("fragment cache schema version mismatch")

const schemaSQL = `
CREATE TABLE schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE fragments (
	fingerprint   TEXT    NOT NULL,
	position      INTEGER NOT NULL,
	silence_start INTEGER NOT NULL,
	audible_start INTEGER NOT NULL,
	audible_end   INTEGER NOT NULL,
	level         INTEGER NOT NULL,
	label         TEXT    NOT NULL,
	PRIMARY KEY (fingerprint, position)
);
`

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// SQLiteStore keeps all cache entries in a single SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore initializes or connects to the cache database at path,
// creating parent directories as needed.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'speechsplit cache clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Load reads the fragment list stored under fingerprint, ordered by
// position. Unknown label values are a data-integrity error.
func (s *SQLiteStore) Load(ctx context.Context, fingerprint string) ([]segmentation.Chunk, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT silence_start, audible_start, audible_end, level, label
		 FROM fragments WHERE fingerprint = ? ORDER BY position`,
		fingerprint)
	if err != nil {
		return nil, false, fmt.Errorf("query fragments: %w", err)
	}
	defer rows.Close()

	var chunks []segmentation.Chunk
	for rows.Next() {
		var c segmentation.Chunk
		var label string
		if err := rows.Scan(&c.SilenceStart, &c.AudibleStart, &c.AudibleEnd, &c.Level, &label); err != nil {
			return nil, false, fmt.Errorf("scan fragment: %w", err)
		}
		if err := c.Label.UnmarshalText([]byte(label)); err != nil {
			return nil, false, fmt.Errorf("fragment %s: %w", fingerprint, err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate fragments: %w", err)
	}
	if chunks == nil {
		return nil, false, nil
	}
	return chunks, true, nil
}

// Save replaces the entry for fingerprint in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, fingerprint string, chunks []segmentation.Chunk) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM fragments WHERE fingerprint = ?", fingerprint); err != nil {
			return fmt.Errorf("clear previous entry: %w", err)
		}
		for i, c := range chunks {
			label, err := c.Label.MarshalText()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO fragments (fingerprint, position, silence_start, audible_start, audible_end, level, label)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				fingerprint, i, c.SilenceStart, c.AudibleStart, c.AudibleEnd, c.Level, string(label)); err != nil {
				return fmt.Errorf("insert fragment %d: %w", i, err)
			}
		}
		return tx.Commit()
	})
}

// List returns the distinct fingerprints present, sorted.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT fingerprint FROM fragments ORDER BY fingerprint")
	if err != nil {
		return nil, fmt.Errorf("list fragments: %w", err)
	}
	defer rows.Close()

	var fingerprints []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		fingerprints = append(fingerprints, fp)
	}
	return fingerprints, rows.Err()
}

// Clear removes every entry.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM fragments")
		return err
	})
}
