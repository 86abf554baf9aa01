// Package fragcache persists fragment lists keyed by a content fingerprint
// of the recording.
//
// The fingerprint hashes the raw samples of a fixed leading window of the
// buffer, so two recordings sharing an identical opening collide and share
// an entry. That is an accepted approximation: the fingerprint is a cheap
// identity proxy, not content-exact.
//
// Two stores are provided: FileStore writes one human-readable JSON file per
// fingerprint (<dir>/<fingerprint>.fragments.json, written atomically via
// temp file and rename), and SQLiteStore keeps all entries in a single
// schema-versioned database. Cache wraps either store with a bounded
// in-process LRU so repeated fragmentations of the same recording within one
// process never touch the store. Entries are written once and never
// invalidated; staleness after algorithm changes is the caller's problem.
package fragcache
