// Package cache stores per-document analysis results keyed by content
// hash, so unchanged files skip re-analysis across runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store defines the byte-level cache contract
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ContentKey derives the cache key for a document's raw content. Any edit
// to the file changes the key, so stale analysis is never served.
func ContentKey(content []byte) string {
	hash := sha256.Sum256(content)
	return "ruleaudit:v1:" + hex.EncodeToString(hash[:])
}
