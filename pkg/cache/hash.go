package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a namespaced cache key from a prefix and the key parts,
// formatted as prefix:hex(sha256(json(parts))). The keyers use it so that
// any change to the detached set or render options produces a distinct key.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the SHA-256 of data as a 64-character hex string. It
// fingerprints manifest bytes and serialized snapshots; the full digest is
// kept so distinct manifests never collide on a truncated prefix.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
