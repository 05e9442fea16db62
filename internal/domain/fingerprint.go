package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fingerprintHexLen truncates the digest to 64 bits of hex. Collisions only
// matter within one source namespace, where daily volume is a few hundred
// items, so a short digest keeps external IDs compact.
const fingerprintHexLen = 16

// Fingerprint computes a deterministic content hash over the identifying
// fields of a source item. The same inputs always produce the same
// fingerprint; fields outside the declared inputs (e.g. description text
// beyond a truncation window) do not affect it. That determinism is what
// makes re-fetches of the same item dedupe cleanly.
func Fingerprint(fields ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])[:fingerprintHexLen]
}

// NamespaceExternalID prefixes a fingerprint with its source tag so the
// global external-ID keyspace cannot collide across sources.
func NamespaceExternalID(source, fingerprint string) string {
	return source + "_" + fingerprint
}
