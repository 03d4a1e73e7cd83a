// Package cache implements the two-tier result cache and the fingerprinting
// that produces its keys.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// fingerprintLen keeps composite keys compact while leaving enough digest to
// make accidental collisions implausible at the cache sizes involved.
const fingerprintLen = 10

// Fingerprint returns a short deterministic digest of the given text. The
// input is trimmed so that incidental surrounding whitespace does not produce
// a distinct key.
func Fingerprint(text string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// FingerprintIDs returns a digest of an id set. The ids are sorted before
// hashing so that equal sets fingerprint identically regardless of order.
func FingerprintIDs(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return Fingerprint(strings.Join(sorted, ","))
}

// CompositeKey combines the job-description fingerprint and the candidate
// id-set fingerprint into a cache key. Component order is fixed: content
// first, identity set second.
func CompositeKey(jobFingerprint, setFingerprint string) string {
	return "job-" + jobFingerprint + "-" + setFingerprint
}
