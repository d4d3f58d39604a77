package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// maxInlineKey is the longest caller-supplied component kept verbatim in a
// storage key. Longer (or separator-carrying) components are replaced by a
// short content hash so keys stay bounded and colon-delimited.
const maxInlineKey = 96

// SearchResultKey builds the storage key for one cached result page:
// search-results:v<version>:<canonical>. canonical must be the stable
// serialization of the filter set, so equivalent filters share a key.
func SearchResultKey(version uint64, canonical string) string {
	return fmt.Sprintf("search-results:v%d:%s", version, Sanitize(canonical))
}

// NamespaceGenKey is the shared-store key holding the generation tag for a
// static namespace. Bumping it orphans every entry of that namespace.
func NamespaceGenKey(ns string) string {
	return "static:gen:" + ns
}

// StaticEntryKey builds the storage key for one static-namespace entry under
// the given generation.
func StaticEntryKey(ns string, gen uint64, key string) string {
	return fmt.Sprintf("static:%s:g%d:%s", ns, gen, Sanitize(key))
}

// TaskResultKey is the result-backend key for one executed task.
func TaskResultKey(taskID string) string {
	return "tasks:result:" + taskID
}

// Sanitize returns s unchanged when it is short and free of key separators,
// otherwise a short hex digest of it.
func Sanitize(s string) string {
	if len(s) <= maxInlineKey && !strings.ContainsAny(s, ": \n") {
		return s
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
