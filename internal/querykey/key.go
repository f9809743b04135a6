// Package querykey derives the hierarchical cache keys used to address
// every cached query. Keys are ordered segment sequences: two calls with
// equal logical inputs always produce deep-equal keys, and sub-scopes
// ("detail", "archived", "grouped") are appended as extra segments so that
// prefix invalidation hits exactly the intended subtree of entries.
//
// Key derivation is pure; there are no error paths.
package querykey

import (
	"sort"
	"strings"
)

// Separator joins segments in the canonical string form. Segments are
// escaped so the string form round-trips unambiguously.
const Separator = ":"

// Key is an ordered, immutable sequence of scope segments. Treat a Key as a
// value: never mutate it in place, derive new keys with Append.
type Key []string

// New builds a key from raw segments, escaping the separator in each.
func New(segments ...string) Key {
	k := make(Key, len(segments))
	for i, s := range segments {
		k[i] = escape(s)
	}
	return k
}

// Append returns a new key with extra segments added. The receiver is
// never modified.
func (k Key) Append(segments ...string) Key {
	out := make(Key, 0, len(k)+len(segments))
	out = append(out, k...)
	for _, s := range segments {
		out = append(out, escape(s))
	}
	return out
}

// String returns the canonical colon-joined form, used as the cache map key.
func (k Key) String() string {
	return strings.Join(k, Separator)
}

// Equal reports whether two keys have identical segments.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether the key starts with every segment of prefix.
// Matching is segment-wise, so "issues:ws1:p12" does not match a "p1" prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Filter is a set of query parameters contributing to key identity. Encoding
// is order-independent: equal logical filters always yield an equal segment.
type Filter map[string]string

// Encode renders the filter as a single canonical segment. Empty filters
// encode to "-" so the segment count of a keyed query never varies.
func (f Filter) Encode() string {
	if len(f) == 0 {
		return "-"
	}
	pairs := make([]string, 0, len(f))
	for k, v := range f {
		pairs = append(pairs, escapePair(k)+"="+escapePair(v))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

func escape(s string) string {
	if !strings.Contains(s, Separator) {
		return s
	}
	return strings.ReplaceAll(s, Separator, "%3A")
}

// escapePair additionally escapes the pair delimiters so filter values can
// never masquerade as extra pairs.
func escapePair(s string) string {
	s = escape(s)
	s = strings.ReplaceAll(s, "=", "%3D")
	return strings.ReplaceAll(s, "&", "%26")
}
