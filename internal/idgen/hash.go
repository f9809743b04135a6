package idgen

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"
	"time"
)

// base36Alphabet is the character set for base36 encoding (0-9, a-z).
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// TempPrefix marks identifiers minted locally for optimistic creates.
// The server never issues IDs with this prefix, so IsTemp is unambiguous.
const TempPrefix = "tmp-"

// tempLen is the number of base36 characters following TempPrefix.
const tempLen = 12

// tempNonce disambiguates temp IDs minted within the same nanosecond.
var tempNonce atomic.Uint64

// EncodeBase36 converts a byte slice to a base36 string of the given length.
// Uses base36 (0-9, a-z) for better information density than hex.
func EncodeBase36(data []byte, length int) string {
	num := new(big.Int).SetBytes(data)

	var result strings.Builder
	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	// Build the string in reverse
	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}

	for i := len(chars) - 1; i >= 0; i-- {
		result.WriteByte(chars[i])
	}

	// Pad with zeros if needed
	str := result.String()
	if len(str) < length {
		str = strings.Repeat("0", length-len(str)) + str
	}

	// Truncate to exact length if needed (keep least significant digits)
	if len(str) > length {
		str = str[len(str)-length:]
	}

	return str
}

// NewTempID mints a placeholder identifier for an entity created
// optimistically before the server has assigned a real ID. kind is the
// entity type ("issue", "page", ...) and salts the hash so concurrent
// creates of different kinds never collide.
func NewTempID(kind string) string {
	nonce := tempNonce.Add(1)
	content := fmt.Sprintf("%s|%d|%d", kind, time.Now().UnixNano(), nonce)
	hash := sha256.Sum256([]byte(content))
	return TempPrefix + EncodeBase36(hash[:8], tempLen)
}

// IsTemp reports whether id was minted by NewTempID and has not yet been
// swapped for a server-assigned identifier.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}
