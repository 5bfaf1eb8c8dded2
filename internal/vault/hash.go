// File path: internal/vault/hash.go

// Package vault derives business-key hashes, decomposes the staging snapshot
// into Data Vault projections, and orchestrates the concurrent table loads.
package vault

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// HashKey digests a business key into a 32-character lowercase hex string.
// The digest is a pure function of the key's decimal rendering, so a key
// hashes identically within a batch, across runs, and against historically
// loaded hubs and links. md5 is kept for exactly that continuity; the hash
// carries no security weight.
func HashKey(key int64) string {
	sum := md5.Sum([]byte(strconv.FormatInt(key, 10)))
	return hex.EncodeToString(sum[:])
}
