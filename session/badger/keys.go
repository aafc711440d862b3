package badger

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Key prefix for history blobs
const historyPrefix = "sessh"

// historyKey derives the storage key for an identity. The identity is
// hashed so raw addresses never appear as database keys.
func historyKey(identity string) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(identity))
	sum := h.Sum(nil)
	return []byte(historyPrefix + ":" + hex.EncodeToString(sum))
}
