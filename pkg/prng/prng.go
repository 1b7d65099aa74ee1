// Package prng provides a splittable, deterministic random key.
//
// A Key is an immutable value. Randomness is never drawn from a shared
// global source: every consumer derives its own key with Split, Next or
// FoldIn and builds a private stream from it with Source or Rand. The same
// root key and the same splitting structure always reproduce the same draws.
package prng

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math/rand/v2"
)

// Key is the state of a splittable random stream.
type Key [32]byte

// NewKey returns the root key for a seed.
func NewKey(seed uint64) Key {
	var k Key
	binary.LittleEndian.PutUint64(k[:8], seed)
	return k
}

// Split derives n independent keys from k. It also returns a fresh carry key
// that replaces k for further splitting, so k itself is never reused.
func Split(k Key, n int) (Key, []Key) {
	stream := rand.NewChaCha8(k)
	var carry Key
	_, _ = stream.Read(carry[:])
	keys := make([]Key, max(n, 0))
	for i := range keys {
		_, _ = stream.Read(keys[i][:])
	}
	return carry, keys
}

// Next derives a single new key from k.
func Next(k Key) Key {
	_, keys := Split(k, 1)
	return keys[0]
}

// FoldIn derives a key labeled by data. Distinct labels give independent keys
// regardless of the order in which they are derived.
func FoldIn(k Key, data uint64) Key {
	var buf [40]byte
	copy(buf[:32], k[:])
	binary.LittleEndian.PutUint64(buf[32:], data)
	return sha256.Sum256(buf[:])
}

// Source returns a fresh random source seeded by k.
func (k Key) Source() *rand.ChaCha8 {
	return rand.NewChaCha8(k)
}

// Rand returns a fresh generator seeded by k.
func (k Key) Rand() *rand.Rand {
	return rand.New(k.Source())
}

// String returns the key as hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}
