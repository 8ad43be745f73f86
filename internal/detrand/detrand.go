// Package detrand is the shared seed-expansion helper behind
// hashfamily's compound-hash seeds and reservoir's rand_values table:
// both need a stream of uniform uint32 words that is either
// unseeded (crypto/rand, the sourcing idiom of
// _examples/opencoff-go-chd/rand.go's rand32/rand64) or reproducible from
// a single int64 seed for testing.
package detrand

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/gtank/blake2/blake2b"
)

// Words returns n uniform uint32 words. With seed == nil the words come
// from crypto/rand. With a seed, the words are expanded deterministically
// from BLAKE2b so callers get reproducible construction.
func Words(n int, seed *int64) []uint32 {
	if seed == nil {
		return randomWords(n)
	}
	return expandWords(n, *seed)
}

func randomWords(n int) []uint32 {
	buf := make([]byte, 4*n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		panic("detrand: crypto/rand unavailable: " + err.Error())
	}
	words := make([]uint32, n)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(buf[i*4 : i*4+4])
	}
	return words
}

// expandWords is a small counter-mode DRBG over BLAKE2b: each 32-byte
// digest block is keyed on seed and an incrementing counter, so the
// caller gets a reproducible, effectively unbounded stream of uniform
// words from a single 8-byte seed.
func expandWords(n int, seed int64) []uint32 {
	var seedBytes [8]byte
	binary.BigEndian.PutUint64(seedBytes[:], uint64(seed))

	words := make([]uint32, 0, n)
	for counter := uint32(0); len(words) < n; counter++ {
		d, err := blake2b.NewDigest(seedBytes[:], nil, nil, 32)
		if err != nil {
			panic("detrand: blake2b.NewDigest: " + err.Error())
		}

		var ctrBytes [4]byte
		binary.BigEndian.PutUint32(ctrBytes[:], counter)
		if _, err := d.Write(ctrBytes[:]); err != nil {
			panic("detrand: blake2b.Write: " + err.Error())
		}

		sum := d.Sum(nil)
		for i := 0; i+4 <= len(sum) && len(words) < n; i += 4 {
			words = append(words, binary.BigEndian.Uint32(sum[i:i+4]))
		}
	}
	return words
}
