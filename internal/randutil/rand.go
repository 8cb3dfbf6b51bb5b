// Package randutil derives reproducible random sources from a single seed.
package randutil

import (
	"encoding/binary"
	"io"
	rand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a PCG source for seed. The same seed always deals the same
// cards and seats the same players.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Reader returns a byte stream seeded from seed, for APIs that want an
// io.Reader rather than a *rand.Rand.
func Reader(seed int64) io.Reader {
	var key [32]byte
	u := uint64(seed)
	for i := range 4 {
		binary.LittleEndian.PutUint64(key[i*8:], mix(u+uint64(i)*goldenRatio64))
	}
	return rand.NewChaCha8(key)
}

// Derive returns a child seed for stream n, so a tournament seed can give
// every table its own independent sequence.
func Derive(seed int64, n int) int64 {
	return int64(mix(uint64(seed) ^ mix(uint64(n)+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
