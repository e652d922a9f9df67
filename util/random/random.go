package random

import (
	crypto_rand "crypto/rand"
	"math/big"
	"math/rand"

	"github.com/db47h/rand64/v3/xoshiro"
)

func NewSeed() int64 {
	const MaxUint = ^uint(0)
	const MaxInt = int(MaxUint >> 1)
	nBig, err := crypto_rand.Int(crypto_rand.Reader, big.NewInt(int64(MaxInt)))
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}

	return nBig.Int64()
}

// NewRand returns the PRNG used for shuffling and equity trials.
// xoshiro256** is fast and statistically sound for simulation; it is
// not crypto-grade, so seeds should come from NewSeed in production.
func NewRand(seed int64) *rand.Rand {
	src := &xoshiro.Rng256SS{}
	src.Seed(seed)
	return rand.New(src)
}
