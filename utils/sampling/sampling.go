// Package sampling implements deterministic sampling of bytes and
// arbitrary precision floats.
package sampling

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// ReadUint64 reads a uint64 from prng.
func ReadUint64(prng PRNG) (uint64, error) {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := io.ReadFull(prng, b); err != nil {
		return 0, fmt.Errorf("cannot ReadUint64: %w", err)
	}
	return binary.LittleEndian.Uint64(b), nil
}

// UniformFloat returns a float sampled uniformly in [a, b) with prec bits of
// precision. The mantissa is drawn from ceil(prec/64) words of prng.
func UniformFloat(prng PRNG, a, b *big.Float, prec uint) (*big.Float, error) {

	words := int((prec + 63) >> 6)

	u := new(big.Int)
	w := new(big.Int)
	for i := 0; i < words; i++ {
		r, err := ReadUint64(prng)
		if err != nil {
			return nil, fmt.Errorf("cannot UniformFloat: %w", err)
		}
		u.Lsh(u, 64)
		u.Or(u, w.SetUint64(r))
	}

	// f = u / 2^(64*words) in [0, 1)
	f := new(big.Float).SetPrec(prec).SetInt(u)
	f.SetMantExp(f, -64*words)

	width := new(big.Float).SetPrec(prec).Sub(b, a)
	f.Mul(f, width)
	f.Add(f, a)

	return f, nil
}
