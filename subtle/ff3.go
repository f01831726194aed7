package subtle

import (
	"crypto/cipher"
	"fmt"
	"math"
	"math/big"
)

const (
	ff3Rounds = 8

	// TweakLenFF3 is the byte length of a full FF3 tweak. A 7-byte tweak is
	// also accepted and zero-padded on the right.
	TweakLenFF3 = 8

	// TweakLenFF31 is the byte length of an FF3-1 tweak (56 bits). An
	// 8-byte tweak is also accepted; its final byte is discarded.
	TweakLenFF31 = 7
)

// MaxLengthFF3 returns the maximum numeral string length for FF3 and FF3-1
// at the given radix: min(MaxLength, 2*floor(log_radix(2^96))).
func MaxLengthFF3(radix int) int {
	max := 2 * int(math.Floor(96/math.Log2(float64(radix))))
	if max > MaxLength {
		return MaxLength
	}
	return max
}

// feistel8 is the 8-round core shared by FF3 and FF3-1. The two modes differ
// only in how the tweak is split into the 32-bit halves tl and tr.
type feistel8 struct {
	block cipher.Block
	radix int
}

func newFeistel8(block cipher.Block, radix int) (feistel8, error) {
	if block.BlockSize() != blockSize {
		return feistel8{}, fmt.Errorf("block size must be %d bytes, got %d", blockSize, block.BlockSize())
	}
	if radix < MinRadix || radix > MaxRadix {
		return feistel8{}, fmt.Errorf("%w: got %d", ErrRadix, radix)
	}
	return feistel8{block: block, radix: radix}, nil
}

func (f feistel8) crypt(x []uint16, tl, tr []byte, enc bool) ([]uint16, error) {
	n := len(x)
	if n < MinLength || n > MaxLengthFF3(f.radix) {
		return nil, fmt.Errorf("%w: got %d", ErrLength, n)
	}
	if !digitsValid(x, f.radix) {
		return nil, ErrNumeral
	}

	u := (n + 1) / 2
	v := n - u
	a := dup(x[:u])
	b := dup(x[u:])

	modU := pow(f.radix, u)
	modV := pow(f.radix, v)

	w := make([]byte, blockSize)
	c := new(big.Int)
	y := new(big.Int)

	round := func(i int) {
		m, mod, half := u, modU, tr
		if i%2 == 1 {
			m, mod, half = v, modV, tl
		}
		copy(w[:4], half)
		w[3] ^= byte(i)
		// The numeral half occupies the trailing 12 bytes; the length bound
		// guarantees its value is below 2^96.
		numRev(b, f.radix).FillBytes(w[4:])
		revBytes(w)
		f.block.Encrypt(w, w)
		revBytes(w)
		y.SetBytes(w)
		c.Set(numRev(a, f.radix))
		if enc {
			c.Add(c, y)
		} else {
			c.Sub(c, y)
		}
		c.Mod(c, mod)
		strRev(c, f.radix, m, a)
	}

	if enc {
		for i := 0; i < ff3Rounds; i++ {
			round(i)
			a, b = b, a
		}
	} else {
		for i := ff3Rounds - 1; i >= 0; i-- {
			a, b = b, a
			round(i)
		}
	}

	out := make([]uint16, 0, n)
	out = append(out, a...)
	return append(out, b...), nil
}

// FF3 is the 8-round Feistel engine with a 64-bit tweak split into two
// 32-bit halves at the byte boundary. Deprecated by NIST in favour of FF3-1;
// kept for data encrypted before the revision.
//
// An FF3 value is safe for concurrent use: the bound cipher is read-only
// after key expansion and all round state is allocated per call.
type FF3 struct {
	core feistel8
}

// NewFF3 returns an FF3 engine. The block must be bound on the byte-reversed
// key (see NewReversedBlock).
func NewFF3(block cipher.Block, radix int) (*FF3, error) {
	core, err := newFeistel8(block, radix)
	if err != nil {
		return nil, err
	}
	return &FF3{core: core}, nil
}

// Radix returns the radix the engine was built for.
func (f *FF3) Radix() int { return f.core.radix }

// Encrypt maps the numeral string x to a same-length numeral string over the
// same radix. The tweak must be 8 bytes; 7 bytes are accepted and
// zero-padded on the right.
func (f *FF3) Encrypt(x []uint16, tweak []byte) ([]uint16, error) {
	tl, tr, err := splitTweakFF3(tweak)
	if err != nil {
		return nil, err
	}
	return f.core.crypt(x, tl, tr, true)
}

// Decrypt inverts Encrypt for the same tweak.
func (f *FF3) Decrypt(x []uint16, tweak []byte) ([]uint16, error) {
	tl, tr, err := splitTweakFF3(tweak)
	if err != nil {
		return nil, err
	}
	return f.core.crypt(x, tl, tr, false)
}

// splitTweakFF3 splits an 8-byte tweak into Tl = T[0..4] and Tr = T[4..8].
func splitTweakFF3(tweak []byte) (tl, tr []byte, err error) {
	switch len(tweak) {
	case TweakLenFF3:
	case TweakLenFF3 - 1:
		padded := make([]byte, TweakLenFF3)
		copy(padded, tweak)
		tweak = padded
	default:
		return nil, nil, fmt.Errorf("%w: FF3 takes 8 (or 7) bytes, got %d", ErrTweakLength, len(tweak))
	}
	return tweak[:4], tweak[4:], nil
}
