package subtle

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"math"
	"math/big"
)

const (
	ff1Rounds = 10

	// MinRadix and MaxRadix bound the working alphabet for every mode.
	MinRadix = 2
	MaxRadix = 1 << 16

	// MinLength and MaxLength bound the numeral string for every mode.
	// FF3/FF3-1 are tightened further by MaxLengthFF3.
	MinLength = 2
	MaxLength = 256
)

var (
	// ErrRadix is returned when the radix is outside [MinRadix, MaxRadix].
	ErrRadix = errors.New("radix must be in [2, 65536]")

	// ErrLength is returned when the numeral string length is outside the
	// bounds of the mode.
	ErrLength = errors.New("numeral string length out of range")

	// ErrNumeral is returned when a numeral is not below the radix.
	ErrNumeral = errors.New("numeral out of radix range")

	// ErrTweakLength is returned when the tweak length is not accepted by
	// the mode.
	ErrTweakLength = errors.New("invalid tweak length")
)

// FF1 is the 10-round Feistel engine over a 16-byte ECB oracle. Its round
// PRF is CBC-MAC over the raw block, not AES-CMAC; ciphertexts therefore do
// not interoperate with CMAC-based FF1 implementations, while every
// format-preserving and round-trip property holds.
//
// An FF1 value is safe for concurrent use: the bound cipher is read-only
// after key expansion and all round state is allocated per call.
type FF1 struct {
	block cipher.Block
	radix int
}

// NewFF1 returns an FF1 engine over the given 16-byte block cipher. The
// block must be bound on the raw key (no key reversal in this mode).
func NewFF1(block cipher.Block, radix int) (*FF1, error) {
	if block.BlockSize() != blockSize {
		return nil, fmt.Errorf("block size must be %d bytes, got %d", blockSize, block.BlockSize())
	}
	if radix < MinRadix || radix > MaxRadix {
		return nil, fmt.Errorf("%w: got %d", ErrRadix, radix)
	}
	return &FF1{block: block, radix: radix}, nil
}

// Radix returns the radix the engine was built for.
func (f *FF1) Radix() int { return f.radix }

// Encrypt maps the numeral string x to a same-length numeral string over the
// same radix. The tweak may be nil or any length up to 2^32-1 bytes.
func (f *FF1) Encrypt(x []uint16, tweak []byte) ([]uint16, error) {
	return f.crypt(x, tweak, true)
}

// Decrypt inverts Encrypt for the same tweak.
func (f *FF1) Decrypt(x []uint16, tweak []byte) ([]uint16, error) {
	return f.crypt(x, tweak, false)
}

func (f *FF1) crypt(x []uint16, tweak []byte, enc bool) ([]uint16, error) {
	n := len(x)
	if n < MinLength || n > MaxLength {
		return nil, fmt.Errorf("%w: got %d", ErrLength, n)
	}
	if !digitsValid(x, f.radix) {
		return nil, ErrNumeral
	}

	u := n / 2
	v := n - u
	a := dup(x[:u])
	b := dup(x[u:])

	byteLen := numBytes(v, f.radix)
	d := 4*((byteLen+3)/4) + 4
	p := ff1P(f.radix, u, n, len(tweak))
	q := ff1Q(tweak, byteLen)

	modU := pow(f.radix, u)
	modV := pow(f.radix, v)

	c := new(big.Int)
	y := new(big.Int)

	round := func(i int) {
		m, mod := u, modU
		if i%2 == 1 {
			m, mod = v, modV
		}
		q[len(q)-byteLen-1] = byte(i)
		num(b, f.radix).FillBytes(q[len(q)-byteLen:])
		s := f.prf(p, q, d)
		y.SetBytes(s)
		c.Set(num(a, f.radix))
		if enc {
			c.Add(c, y)
		} else {
			c.Sub(c, y)
		}
		c.Mod(c, mod)
		str(c, f.radix, m, a)
	}

	if enc {
		for i := 0; i < ff1Rounds; i++ {
			round(i)
			a, b = b, a
		}
	} else {
		for i := ff1Rounds - 1; i >= 0; i-- {
			a, b = b, a
			round(i)
		}
	}

	out := make([]uint16, 0, n)
	out = append(out, a...)
	return append(out, b...), nil
}

// ff1P builds the fixed 16-byte prefix
// [1]1 || [2]1 || [1]1 || [radix]3 || [10]1 || [u mod 256]1 || [n]4 || [t]4.
func ff1P(radix, u, n, t int) []byte {
	p := make([]byte, blockSize)
	p[0], p[1], p[2] = 0x01, 0x02, 0x01
	p[3], p[4], p[5] = byte(radix>>16), byte(radix>>8), byte(radix)
	p[6] = ff1Rounds
	p[7] = byte(u % 256)
	p[8], p[9], p[10], p[11] = byte(n>>24), byte(n>>16), byte(n>>8), byte(n)
	p[12], p[13], p[14], p[15] = byte(t>>24), byte(t>>16), byte(t>>8), byte(t)
	return p
}

// ff1Q allocates the per-round message tweak || [0]pad || [i]1 || [NUM(b)]b,
// padded so that len(p)+len(q) is a multiple of the block size. The round
// index and numeral bytes are filled in each round.
func ff1Q(tweak []byte, byteLen int) []byte {
	t := len(tweak)
	pad := ((-(t + byteLen + 1) % blockSize) + blockSize) % blockSize
	q := make([]byte, t+pad+1+byteLen)
	copy(q, tweak)
	return q
}

// prf runs CBC-MAC over p then q with the bound cipher and expands the final
// block to d bytes as r || E(r xor <1>) || E(r xor <2>) || ..., where <j> is
// the 16-byte big-endian encoding of the block counter.
func (f *FF1) prf(p, q []byte, d int) []byte {
	r := make([]byte, blockSize)
	f.block.Encrypt(r, p)
	for j := 0; j < len(q); j += blockSize {
		for k := 0; k < blockSize; k++ {
			r[k] ^= q[j+k]
		}
		f.block.Encrypt(r, r)
	}
	if d <= blockSize {
		return r[:d]
	}

	blocks := (d + blockSize - 1) / blockSize
	s := make([]byte, blocks*blockSize)
	copy(s, r)
	for j := 1; j < blocks; j++ {
		blk := s[j*blockSize : (j+1)*blockSize]
		copy(blk, r)
		blk[12] ^= byte(j >> 24)
		blk[13] ^= byte(j >> 16)
		blk[14] ^= byte(j >> 8)
		blk[15] ^= byte(j)
		f.block.Encrypt(blk, blk)
	}
	return s[:d]
}

// numBytes returns ceil(ceil(v * log2(radix)) / 8), the byte length that
// holds any value below radix^v.
func numBytes(v, radix int) int {
	return int(math.Ceil(math.Ceil(float64(v)*math.Log2(float64(radix))) / 8))
}
