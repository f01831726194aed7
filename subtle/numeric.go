// Package subtle provides low-level cryptographic primitives for
// Format-Preserving Encryption. This package contains the core FF1, FF3 and
// FF3-1 engines that work with raw block ciphers and numeral strings.
// It should not be used directly by most users; instead use the high-level
// APIs in the parent package.
package subtle

import (
	"math/big"
)

// num returns the integer that the numeral string x represents in base radix,
// with x[0] the most significant numeral. Used by FF1.
func num(x []uint16, radix int) *big.Int {
	out := new(big.Int)
	r := big.NewInt(int64(radix))
	d := new(big.Int)
	for i := 0; i < len(x); i++ {
		out.Mul(out, r)
		out.Add(out, d.SetInt64(int64(x[i])))
	}
	return out
}

// numRev returns the integer that the numeral string x represents in base
// radix, with x[0] the least significant numeral. Used by FF3 and FF3-1.
// Equivalent to num(rev(x), radix).
func numRev(x []uint16, radix int) *big.Int {
	out := new(big.Int)
	r := big.NewInt(int64(radix))
	d := new(big.Int)
	for i := len(x) - 1; i >= 0; i-- {
		out.Mul(out, r)
		out.Add(out, d.SetInt64(int64(x[i])))
	}
	return out
}

// str writes v as m numerals in base radix into out, most significant first.
// v must already be reduced modulo radix^m; v is consumed.
func str(v *big.Int, radix, m int, out []uint16) {
	r := big.NewInt(int64(radix))
	rem := new(big.Int)
	for i := m - 1; i >= 0; i-- {
		v.QuoRem(v, r, rem)
		out[i] = uint16(rem.Uint64())
	}
}

// strRev writes v as m numerals in base radix into out, least significant
// first. v must already be reduced modulo radix^m; v is consumed.
func strRev(v *big.Int, radix, m int, out []uint16) {
	r := big.NewInt(int64(radix))
	rem := new(big.Int)
	for i := 0; i < m; i++ {
		v.QuoRem(v, r, rem)
		out[i] = uint16(rem.Uint64())
	}
}

// pow returns radix^m.
func pow(radix, m int) *big.Int {
	return new(big.Int).Exp(big.NewInt(int64(radix)), big.NewInt(int64(m)), nil)
}

// digitsValid reports whether every numeral of x is below radix.
func digitsValid(x []uint16, radix int) bool {
	for _, d := range x {
		if int(d) >= radix {
			return false
		}
	}
	return true
}

// revBytes reverses b in place and returns it.
func revBytes(b []byte) []byte {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// dup returns a copy of x so that round updates never alias the caller's
// buffer.
func dup(x []uint16) []uint16 {
	out := make([]uint16, len(x))
	copy(out, x)
	return out
}
