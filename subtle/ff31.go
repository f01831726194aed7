package subtle

import (
	"crypto/cipher"
	"fmt"
)

// FF31 is the 8-round Feistel engine with a 56-bit tweak. It is identical to
// FF3 except that the tweak halves are split at the nibble, which keeps the
// two tweak domains disjoint and closes the FF3 distinguishing attack.
//
// An FF31 value is safe for concurrent use: the bound cipher is read-only
// after key expansion and all round state is allocated per call.
type FF31 struct {
	core feistel8
}

// NewFF31 returns an FF3-1 engine. The block must be bound on the
// byte-reversed key (see NewReversedBlock).
func NewFF31(block cipher.Block, radix int) (*FF31, error) {
	core, err := newFeistel8(block, radix)
	if err != nil {
		return nil, err
	}
	return &FF31{core: core}, nil
}

// Radix returns the radix the engine was built for.
func (f *FF31) Radix() int { return f.core.radix }

// Encrypt maps the numeral string x to a same-length numeral string over the
// same radix. The tweak must be 7 bytes; 8 bytes are accepted and the final
// byte is discarded.
func (f *FF31) Encrypt(x []uint16, tweak []byte) ([]uint16, error) {
	tl, tr, err := splitTweakFF31(tweak)
	if err != nil {
		return nil, err
	}
	return f.core.crypt(x, tl, tr, true)
}

// Decrypt inverts Encrypt for the same tweak.
func (f *FF31) Decrypt(x []uint16, tweak []byte) ([]uint16, error) {
	tl, tr, err := splitTweakFF31(tweak)
	if err != nil {
		return nil, err
	}
	return f.core.crypt(x, tl, tr, false)
}

// splitTweakFF31 splits the 56-bit tweak at the nibble:
//
//	Tl = { T[0], T[1], T[2], T[3] & 0xF0 }
//	Tr = { T[3] & 0x0F, T[4], T[5], T[6] }
func splitTweakFF31(tweak []byte) (tl, tr []byte, err error) {
	switch len(tweak) {
	case TweakLenFF31, TweakLenFF31 + 1:
	default:
		return nil, nil, fmt.Errorf("%w: FF3-1 takes 7 (or 8) bytes, got %d", ErrTweakLength, len(tweak))
	}
	tl = []byte{tweak[0], tweak[1], tweak[2], tweak[3] & 0xF0}
	tr = []byte{tweak[3] & 0x0F, tweak[4], tweak[5], tweak[6]}
	return tl, tr, nil
}
