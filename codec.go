package fpe

import (
	"fmt"
	"strings"

	"github.com/drunkblues/fpe/subtle"
)

// Codec binds an alphabet to the digit API: each character of the alphabet
// is a numeral, in order, so the radix is the alphabet length. Alphabet
// characters must be distinct.
type Codec struct {
	runes []rune
	index map[rune]uint16
}

// NewCodec builds a codec from an alphabet of distinct characters. The
// alphabet length becomes the radix and must be in [2, 65536].
func NewCodec(alphabet string) (*Codec, error) {
	runes := []rune(alphabet)
	if len(runes) < subtle.MinRadix || len(runes) > subtle.MaxRadix {
		return nil, fmt.Errorf("%w: alphabet must have between %d and %d characters, got %d",
			ErrInvalidArgument, subtle.MinRadix, subtle.MaxRadix, len(runes))
	}
	index := make(map[rune]uint16, len(runes))
	for i, r := range runes {
		if _, dup := index[r]; dup {
			return nil, fmt.Errorf("%w: duplicate alphabet character %q", ErrInvalidArgument, r)
		}
		index[r] = uint16(i)
	}
	return &Codec{runes: runes, index: index}, nil
}

// Radix returns the alphabet size.
func (c *Codec) Radix() int { return len(c.runes) }

// Encode converts a string into its numeral string. Characters outside the
// alphabet are rejected.
func (c *Codec) Encode(s string) ([]uint16, error) {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		d, ok := c.index[r]
		if !ok {
			return nil, fmt.Errorf("%w: character %q is not in the alphabet", ErrInvalidArgument, r)
		}
		out = append(out, d)
	}
	return out, nil
}

// Decode converts a numeral string back into a string over the alphabet.
func (c *Codec) Decode(x []uint16) (string, error) {
	var b strings.Builder
	for i, d := range x {
		if int(d) >= len(c.runes) {
			return "", fmt.Errorf("%w: numeral %d at position %d is not below radix %d", ErrInvalidArgument, d, i, len(c.runes))
		}
		b.WriteRune(c.runes[d])
	}
	return b.String(), nil
}

// EncryptString encrypts in over the given alphabet, whose length must equal
// the context radix. The result has the same length and alphabet as the
// input.
func (c *Context) EncryptString(alphabet, in string, tweak []byte) (string, error) {
	return c.cryptString(alphabet, in, tweak, true)
}

// DecryptString inverts EncryptString for the same alphabet and tweak.
func (c *Context) DecryptString(alphabet, in string, tweak []byte) (string, error) {
	return c.cryptString(alphabet, in, tweak, false)
}

func (c *Context) cryptString(alphabet, in string, tweak []byte, enc bool) (string, error) {
	codec, err := NewCodec(alphabet)
	if err != nil {
		return "", err
	}
	if codec.Radix() != c.radix {
		return "", fmt.Errorf("%w: alphabet has %d characters, context radix is %d", ErrInvalidArgument, codec.Radix(), c.radix)
	}
	x, err := codec.Encode(in)
	if err != nil {
		return "", err
	}
	var y []uint16
	if enc {
		y, err = c.Encrypt(x, tweak)
	} else {
		y, err = c.Decrypt(x, tweak)
	}
	if err != nil {
		return "", err
	}
	return codec.Decode(y)
}
