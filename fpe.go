// Package fpe implements Format-Preserving Encryption (FPE) with the FF1,
// FF3 and FF3-1 constructions over AES-128/192/256 or SM4-128.
//
// Encryption maps a sequence of numerals drawn from an alphabet of radix r
// to a sequence of the same length over the same alphabet. The package works
// at two levels: a digit API over []uint16 numeral strings, and a string
// convenience layer that binds a user alphabet (see Codec, EncryptString).
//
// The package includes Tink-compatible primitives (see tinkfpe). While Tink
// doesn't natively support FPE, the tinkfpe package follows Tink's design
// patterns and integrates with Tink's key management system.
//
// Example usage:
//
//	key, _ := hex.DecodeString("EF4359D8D580AA4F7F036D6F04FC6A94")
//	tweak, _ := hex.DecodeString("D8E7920AFA330A73")
//
//	ctx, err := fpe.NewContext(fpe.ModeFF3, fpe.AES, key, 10)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	ciphertext, err := ctx.EncryptString("0123456789", "890121234567890000", tweak)
//	if err != nil {
//		log.Fatal(err)
//	}
//	// ciphertext has the same length and alphabet as the input.
//
// The FF1 engine derives its round PRF from CBC-MAC over the raw block
// cipher rather than AES-CMAC, so its ciphertexts do not match the NIST FF1
// sample vectors; round-trip, permutation and tweak-separation properties
// are unaffected.
package fpe

import (
	"fmt"

	"github.com/awnumar/memguard"

	"github.com/drunkblues/fpe/subtle"
)

// Mode selects the Feistel construction.
type Mode int

const (
	// ModeFF1 is the 10-round construction with an arbitrary-length tweak.
	ModeFF1 Mode = iota + 1
	// ModeFF3 is the 8-round construction with a 64-bit tweak. Deprecated
	// by NIST; kept for data encrypted before the FF3-1 revision.
	ModeFF3
	// ModeFF31 is the 8-round construction with a 56-bit tweak.
	ModeFF31
)

func (m Mode) String() string {
	switch m {
	case ModeFF1:
		return "FF1"
	case ModeFF3:
		return "FF3"
	case ModeFF31:
		return "FF3-1"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Algorithm selects the block cipher. Re-exported from subtle so callers
// never import the low-level package.
type Algorithm = subtle.Algorithm

const (
	// AES accepts 128, 192 or 256 bit keys.
	AES = subtle.AES
	// SM4 accepts 128 bit keys only.
	SM4 = subtle.SM4
)

// Context is an immutable configuration binding a mode, a block cipher and a
// radix. It is created once and used for many encrypt/decrypt calls, and is
// safe for concurrent use until Close.
//
// Close wipes the retained key material; a Context must not be copied.
type Context struct {
	mode      Mode
	algorithm Algorithm
	radix     int
	key       []byte

	ff1  *subtle.FF1
	ff3  *subtle.FF3
	ff31 *subtle.FF31

	closed bool
}

// NewContext builds a context for the given mode, cipher, raw key and radix.
// The key is copied; the caller's buffer is never retained. For FF3 and
// FF3-1 the cipher is bound on the byte-reversed key as those modes require.
func NewContext(mode Mode, algorithm Algorithm, key []byte, radix int) (*Context, error) {
	switch algorithm {
	case AES, SM4:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, algorithm)
	}
	switch len(key) {
	case 16:
	case 24, 32:
		if algorithm == SM4 {
			return nil, fmt.Errorf("%w: SM4 takes a 128 bit key, got %d bits", ErrUnsupported, len(key)*8)
		}
	default:
		return nil, fmt.Errorf("%w: key must be 128, 192, or 256 bits, got %d", ErrInvalidArgument, len(key)*8)
	}
	if radix < subtle.MinRadix || radix > subtle.MaxRadix {
		return nil, fmt.Errorf("%w: radix must be in [%d, %d], got %d", ErrInvalidArgument, subtle.MinRadix, subtle.MaxRadix, radix)
	}

	ctx := &Context{
		mode:      mode,
		algorithm: algorithm,
		radix:     radix,
		key:       append([]byte(nil), key...),
	}

	var err error
	switch mode {
	case ModeFF1:
		block, berr := subtle.NewBlock(algorithm, ctx.key)
		if berr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternalCipher, berr)
		}
		ctx.ff1, err = subtle.NewFF1(block, radix)
	case ModeFF3:
		block, berr := subtle.NewReversedBlock(algorithm, ctx.key)
		if berr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternalCipher, berr)
		}
		ctx.ff3, err = subtle.NewFF3(block, radix)
	case ModeFF31:
		block, berr := subtle.NewReversedBlock(algorithm, ctx.key)
		if berr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternalCipher, berr)
		}
		ctx.ff31, err = subtle.NewFF31(block, radix)
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalCipher, err)
	}
	return ctx, nil
}

// Mode returns the Feistel construction the context was built for.
func (c *Context) Mode() Mode { return c.mode }

// Algorithm returns the block cipher the context was built for.
func (c *Context) Algorithm() Algorithm { return c.algorithm }

// Radix returns the alphabet size the context was built for.
func (c *Context) Radix() int { return c.radix }

// Close wipes the retained key material. The wipe is performed with
// memguard so the write cannot be elided. Close is idempotent; every call
// after the first is a no-op. Using a closed context returns
// ErrInvalidArgument.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	memguard.WipeBytes(c.key)
	c.ff1, c.ff3, c.ff31 = nil, nil, nil
	c.closed = true
	return nil
}

// Encrypt maps the numeral string x to a same-length numeral string over the
// same radix, under the given tweak. On failure nothing is written and the
// context is unchanged.
//
// Tweak constraints: FF1 accepts any length including nil; FF3 accepts 8
// bytes (or 7, zero-padded on the right); FF3-1 accepts 7 bytes (or 8, with
// the final byte discarded).
//
// Length constraints: x must hold between 2 and 256 numerals; for FF3 and
// FF3-1 the upper bound is further capped at 2*floor(96/log2(radix))
// (subtle.MaxLengthFF3).
func (c *Context) Encrypt(x []uint16, tweak []byte) ([]uint16, error) {
	return c.crypt(x, tweak, true)
}

// Decrypt inverts Encrypt for the same tweak.
func (c *Context) Decrypt(x []uint16, tweak []byte) ([]uint16, error) {
	return c.crypt(x, tweak, false)
}

func (c *Context) crypt(x []uint16, tweak []byte, enc bool) ([]uint16, error) {
	if c.closed {
		return nil, fmt.Errorf("%w: context is closed", ErrInvalidArgument)
	}
	if err := c.checkInput(x, tweak); err != nil {
		return nil, err
	}

	var (
		out []uint16
		err error
	)
	switch {
	case c.ff1 != nil && enc:
		out, err = c.ff1.Encrypt(x, tweak)
	case c.ff1 != nil:
		out, err = c.ff1.Decrypt(x, tweak)
	case c.ff3 != nil && enc:
		out, err = c.ff3.Encrypt(x, tweak)
	case c.ff3 != nil:
		out, err = c.ff3.Decrypt(x, tweak)
	case c.ff31 != nil && enc:
		out, err = c.ff31.Encrypt(x, tweak)
	default:
		out, err = c.ff31.Decrypt(x, tweak)
	}
	if err != nil {
		// All parameters were validated above, so an engine failure can
		// only come from the primitive itself.
		return nil, fmt.Errorf("%w: %v", ErrInternalCipher, err)
	}
	return out, nil
}

// checkInput applies the mode's parameter constraints so that validation
// failures are classified before the engine runs.
func (c *Context) checkInput(x []uint16, tweak []byte) error {
	n := len(x)
	maxLen := subtle.MaxLength
	if c.mode == ModeFF3 || c.mode == ModeFF31 {
		maxLen = subtle.MaxLengthFF3(c.radix)
	}
	if n < subtle.MinLength || n > maxLen {
		return fmt.Errorf("%w: length must be in [%d, %d] for %v radix %d, got %d",
			ErrInvalidArgument, subtle.MinLength, maxLen, c.mode, c.radix, n)
	}
	for i, d := range x {
		if int(d) >= c.radix {
			return fmt.Errorf("%w: numeral %d at position %d is not below radix %d", ErrInvalidArgument, d, i, c.radix)
		}
	}
	switch c.mode {
	case ModeFF3:
		if len(tweak) != subtle.TweakLenFF3 && len(tweak) != subtle.TweakLenFF3-1 {
			return fmt.Errorf("%w: FF3 tweak must be 8 (or 7) bytes, got %d", ErrInvalidArgument, len(tweak))
		}
	case ModeFF31:
		if len(tweak) != subtle.TweakLenFF31 && len(tweak) != subtle.TweakLenFF31+1 {
			return fmt.Errorf("%w: FF3-1 tweak must be 7 (or 8) bytes, got %d", ErrInvalidArgument, len(tweak))
		}
	}
	return nil
}

// Encrypt is the one-shot digit API: it builds a context, encrypts once and
// wipes the key copy before returning.
func Encrypt(mode Mode, algorithm Algorithm, key []byte, radix int, x []uint16, tweak []byte) ([]uint16, error) {
	ctx, err := NewContext(mode, algorithm, key, radix)
	if err != nil {
		return nil, err
	}
	defer ctx.Close()
	return ctx.Encrypt(x, tweak)
}

// Decrypt is the one-shot inverse of Encrypt.
func Decrypt(mode Mode, algorithm Algorithm, key []byte, radix int, x []uint16, tweak []byte) ([]uint16, error) {
	ctx, err := NewContext(mode, algorithm, key, radix)
	if err != nil {
		return nil, err
	}
	defer ctx.Close()
	return ctx.Decrypt(x, tweak)
}
