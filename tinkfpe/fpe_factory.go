// This file contains the factory function for creating FPE primitives from
// Tink keyset handles.
package tinkfpe

import (
	"fmt"

	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"

	"github.com/drunkblues/fpe"
)

// AlphabetAlphanumeric is the default working alphabet for Tink primitives:
// digits then upper then lower case, radix 62.
const AlphabetAlphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Params selects the construction a primitive runs. The zero value means
// FF1 over AlphabetAlphanumeric with an empty tweak.
type Params struct {
	// Mode defaults to fpe.ModeFF1.
	Mode fpe.Mode
	// Alphabet defaults to AlphabetAlphanumeric. Its length is the radix.
	Alphabet string
	// Tweak is bound into every Tokenize/Detokenize call. FF1 accepts any
	// length; FF3 takes 8 bytes (or 7), FF3-1 takes 7 bytes (or 8).
	Tweak []byte
}

func (p Params) withDefaults() Params {
	if p.Mode == 0 {
		p.Mode = fpe.ModeFF1
	}
	if p.Alphabet == "" {
		p.Alphabet = AlphabetAlphanumeric
	}
	return p
}

// New creates a new FPE primitive from a Tink keyset handle.
//
// Example:
//
//	handle, err := keyset.NewHandle(tinkfpe.KeyTemplate())
//	if err != nil {
//	    return err
//	}
//	primitive, err := tinkfpe.New(handle, tinkfpe.Params{Tweak: []byte("tenant-1234")})
//	if err != nil {
//	    return err
//	}
//	token, err := primitive.Tokenize("123-45-6789")
func New(handle *keyset.Handle, params Params) (fpe.FPE, error) {
	if handle == nil {
		return nil, fmt.Errorf("keyset handle cannot be nil")
	}

	keyBytes, err := primaryKeyBytes(handle)
	if err != nil {
		return nil, err
	}
	return newPrimitive(keyBytes, params)
}

// primaryKeyBytes extracts the primary key material from an unencrypted
// keyset handle.
func primaryKeyBytes(handle *keyset.Handle) ([]byte, error) {
	ks := insecurecleartextkeyset.KeysetMaterial(handle)
	for _, key := range ks.GetKey() {
		if key.GetKeyId() != ks.GetPrimaryKeyId() {
			continue
		}
		keyData := key.GetKeyData()
		if keyData == nil {
			continue
		}
		if keyData.GetKeyMaterialType() != symmetricKeyMaterial {
			return nil, fmt.Errorf("primary key %d is not symmetric raw key material", key.GetKeyId())
		}
		return keyData.GetValue(), nil
	}
	return nil, fmt.Errorf("no primary key found in keyset")
}

// primitive implements fpe.FPE over a raw key. Every call runs the one-shot
// path, so no long-lived key copy outlives the operation.
type primitive struct {
	key    []byte
	params Params
}

func newPrimitive(key []byte, params Params) (*primitive, error) {
	params = params.withDefaults()
	if _, err := fpe.NewCodec(params.Alphabet); err != nil {
		return nil, err
	}
	return &primitive{key: key, params: params}, nil
}

// Tokenize encrypts plaintext while preserving format characters (hyphens,
// dots, at signs) in place. Only the data characters are enciphered.
func (p *primitive) Tokenize(plaintext string) (string, error) {
	formatMask, dataChars := fpe.SeparateFormatAndData(plaintext)

	ctx, err := fpe.NewContext(p.params.Mode, fpe.AES, p.key, len([]rune(p.params.Alphabet)))
	if err != nil {
		return "", err
	}
	defer ctx.Close()

	tokenized, err := ctx.EncryptString(p.params.Alphabet, dataChars, p.params.Tweak)
	if err != nil {
		return "", fmt.Errorf("failed to tokenize: %w", err)
	}
	return fpe.ReconstructWithFormat(tokenized, formatMask, plaintext), nil
}

// Detokenize decrypts a value produced by Tokenize under the same key,
// parameters and tweak.
func (p *primitive) Detokenize(token string) (string, error) {
	formatMask, dataChars := fpe.SeparateFormatAndData(token)

	ctx, err := fpe.NewContext(p.params.Mode, fpe.AES, p.key, len([]rune(p.params.Alphabet)))
	if err != nil {
		return "", err
	}
	defer ctx.Close()

	plain, err := ctx.DecryptString(p.params.Alphabet, dataChars, p.params.Tweak)
	if err != nil {
		return "", fmt.Errorf("failed to detokenize: %w", err)
	}
	return fpe.ReconstructWithFormat(plain, formatMask, token), nil
}

// Verify that primitive implements fpe.FPE
var _ fpe.FPE = (*primitive)(nil)
