package subtle

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/emmansun/gmsm/sm4"
)

// Algorithm selects the 128-bit block cipher backing an FPE engine.
type Algorithm int

const (
	// AES accepts 128, 192 or 256 bit keys.
	AES Algorithm = iota + 1
	// SM4 accepts 128 bit keys only.
	SM4
)

// blockSize is the block size of every supported cipher (16 bytes).
const blockSize = 16

var (
	// ErrUnsupportedAlgorithm is returned for an unknown cipher choice or an
	// algorithm/key-size combination that is not built.
	ErrUnsupportedAlgorithm = errors.New("algorithm/key size combination not supported")

	// ErrKeyLength is returned when the key length does not match any key
	// size of the chosen cipher.
	ErrKeyLength = errors.New("key length must be 128, 192, or 256 bits")
)

func (a Algorithm) String() string {
	switch a {
	case AES:
		return "AES"
	case SM4:
		return "SM4"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// NewBlock returns the ECB oracle for the given cipher bound on key.
// The key is used as-is; callers that need the reversed-key binding of
// FF3/FF3-1 use NewReversedBlock.
func NewBlock(algorithm Algorithm, key []byte) (cipher.Block, error) {
	switch algorithm {
	case AES:
		switch len(key) {
		case 16, 24, 32:
			return aes.NewCipher(key)
		default:
			return nil, fmt.Errorf("%w: got %d bytes", ErrKeyLength, len(key))
		}
	case SM4:
		if len(key) != 16 {
			return nil, fmt.Errorf("%w: SM4 takes a 128 bit key, got %d bytes", ErrUnsupportedAlgorithm, len(key))
		}
		return sm4.NewCipher(key)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

// NewReversedBlock returns the ECB oracle bound on the byte-reversed key, as
// FF3 and FF3-1 require. The caller's key buffer is left untouched.
func NewReversedBlock(algorithm Algorithm, key []byte) (cipher.Block, error) {
	rk := make([]byte, len(key))
	copy(rk, key)
	return NewBlock(algorithm, revBytes(rk))
}
