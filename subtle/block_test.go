package subtle

import (
	"crypto/aes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlockAES(t *testing.T) {
	for _, size := range []int{16, 24, 32} {
		block, err := NewBlock(AES, make([]byte, size))
		require.NoError(t, err, "key size %d", size)
		assert.Equal(t, blockSize, block.BlockSize())
	}

	_, err := NewBlock(AES, make([]byte, 8))
	assert.ErrorIs(t, err, ErrKeyLength)
	_, err = NewBlock(AES, nil)
	assert.ErrorIs(t, err, ErrKeyLength)
}

func TestNewBlockSM4(t *testing.T) {
	block, err := NewBlock(SM4, make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, blockSize, block.BlockSize())

	_, err = NewBlock(SM4, make([]byte, 24))
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	_, err = NewBlock(SM4, make([]byte, 32))
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestNewBlockUnknownAlgorithm(t *testing.T) {
	_, err := NewBlock(Algorithm(99), make([]byte, 16))
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

// NewReversedBlock must bind on reverse(K) while leaving the caller's key
// buffer alone.
func TestNewReversedBlock(t *testing.T) {
	key := make([]byte, 16)
	for i := range key {
		key[i] = byte(i)
	}
	keyCopy := append([]byte(nil), key...)

	reversed, err := NewReversedBlock(AES, key)
	require.NoError(t, err)
	assert.Equal(t, keyCopy, key)

	manual := append([]byte(nil), key...)
	direct, err := aes.NewCipher(revBytes(manual))
	require.NoError(t, err)

	in := make([]byte, blockSize)
	for i := range in {
		in[i] = byte(0xA0 + i)
	}
	want := make([]byte, blockSize)
	got := make([]byte, blockSize)
	direct.Encrypt(want, in)
	reversed.Encrypt(got, in)
	assert.Equal(t, want, got)
}
