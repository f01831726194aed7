package subtle

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNum(t *testing.T) {
	x := []uint16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	assert.Equal(t, big.NewInt(123456789), num(x, 10))
	assert.Equal(t, big.NewInt(28365650969), num(x, 20))
}

func TestNumRev(t *testing.T) {
	x := []uint16{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}

	assert.Equal(t, num([]uint16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 10), numRev(x, 10))
	assert.Equal(t, big.NewInt(0), numRev([]uint16{0, 0, 0}, 36))
}

func TestStr(t *testing.T) {
	out := make([]uint16, 10)
	str(big.NewInt(123456789), 10, 10, out)
	assert.Equal(t, []uint16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, out)

	// Largest value of the widest radix.
	m := 4
	max := pow(MaxRadix, m)
	max.Sub(max, big.NewInt(1))
	out = make([]uint16, m)
	str(max, MaxRadix, m, out)
	for _, d := range out {
		assert.Equal(t, uint16(MaxRadix-1), d)
	}
}

func TestStrRev(t *testing.T) {
	out := make([]uint16, 10)
	strRev(big.NewInt(123456789), 10, 10, out)
	assert.Equal(t, []uint16{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, out)
}

func TestNumStrRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		radix := 2 + rng.Intn(MaxRadix-1)
		m := 2 + rng.Intn(30)
		x := make([]uint16, m)
		for j := range x {
			x[j] = uint16(rng.Intn(radix))
		}

		out := make([]uint16, m)
		str(num(x, radix), radix, m, out)
		require.Equal(t, x, out, "radix %d", radix)

		strRev(numRev(x, radix), radix, m, out)
		require.Equal(t, x, out, "radix %d reversed", radix)
	}
}

func TestNumRevIsNumOfReversed(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 100; i++ {
		radix := 2 + rng.Intn(1000)
		x := make([]uint16, 2+rng.Intn(20))
		for j := range x {
			x[j] = uint16(rng.Intn(radix))
		}

		rev := make([]uint16, len(x))
		for j := range x {
			rev[j] = x[len(x)-1-j]
		}
		assert.Equal(t, num(rev, radix), numRev(x, radix))
	}
}

func TestDigitsValid(t *testing.T) {
	assert.True(t, digitsValid([]uint16{0, 9}, 10))
	assert.False(t, digitsValid([]uint16{0, 10}, 10))
	assert.True(t, digitsValid(nil, 2))
}

func TestRevBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	assert.Equal(t, []byte{4, 3, 2, 1}, revBytes(b))

	odd := []byte{1, 2, 3}
	assert.Equal(t, []byte{3, 2, 1}, revBytes(odd))
}
