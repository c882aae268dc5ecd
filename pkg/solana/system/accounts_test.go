package system

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRent_MinimumBalance(t *testing.T) {
	rent := DefaultRent()

	assert.EqualValues(t, 890_880, rent.MinimumBalance(0))
	assert.EqualValues(t, (128+74)*3480*2, rent.MinimumBalance(74))
	assert.EqualValues(t, 2_039_280, rent.MinimumBalance(165))

	assert.True(t, rent.IsExempt(rent.MinimumBalance(74), 74))
	assert.False(t, rent.IsExempt(rent.MinimumBalance(74)-1, 74))

	free := Rent{LamportsPerByteYear: 0, ExemptionThreshold: 2}
	assert.True(t, free.IsExempt(0, 1024))

	huge := Rent{LamportsPerByteYear: math.MaxUint64, ExemptionThreshold: 2}
	assert.EqualValues(t, uint64(math.MaxUint64), huge.MinimumBalance(1))
}

func TestRent_RoundTrip(t *testing.T) {
	expected := Rent{
		LamportsPerByteYear: 1234,
		ExemptionThreshold:  1.5,
		BurnPercent:         25,
	}

	data := expected.Marshal()
	require.Len(t, data, RentSize)

	var actual Rent
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, actual)

	assert.Equal(t, ErrInvalidRentSize, actual.Unmarshal(data[:RentSize-1]))
	assert.Equal(t, ErrInvalidRentSize, actual.Unmarshal(append(data, 0)))
}
