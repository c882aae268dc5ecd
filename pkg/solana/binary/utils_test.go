package binary

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	key, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	amount := uint64(42)

	b := make([]byte, 32+1+8+8+4+36+12)

	var offset int
	PutKey32(b[offset:], key, &offset)
	PutBool(b[offset:], true, &offset)
	PutUint64(b[offset:], 1<<60, &offset)
	PutFloat64(b[offset:], 2.5, &offset)
	PutUint32(b[offset:], 7, &offset)
	PutOptionalKey32(b[offset:], key, &offset, 4)
	PutOptionalUint64(b[offset:], &amount, &offset, 4)
	require.Equal(t, len(b), offset)

	var (
		actualKey      ed25519.PublicKey
		actualOptKey   ed25519.PublicKey
		actualBool     bool
		actualUint64   uint64
		actualFloat64  float64
		actualUint32   uint32
		actualOptional *uint64
	)

	offset = 0
	GetKey32(b[offset:], &actualKey, &offset)
	GetBool(b[offset:], &actualBool, &offset)
	GetUint64(b[offset:], &actualUint64, &offset)
	GetFloat64(b[offset:], &actualFloat64, &offset)
	GetUint32(b[offset:], &actualUint32, &offset)
	GetOptionalKey32(b[offset:], &actualOptKey, &offset, 4)
	GetOptionalUint64(b[offset:], &actualOptional, &offset, 4)
	require.Equal(t, len(b), offset)

	assert.EqualValues(t, key, actualKey)
	assert.EqualValues(t, key, actualOptKey)
	assert.True(t, actualBool)
	assert.EqualValues(t, 1<<60, actualUint64)
	assert.Equal(t, 2.5, actualFloat64)
	assert.EqualValues(t, 7, actualUint32)
	require.NotNil(t, actualOptional)
	assert.EqualValues(t, amount, *actualOptional)
}

func TestGetBool_NonZero(t *testing.T) {
	var v bool
	var offset int
	GetBool([]byte{2}, &v, &offset)
	assert.True(t, v)
	assert.Equal(t, 1, offset)

	GetBool([]byte{0}, &v, &offset)
	assert.False(t, v)
}

func TestOptional_Empty(t *testing.T) {
	b := make([]byte, 36+12)

	var offset int
	PutOptionalKey32(b[offset:], nil, &offset, 4)
	PutOptionalUint64(b[offset:], nil, &offset, 4)

	var key ed25519.PublicKey
	var amount *uint64

	offset = 0
	GetOptionalKey32(b[offset:], &key, &offset, 4)
	GetOptionalUint64(b[offset:], &amount, &offset, 4)
	assert.Nil(t, key)
	assert.Nil(t, amount)
	assert.Equal(t, len(b), offset)
}
