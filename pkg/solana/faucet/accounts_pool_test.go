package faucet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/token-faucet/pkg/testutil"
)

func TestPoolAccount_RoundTrip(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)

	for _, expected := range []PoolAccount{
		{
			IsInitialized:    true,
			Mint:             keys[0],
			Authority:        keys[1],
			AmountPerRequest: 100,
			IsClosable:       true,
		},
		{
			IsInitialized:    true,
			Mint:             keys[1],
			Authority:        keys[0],
			AmountPerRequest: ^uint64(0),
		},
	} {
		data := expected.Marshal()
		require.Len(t, data, PoolAccountSize)

		var actual PoolAccount
		require.NoError(t, actual.Unmarshal(data))
		assert.Equal(t, expected, actual)
		assert.Equal(t, expected.String(), actual.String())
	}
}

func TestPoolAccount_Layout(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)

	pool := PoolAccount{
		IsInitialized:    true,
		Mint:             keys[0],
		Authority:        keys[1],
		AmountPerRequest: 0x0102,
		IsClosable:       true,
	}
	data := pool.Marshal()

	assert.Equal(t, 74, PoolAccountSize)
	assert.EqualValues(t, 1, data[0])
	assert.EqualValues(t, keys[0], data[1:33])
	assert.EqualValues(t, keys[1], data[33:65])
	assert.Equal(t, []byte{0x02, 0x01, 0, 0, 0, 0, 0, 0}, data[65:73])
	assert.EqualValues(t, 1, data[73])
}

func TestPoolAccount_Unmarshal(t *testing.T) {
	var pool PoolAccount

	assert.Equal(t, ErrIncorrectInitializationData, pool.Unmarshal(nil))
	assert.Equal(t, ErrIncorrectInitializationData, pool.Unmarshal(make([]byte, PoolAccountSize-1)))
	assert.Equal(t, ErrIncorrectInitializationData, pool.Unmarshal(make([]byte, PoolAccountSize+1)))

	// Zeroed data decodes as an uninitialized pool
	require.NoError(t, pool.Unmarshal(make([]byte, PoolAccountSize)))
	assert.False(t, pool.IsInitialized)
	assert.False(t, pool.IsClosable)
	assert.Zero(t, pool.AmountPerRequest)

	// Any non-zero flag byte is true
	data := make([]byte, PoolAccountSize)
	data[0] = 7
	data[73] = 0xff
	require.NoError(t, pool.Unmarshal(data))
	assert.True(t, pool.IsInitialized)
	assert.True(t, pool.IsClosable)
}
