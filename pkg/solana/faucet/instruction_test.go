package faucet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/token-faucet/pkg/solana/system"
	"github.com/code-payments/token-faucet/pkg/solana/token"
	"github.com/code-payments/token-faucet/pkg/testutil"
)

func TestDecodeInstruction_RoundTrip(t *testing.T) {
	for _, expected := range []Instruction{
		&InitializeInstructionArgs{AmountPerRequest: 100, IsClosable: true},
		&InitializeInstructionArgs{AmountPerRequest: ^uint64(0), IsClosable: false},
		&RequestTokensInstructionArgs{Amount: 0},
		&RequestTokensInstructionArgs{Amount: 1 << 40},
		&CloseAccountInstructionArgs{},
	} {
		actual, err := DecodeInstruction(expected.Marshal())
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		assert.Equal(t, expected.Command(), actual.Command())
	}
}

func TestDecodeInstruction_Layout(t *testing.T) {
	data := (&InitializeInstructionArgs{AmountPerRequest: 0x0102, IsClosable: true}).Marshal()
	assert.Equal(t, []byte{0, 0x02, 0x01, 0, 0, 0, 0, 0, 0, 1}, data)

	data = (&RequestTokensInstructionArgs{Amount: 50}).Marshal()
	assert.Equal(t, []byte{1, 50, 0, 0, 0, 0, 0, 0, 0}, data)

	data = (&CloseAccountInstructionArgs{}).Marshal()
	assert.Equal(t, []byte{2}, data)
}

func TestDecodeInstruction_Invalid(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		{},
		{3},
		{0xff, 1, 2, 3},
		{0, 1, 0, 0, 0, 0, 0, 0, 0},       // truncated
		{0, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0}, // trailing
		{0, 1, 0, 0, 0, 0, 0, 0, 0, 2},    // non-canonical bool
		{1, 1, 0, 0, 0, 0, 0, 0},
		{1, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		{2, 0},
	} {
		instruction, err := DecodeInstruction(data)
		assert.Equal(t, ErrInvalidInstruction, err, data)
		assert.Nil(t, instruction)
	}

	// Never panics for any short buffer
	for n := 0; n < 16; n++ {
		for tag := 0; tag < 4; tag++ {
			data := make([]byte, n)
			if n > 0 {
				data[0] = byte(tag)
			}
			assert.NotPanics(t, func() {
				_, _ = DecodeInstruction(data)
			})
		}
	}
}

func TestInstructionBuilders(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 6)
	program := keys[0]

	initialize := NewInitializeInstruction(
		program,
		&InitializeInstructionAccounts{
			Pool:      keys[1],
			Mint:      keys[2],
			Authority: keys[3],
		},
		&InitializeInstructionArgs{AmountPerRequest: 100, IsClosable: true},
	)
	assert.Equal(t, program, initialize.Program)
	require.Len(t, initialize.Accounts, 4)
	assert.Equal(t, keys[1], initialize.Accounts[0].PublicKey)
	assert.True(t, initialize.Accounts[0].IsWritable)
	assert.Equal(t, keys[2], initialize.Accounts[1].PublicKey)
	assert.Equal(t, keys[3], initialize.Accounts[2].PublicKey)
	assert.Equal(t, system.RentSysVar, initialize.Accounts[3].PublicKey)
	for _, account := range initialize.Accounts {
		assert.False(t, account.IsSigner)
	}

	request := NewRequestTokensInstruction(
		program,
		&RequestTokensInstructionAccounts{
			MintAuthority: keys[4],
			Pool:          keys[1],
			Mint:          keys[2],
			Destination:   keys[5],
		},
		&RequestTokensInstructionArgs{Amount: 50},
	)
	require.Len(t, request.Accounts, 5)
	assert.Equal(t, keys[4], request.Accounts[0].PublicKey)
	assert.False(t, request.Accounts[1].IsWritable)
	assert.True(t, request.Accounts[2].IsWritable)
	assert.True(t, request.Accounts[3].IsWritable)
	assert.Equal(t, token.ProgramKey, request.Accounts[4].PublicKey)

	decoded, err := DecodeInstruction(request.Data)
	require.NoError(t, err)
	assert.Equal(t, &RequestTokensInstructionArgs{Amount: 50}, decoded)

	closeAccount := NewCloseAccountInstruction(
		program,
		&CloseAccountInstructionAccounts{
			Authority:   keys[3],
			Pool:        keys[1],
			Destination: keys[3],
		},
	)
	require.Len(t, closeAccount.Accounts, 3)
	assert.True(t, closeAccount.Accounts[0].IsSigner)
	assert.True(t, closeAccount.Accounts[1].IsWritable)
	assert.True(t, closeAccount.Accounts[2].IsWritable)
	assert.Equal(t, []byte{2}, closeAccount.Data)
}
