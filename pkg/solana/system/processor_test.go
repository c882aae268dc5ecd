package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/token-faucet/pkg/solana"
	"github.com/code-payments/token-faucet/pkg/testutil"
)

func TestProcessor_CreateAccount(t *testing.T) {
	owner := generateKeys(t, 1)[0]
	rent := DefaultRent()

	newEnv := func() (*testutil.InvokeContext, *solana.AccountInfo, *solana.AccountInfo) {
		funder := testutil.NewAccountInfo(t, ProgramKey[:], 10_000_000, nil)
		funder.IsSigner = true
		created := testutil.NewAccountInfo(t, ProgramKey[:], 0, nil)
		created.IsSigner = true

		return &testutil.InvokeContext{
			Program:        ProgramKey[:],
			AccountInfos:   []*solana.AccountInfo{funder, created},
			MinimumBalance: rent.MinimumBalance,
		}, funder, created
	}

	ctx, funder, created := newEnv()
	ix := CreateAccount(funder.Key, created.Key, owner, rent.MinimumBalance(74), 74)
	require.NoError(t, NewProcessor().Process(ctx, ix.Data))
	assert.EqualValues(t, 10_000_000-rent.MinimumBalance(74), funder.Lamports)
	assert.Equal(t, rent.MinimumBalance(74), created.Lamports)
	assert.Len(t, created.Data, 74)
	assert.True(t, created.IsOwnedBy(owner))
	assert.Len(t, ctx.Logs, 1)

	// Reusing the account fails
	created.Owner = ProgramKey[:]
	err := NewProcessor().Process(ctx, ix.Data)
	assert.Equal(t, ErrorAccountAlreadyInUse, err)

	ctx, funder, created = newEnv()
	ix = CreateAccount(funder.Key, created.Key, owner, rent.MinimumBalance(74)-1, 74)
	err = NewProcessor().Process(ctx, ix.Data)
	assert.ErrorIs(t, err, solana.InstructionErrorInsufficientFunds)
	assert.Zero(t, created.Lamports)

	ctx, funder, created = newEnv()
	ix = CreateAccount(funder.Key, created.Key, owner, 20_000_000, 0)
	assert.Equal(t, ErrorResultWithNegativeLamports, NewProcessor().Process(ctx, ix.Data))

	ctx, funder, created = newEnv()
	created.IsSigner = false
	ix = CreateAccount(funder.Key, created.Key, owner, rent.MinimumBalance(0), 0)
	assert.Equal(t, solana.InstructionErrorMissingRequiredSignature, NewProcessor().Process(ctx, ix.Data))

	ctx, funder, created = newEnv()
	ix = CreateAccount(funder.Key, created.Key, owner, 1, MaxAccountDataSize+1)
	assert.Equal(t, ErrorInvalidAccountDataLength, NewProcessor().Process(ctx, ix.Data))

	ctx.AccountInfos = ctx.AccountInfos[:1]
	assert.Equal(t, solana.InstructionErrorNotEnoughAccountKeys, NewProcessor().Process(ctx, ix.Data))

	assert.Equal(t, solana.InstructionErrorInvalidInstructionData, NewProcessor().Process(ctx, ix.Data[:51]))
	assert.Equal(t, solana.InstructionErrorInvalidInstructionData, NewProcessor().Process(ctx, []byte{9, 0, 0, 0}))
	assert.Equal(t, solana.InstructionErrorInvalidInstructionData, NewProcessor().Process(ctx, nil))
}

func TestProcessor_Transfer(t *testing.T) {
	from := testutil.NewAccountInfo(t, ProgramKey[:], 100, nil)
	from.IsSigner = true
	to := testutil.NewAccountInfo(t, generateKeys(t, 1)[0], ^uint64(0)-10, nil)

	ctx := &testutil.InvokeContext{
		Program:      ProgramKey[:],
		AccountInfos: []*solana.AccountInfo{from, to},
	}

	require.NoError(t, NewProcessor().Process(ctx, Transfer(from.Key, to.Key, 10).Data))
	assert.EqualValues(t, 90, from.Lamports)
	assert.EqualValues(t, ^uint64(0), to.Lamports)

	assert.Equal(t, solana.InstructionErrorArithmeticOverflow, NewProcessor().Process(ctx, Transfer(from.Key, to.Key, 1).Data))
	assert.Equal(t, ErrorResultWithNegativeLamports, NewProcessor().Process(ctx, Transfer(from.Key, to.Key, 91).Data))
	assert.EqualValues(t, 90, from.Lamports)

	from.IsSigner = false
	assert.Equal(t, solana.InstructionErrorMissingRequiredSignature, NewProcessor().Process(ctx, Transfer(from.Key, to.Key, 1).Data))

	from.IsSigner = true
	truncated := Transfer(from.Key, to.Key, 1).Data
	assert.Equal(t, solana.InstructionErrorInvalidInstructionData, NewProcessor().Process(ctx, truncated[:len(truncated)-1]))
	assert.EqualValues(t, 90, from.Lamports)

	from.Data = []byte{1}
	assert.Equal(t, solana.InstructionErrorInvalidArgument, NewProcessor().Process(ctx, Transfer(from.Key, to.Key, 1).Data))
}
