package faucet

import (
	"crypto/ed25519"

	"github.com/code-payments/token-faucet/pkg/solana"
	"github.com/code-payments/token-faucet/pkg/solana/binary"
	"github.com/code-payments/token-faucet/pkg/solana/system"
)

const (
	InitializeInstructionArgsSize = (8 + // amount_per_request
		1) // is_closable
)

type InitializeInstructionArgs struct {
	AmountPerRequest uint64
	IsClosable       bool
}

type InitializeInstructionAccounts struct {
	Pool      ed25519.PublicKey
	Mint      ed25519.PublicKey
	Authority ed25519.PublicKey
}

func (args *InitializeInstructionArgs) Command() Command {
	return CommandInitialize
}

func (args *InitializeInstructionArgs) Marshal() []byte {
	data := make([]byte, 1+InitializeInstructionArgsSize)

	var offset int
	binary.PutUint8(data[offset:], uint8(CommandInitialize), &offset)
	binary.PutUint64(data[offset:], args.AmountPerRequest, &offset)
	binary.PutBool(data[offset:], args.IsClosable, &offset)

	return data
}

func (args *InitializeInstructionArgs) isInstruction() {}

// NewInitializeInstruction initializes a pool account allocated to program.
//
// Accounts expected by this instruction:
//
//  0. `[writable]` The pool account, owned by the faucet program.
//  1. `[]` The mint, whose mint authority is the faucet's derived address.
//  2. `[]` The authority allowed to close the pool.
//  3. `[]` Rent sysvar
func NewInitializeInstruction(
	program ed25519.PublicKey,
	accounts *InitializeInstructionAccounts,
	args *InitializeInstructionArgs,
) solana.Instruction {
	return solana.NewInstruction(
		program,
		args.Marshal(),
		solana.NewAccountMeta(accounts.Pool, false),
		solana.NewReadonlyAccountMeta(accounts.Mint, false),
		solana.NewReadonlyAccountMeta(accounts.Authority, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}
