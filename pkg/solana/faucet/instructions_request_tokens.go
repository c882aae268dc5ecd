package faucet

import (
	"crypto/ed25519"

	"github.com/code-payments/token-faucet/pkg/solana"
	"github.com/code-payments/token-faucet/pkg/solana/binary"
	"github.com/code-payments/token-faucet/pkg/solana/token"
)

const (
	RequestTokensInstructionArgsSize = 8 // amount
)

type RequestTokensInstructionArgs struct {
	Amount uint64
}

type RequestTokensInstructionAccounts struct {
	MintAuthority ed25519.PublicKey
	Pool          ed25519.PublicKey
	Mint          ed25519.PublicKey
	Destination   ed25519.PublicKey
}

func (args *RequestTokensInstructionArgs) Command() Command {
	return CommandRequestTokens
}

func (args *RequestTokensInstructionArgs) Marshal() []byte {
	data := make([]byte, 1+RequestTokensInstructionArgsSize)

	var offset int
	binary.PutUint8(data[offset:], uint8(CommandRequestTokens), &offset)
	binary.PutUint64(data[offset:], args.Amount, &offset)

	return data
}

func (args *RequestTokensInstructionArgs) isInstruction() {}

// NewRequestTokensInstruction mints up to the pool's per request amount into
// a token account of the pool's mint.
//
// Accounts expected by this instruction:
//
//  0. `[]` The faucet's mint authority address (see GetMintAuthorityAddress).
//  1. `[]` The pool account.
//  2. `[writable]` The mint.
//  3. `[writable]` The destination token account.
//  4. `[]` The token program.
func NewRequestTokensInstruction(
	program ed25519.PublicKey,
	accounts *RequestTokensInstructionAccounts,
	args *RequestTokensInstructionArgs,
) solana.Instruction {
	return solana.NewInstruction(
		program,
		args.Marshal(),
		solana.NewReadonlyAccountMeta(accounts.MintAuthority, false),
		solana.NewReadonlyAccountMeta(accounts.Pool, false),
		solana.NewAccountMeta(accounts.Mint, false),
		solana.NewAccountMeta(accounts.Destination, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}
