package faucet

import (
	"crypto/ed25519"

	"github.com/code-payments/token-faucet/pkg/solana"
)

type CloseAccountInstructionArgs struct{}

type CloseAccountInstructionAccounts struct {
	Authority   ed25519.PublicKey
	Pool        ed25519.PublicKey
	Destination ed25519.PublicKey
}

func (args *CloseAccountInstructionArgs) Command() Command {
	return CommandCloseAccount
}

func (args *CloseAccountInstructionArgs) Marshal() []byte {
	return []byte{uint8(CommandCloseAccount)}
}

func (args *CloseAccountInstructionArgs) isInstruction() {}

// NewCloseAccountInstruction closes a closable pool, returning its lamports
// to destination.
//
// Accounts expected by this instruction:
//
//  0. `[signer]` The pool's authority.
//  1. `[writable]` The pool account.
//  2. `[writable]` The account receiving the pool's lamports.
func NewCloseAccountInstruction(
	program ed25519.PublicKey,
	accounts *CloseAccountInstructionAccounts,
) solana.Instruction {
	return solana.NewInstruction(
		program,
		(&CloseAccountInstructionArgs{}).Marshal(),
		solana.NewReadonlyAccountMeta(accounts.Authority, true),
		solana.NewAccountMeta(accounts.Pool, false),
		solana.NewAccountMeta(accounts.Destination, false),
	)
}
