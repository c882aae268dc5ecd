package testutil

import (
	"crypto/ed25519"

	"github.com/code-payments/token-faucet/pkg/solana"
)

// SignedInvocation records a cross-program invocation requested through
// InvokeContext.
type SignedInvocation struct {
	Instruction solana.Instruction
	SignerSeeds [][][]byte
}

// InvokeContext is an in-memory solana.InvokeContext for exercising a program
// without a host runtime.
type InvokeContext struct {
	Program      ed25519.PublicKey
	AccountInfos []*solana.AccountInfo

	// MinimumBalance defaults to zero for every size when unset.
	MinimumBalance func(dataLen uint64) uint64

	// OnInvokeSigned is called for every signed invocation. A nil handler
	// accepts the invocation.
	OnInvokeSigned func(instruction solana.Instruction, signerSeeds ...[][]byte) error

	Invocations []SignedInvocation
	Logs        []string
}

func (c *InvokeContext) ProgramID() ed25519.PublicKey {
	return c.Program
}

func (c *InvokeContext) Accounts() []*solana.AccountInfo {
	return c.AccountInfos
}

func (c *InvokeContext) RentMinimum(dataLen uint64) uint64 {
	if c.MinimumBalance == nil {
		return 0
	}
	return c.MinimumBalance(dataLen)
}

func (c *InvokeContext) InvokeSigned(instruction solana.Instruction, signerSeeds ...[][]byte) error {
	c.Invocations = append(c.Invocations, SignedInvocation{
		Instruction: instruction,
		SignerSeeds: signerSeeds,
	})

	if c.OnInvokeSigned == nil {
		return nil
	}
	return c.OnInvokeSigned(instruction, signerSeeds...)
}

func (c *InvokeContext) Log(msg string) {
	c.Logs = append(c.Logs, msg)
}
