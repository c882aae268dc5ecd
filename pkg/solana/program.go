package solana

import (
	"crypto/ed25519"
)

// InvokeContext is the view a program has of the instruction it is executing.
//
// Accounts are returned in the order they were referenced by the instruction.
// Any mutation a program makes to an account image is only committed by the
// host if the enclosing transaction succeeds.
type InvokeContext interface {
	// ProgramID is the key of the executing program.
	ProgramID() ed25519.PublicKey

	// Accounts returns the account images referenced by the instruction.
	Accounts() []*AccountInfo

	// RentMinimum returns the lamports required for an account holding
	// dataLen bytes to be rent exempt.
	RentMinimum(dataLen uint64) uint64

	// InvokeSigned executes instruction as a cross-program invocation. Each
	// entry in signerSeeds must derive, under the executing program, an
	// address that is then treated as a signer of instruction.
	InvokeSigned(instruction Instruction, signerSeeds ...[][]byte) error

	// Log records a program log message.
	Log(msg string)
}

// Program executes instructions addressed to a single program key.
type Program interface {
	Process(ctx InvokeContext, data []byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(ctx InvokeContext, data []byte) error

func (f ProgramFunc) Process(ctx InvokeContext, data []byte) error {
	return f(ctx, data)
}
