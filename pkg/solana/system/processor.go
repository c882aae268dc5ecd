package system

import (
	"crypto/ed25519"
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/token-faucet/pkg/solana"
	"github.com/code-payments/token-faucet/pkg/solana/binary"
)

// Processor executes the subset of system program instructions needed to
// fund and allocate accounts.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) Process(ctx solana.InvokeContext, data []byte) error {
	if len(data) < 4 {
		return solana.InstructionErrorInvalidInstructionData
	}

	var offset int
	var command uint32
	binary.GetUint32(data, &command, &offset)

	switch command {
	case commandCreateAccount:
		return p.processCreateAccount(ctx, data[offset:])
	case commandTransfer:
		return p.processTransfer(ctx, data[offset:])
	default:
		return solana.InstructionErrorInvalidInstructionData
	}
}

func (p *Processor) processCreateAccount(ctx solana.InvokeContext, data []byte) error {
	if len(data) != 2*8+32 {
		return solana.InstructionErrorInvalidInstructionData
	}

	var offset int
	var lamports, space uint64
	var owner ed25519.PublicKey
	binary.GetUint64(data[offset:], &lamports, &offset)
	binary.GetUint64(data[offset:], &space, &offset)
	binary.GetKey32(data[offset:], &owner, &offset)

	accounts := ctx.Accounts()
	if len(accounts) < 2 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	funder, created := accounts[0], accounts[1]

	if !funder.IsSigner || !created.IsSigner {
		return solana.InstructionErrorMissingRequiredSignature
	}
	if space > MaxAccountDataSize {
		return ErrorInvalidAccountDataLength
	}
	if created.Lamports > 0 || len(created.Data) > 0 || !created.IsOwnedBy(ProgramKey[:]) {
		return ErrorAccountAlreadyInUse
	}
	if funder.Lamports < lamports {
		return ErrorResultWithNegativeLamports
	}
	if lamports < ctx.RentMinimum(space) {
		return errors.Wrapf(solana.InstructionErrorInsufficientFunds, "%d lamports does not cover %d bytes", lamports, space)
	}

	funder.Lamports -= lamports
	created.Lamports = lamports
	created.Data = make([]byte, space)
	created.Owner = owner

	ctx.Log(fmt.Sprintf("CreateAccount: %d bytes", space))
	return nil
}

func (p *Processor) processTransfer(ctx solana.InvokeContext, data []byte) error {
	if len(data) != 8 {
		return solana.InstructionErrorInvalidInstructionData
	}

	var offset int
	var lamports uint64
	binary.GetUint64(data, &lamports, &offset)

	accounts := ctx.Accounts()
	if len(accounts) < 2 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	from, to := accounts[0], accounts[1]

	if !from.IsSigner {
		return solana.InstructionErrorMissingRequiredSignature
	}
	if !from.IsOwnedBy(ProgramKey[:]) || len(from.Data) > 0 {
		return solana.InstructionErrorInvalidArgument
	}
	if from.Lamports < lamports {
		return ErrorResultWithNegativeLamports
	}
	if to.Lamports > ^uint64(0)-lamports {
		return solana.InstructionErrorArithmeticOverflow
	}

	from.Lamports -= lamports
	to.Lamports += lamports

	ctx.Log(fmt.Sprintf("Transfer: %d lamports", lamports))
	return nil
}
