package faucet

import (
	"github.com/code-payments/token-faucet/pkg/solana/binary"
)

type Command uint8

const (
	CommandInitialize Command = iota
	CommandRequestTokens
	CommandCloseAccount
)

func (c Command) String() string {
	switch c {
	case CommandInitialize:
		return "Initialize"
	case CommandRequestTokens:
		return "RequestTokens"
	case CommandCloseAccount:
		return "CloseAccount"
	}
	return "Unknown"
}

// Instruction is a decoded faucet instruction. The set of implementations is
// closed: InitializeInstructionArgs, RequestTokensInstructionArgs and
// CloseAccountInstructionArgs.
type Instruction interface {
	Command() Command
	Marshal() []byte

	isInstruction()
}

// DecodeInstruction decodes raw instruction data. Unknown commands, truncated
// buffers, trailing bytes and non-canonical booleans all fail with
// ErrInvalidInstruction.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, ErrInvalidInstruction
	}

	var offset int

	var command uint8
	binary.GetUint8(data, &command, &offset)

	switch Command(command) {
	case CommandInitialize:
		if len(data) != 1+InitializeInstructionArgsSize {
			return nil, ErrInvalidInstruction
		}

		var args InitializeInstructionArgs
		binary.GetUint64(data[offset:], &args.AmountPerRequest, &offset)
		if data[offset] > 1 {
			return nil, ErrInvalidInstruction
		}
		binary.GetBool(data[offset:], &args.IsClosable, &offset)
		return &args, nil
	case CommandRequestTokens:
		if len(data) != 1+RequestTokensInstructionArgsSize {
			return nil, ErrInvalidInstruction
		}

		var args RequestTokensInstructionArgs
		binary.GetUint64(data[offset:], &args.Amount, &offset)
		return &args, nil
	case CommandCloseAccount:
		if len(data) != 1 {
			return nil, ErrInvalidInstruction
		}
		return &CloseAccountInstructionArgs{}, nil
	default:
		return nil, ErrInvalidInstruction
	}
}
