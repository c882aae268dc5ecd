package faucet

import (
	"fmt"

	"github.com/code-payments/token-faucet/pkg/solana"
)

// Error is a faucet program failure. The numeric value is the program's
// custom error code and must never be reordered.
type Error uint32

const (
	ErrInvalidInstruction Error = iota
	ErrIncorrectInitializationData
	ErrAccountNotRentExempt
	ErrAccountAlreadyInUse
	ErrRequestingTooManyTokens
	ErrNonAdminClosureAttempt
	ErrNonClosableFaucetClosureAttempt
	ErrOverflow
	ErrInvalidMint
	ErrIncorrectMintAuthority
)

var errorMessages = map[Error]string{
	ErrInvalidInstruction:              "Invalid Instruction",
	ErrIncorrectInitializationData:     "Incorrect Initialization Data",
	ErrAccountNotRentExempt:            "Account Not Rent Exempt",
	ErrAccountAlreadyInUse:             "Account Already In Use",
	ErrRequestingTooManyTokens:         "Requesting Too Many Tokens",
	ErrNonAdminClosureAttempt:          "Non Admin Closure Attempt",
	ErrNonClosableFaucetClosureAttempt: "Non Closable Faucet Closure Attempt",
	ErrOverflow:                        "Overflow",
	ErrInvalidMint:                     "Invalid Mint",
	ErrIncorrectMintAuthority:          "Incorrect Mint Authority",
}

// ErrorFromCode returns the faucet error for a custom program error code.
func ErrorFromCode(code uint32) (Error, bool) {
	e := Error(code)
	_, ok := errorMessages[e]
	return e, ok
}

func (e Error) Error() string {
	msg, ok := errorMessages[e]
	if !ok {
		return fmt.Sprintf("Unknown Faucet Error (%d)", uint32(e))
	}
	return msg
}

// Diagnostic is the log line emitted when an instruction fails with e.
func (e Error) Diagnostic() string {
	if e == ErrIncorrectInitializationData {
		return "Error: Incorrect initialization data"
	}
	return "Error: " + e.Error()
}

func (e Error) Code() uint32 {
	return uint32(e)
}

func (e Error) CustomError() solana.CustomError {
	return solana.CustomError(e)
}
