package testutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/token-faucet/pkg/solana"
)

// AssertInstructionErrorWithCode verifies that the provided error is an
// instruction error at index carrying the provided custom program error.
func AssertInstructionErrorWithCode(t *testing.T, err error, index int, code solana.CustomError) {
	require.Error(t, err)

	var instructionErr solana.InstructionError
	require.True(t, errors.As(err, &instructionErr), err)
	assert.Equal(t, index, instructionErr.Index)
	require.NotNil(t, instructionErr.CustomError(), instructionErr.Err)
	assert.Equal(t, code, *instructionErr.CustomError())
}

// AssertInstructionErrorWithKey verifies that the provided error is an
// instruction error at index with the provided builtin error key.
func AssertInstructionErrorWithKey(t *testing.T, err error, index int, key solana.InstructionErrorKey) {
	require.Error(t, err)

	var instructionErr solana.InstructionError
	require.True(t, errors.As(err, &instructionErr), err)
	assert.Equal(t, index, instructionErr.Index)
	assert.Equal(t, key, instructionErr.ErrorKey())
}
