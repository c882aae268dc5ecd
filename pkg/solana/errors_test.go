package solana

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codedError uint32

func (e codedError) Error() string            { return "coded" }
func (e codedError) CustomError() CustomError { return CustomError(e) }

func TestNewInstructionError(t *testing.T) {
	e := NewInstructionError(2, errors.Wrap(codedError(4), "request tokens"))
	assert.Equal(t, 2, e.Index)
	assert.Equal(t, InstructionErrorCustom, e.ErrorKey())
	require.NotNil(t, e.CustomError())
	assert.Equal(t, CustomError(4), *e.CustomError())
	assert.Equal(t, `[2, {"Custom": 4}]`, e.JSONString())
	assert.Equal(t, "Error processing Instruction 2: custom program error: 0x4", e.Error())

	e = NewInstructionError(0, errors.Wrap(CustomError(17), "mint to"))
	require.NotNil(t, e.CustomError())
	assert.Equal(t, CustomError(17), *e.CustomError())

	e = NewInstructionError(1, errors.Wrap(InstructionErrorMissingRequiredSignature, "mint authority"))
	assert.Nil(t, e.CustomError())
	assert.Equal(t, InstructionErrorMissingRequiredSignature, e.ErrorKey())
	assert.Equal(t, `[1, "MissingRequiredSignature"]`, e.JSONString())

	plain := errors.New("something else")
	e = NewInstructionError(0, plain)
	assert.Equal(t, plain, e.Err)
}
