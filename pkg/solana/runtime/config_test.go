package runtime

import (
	"context"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/token-faucet/pkg/solana/runtime/account/memory"
	"github.com/code-payments/token-faucet/pkg/solana/system"
	"github.com/code-payments/token-faucet/pkg/testutil"
)

func TestConfig_Env(t *testing.T) {
	ctx := context.Background()
	program := testutil.GenerateSolanaKeys(t, 1)[0]

	_, err := NewBank(memory.New(), WithEnvConfigs())
	assert.Error(t, err)

	t.Setenv(FaucetProgramIdEnvName, base58.Encode(program))

	bank, err := NewBank(memory.New(), WithEnvConfigs())
	require.NoError(t, err)
	assert.Equal(t, program, bank.FaucetProgramID())
	assert.Equal(t, system.DefaultRent(), bank.getRent(ctx))

	t.Setenv(RentLamportsPerByteYearEnvName, "1000")
	t.Setenv(RentExemptionThresholdEnvName, "1.5")
	t.Setenv(RentBurnPercentEnvName, "250")

	expected := system.Rent{
		LamportsPerByteYear: 1000,
		ExemptionThreshold:  1.5,
		BurnPercent:         100,
	}
	assert.Equal(t, expected, bank.getRent(ctx))

	assert.Zero(t, bank.conf.requestRateLimit.Get(ctx))
	t.Setenv(RequestRateLimitEnvName, "2.5")
	assert.Equal(t, 2.5, bank.conf.requestRateLimit.Get(ctx))
}

func TestConfig_InvalidProgramId(t *testing.T) {
	for _, programId := range []string{
		"invalid",
		base58.Encode([]byte("short")),
	} {
		_, err := NewBank(memory.New(), withManualTestOverrides(&testOverrides{
			faucetProgramId: programId,
			rent:            system.DefaultRent(),
		}))
		assert.Error(t, err)
	}
}
