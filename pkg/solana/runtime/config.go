package runtime

import (
	"github.com/code-payments/token-faucet/pkg/config"
	"github.com/code-payments/token-faucet/pkg/config/env"
	"github.com/code-payments/token-faucet/pkg/config/memory"
	"github.com/code-payments/token-faucet/pkg/config/wrapper"
	"github.com/code-payments/token-faucet/pkg/solana/system"
)

const (
	envConfigPrefix = "FAUCET_RUNTIME_"

	FaucetProgramIdEnvName = envConfigPrefix + "PROGRAM_ID"
	defaultFaucetProgramId = "invalid" // Ensure something valid is set

	RentLamportsPerByteYearEnvName = envConfigPrefix + "RENT_LAMPORTS_PER_BYTE_YEAR"
	defaultRentLamportsPerByteYear = system.DefaultLamportsPerByteYear

	RentExemptionThresholdEnvName = envConfigPrefix + "RENT_EXEMPTION_THRESHOLD"
	defaultRentExemptionThreshold = system.DefaultExemptionThreshold

	RentBurnPercentEnvName = envConfigPrefix + "RENT_BURN_PERCENT"
	defaultRentBurnPercent = system.DefaultBurnPercent

	RequestRateLimitEnvName = envConfigPrefix + "REQUEST_RATE_LIMIT"
	defaultRequestRateLimit = 0 // Disabled
)

type conf struct {
	faucetProgramId         config.String
	rentLamportsPerByteYear config.Uint64
	rentExemptionThreshold  config.Float64
	rentBurnPercent         config.Uint64
	requestRateLimit        config.Float64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			faucetProgramId:         env.NewStringConfig(FaucetProgramIdEnvName, defaultFaucetProgramId),
			rentLamportsPerByteYear: env.NewUint64Config(RentLamportsPerByteYearEnvName, defaultRentLamportsPerByteYear),
			rentExemptionThreshold:  env.NewFloat64Config(RentExemptionThresholdEnvName, defaultRentExemptionThreshold),
			rentBurnPercent:         env.NewUint64Config(RentBurnPercentEnvName, defaultRentBurnPercent),
			requestRateLimit:        env.NewFloat64Config(RequestRateLimitEnvName, defaultRequestRateLimit),
		}
	}
}

type testOverrides struct {
	faucetProgramId  string
	rent             system.Rent
	requestRateLimit float64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			faucetProgramId:         wrapper.NewStringConfig(memory.NewConfig(overrides.faucetProgramId), defaultFaucetProgramId),
			rentLamportsPerByteYear: wrapper.NewUint64Config(memory.NewConfig(overrides.rent.LamportsPerByteYear), defaultRentLamportsPerByteYear),
			rentExemptionThreshold:  wrapper.NewFloat64Config(memory.NewConfig(overrides.rent.ExemptionThreshold), defaultRentExemptionThreshold),
			rentBurnPercent:         wrapper.NewUint64Config(memory.NewConfig(uint64(overrides.rent.BurnPercent)), defaultRentBurnPercent),
			requestRateLimit:        wrapper.NewFloat64Config(memory.NewConfig(overrides.requestRateLimit), defaultRequestRateLimit),
		}
	}
}
