package system

import (
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/token-faucet/pkg/solana/binary"
)

const (
	RentSize = 17

	// AccountStorageOverhead is the number of bytes charged for every account
	// in addition to its data.
	AccountStorageOverhead = 128

	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2.0
	DefaultBurnPercent         = 50
)

var (
	ErrInvalidRentSize = errors.New("invalid rent account size")
)

// Rent is the configuration held by the rent sysvar.
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/rent.rs#L11
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	BurnPercent         uint8
}

// DefaultRent returns the mainnet rent configuration.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		BurnPercent:         DefaultBurnPercent,
	}
}

// MinimumBalance returns the lamports an account holding dataLen bytes needs
// to be exempt from rent.
func (r Rent) MinimumBalance(dataLen uint64) uint64 {
	bytes := float64(AccountStorageOverhead + dataLen)
	minimum := bytes * float64(r.LamportsPerByteYear) * r.ExemptionThreshold
	if minimum >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(minimum)
}

// IsExempt returns whether balance covers the rent exempt minimum for dataLen.
func (r Rent) IsExempt(balance, dataLen uint64) bool {
	return balance >= r.MinimumBalance(dataLen)
}

func (r Rent) Marshal() []byte {
	res := make([]byte, RentSize)

	var offset int
	binary.PutUint64(res[offset:], r.LamportsPerByteYear, &offset)
	binary.PutFloat64(res[offset:], r.ExemptionThreshold, &offset)
	binary.PutUint8(res[offset:], r.BurnPercent, &offset)

	return res
}

func (r *Rent) Unmarshal(data []byte) error {
	if len(data) != RentSize {
		return ErrInvalidRentSize
	}

	var offset int
	binary.GetUint64(data[offset:], &r.LamportsPerByteYear, &offset)
	binary.GetFloat64(data[offset:], &r.ExemptionThreshold, &offset)
	binary.GetUint8(data[offset:], &r.BurnPercent, &offset)

	return nil
}
