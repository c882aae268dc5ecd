package system

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"

	"github.com/code-payments/token-faucet/pkg/solana"
)

// RentSysVar points to the system variable "Rent"
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/rent.rs#L11
var RentSysVar = mustDecodeKey("SysvarRent111111111111111111111111111111111")

// SysvarOwner owns every sysvar account.
var SysvarOwner = mustDecodeKey("Sysvar1111111111111111111111111111111111111")

// NewRentSysvarAccount returns the readonly rent sysvar account holding rent.
func NewRentSysvarAccount(rent Rent) *solana.AccountInfo {
	data := rent.Marshal()
	return &solana.AccountInfo{
		Key:      append(ed25519.PublicKey(nil), RentSysVar...),
		Owner:    append(ed25519.PublicKey(nil), SysvarOwner...),
		Lamports: rent.MinimumBalance(uint64(len(data))),
		Data:     data,
	}
}

// IsSysvar returns whether info is a sysvar account.
func IsSysvar(info *solana.AccountInfo) bool {
	return bytes.Equal(info.Owner, SysvarOwner)
}

func mustDecodeKey(encoded string) ed25519.PublicKey {
	key, err := base58.Decode(encoded)
	if err != nil {
		panic(err)
	}
	return key
}
