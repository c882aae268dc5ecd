package faucet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/code-payments/token-faucet/pkg/solana/binary"
)

const (
	PoolAccountSize = (1 + // is_initialized
		32 + // mint
		32 + // authority
		8 + // amount_per_request
		1) // is_closable
)

// PoolAccount is the persisted state of a single faucet.
type PoolAccount struct {
	IsInitialized    bool
	Mint             ed25519.PublicKey
	Authority        ed25519.PublicKey
	AmountPerRequest uint64
	IsClosable       bool
}

func (obj *PoolAccount) Marshal() []byte {
	data := make([]byte, PoolAccountSize)

	var offset int
	binary.PutBool(data[offset:], obj.IsInitialized, &offset)
	binary.PutKey32(data[offset:], obj.Mint, &offset)
	binary.PutKey32(data[offset:], obj.Authority, &offset)
	binary.PutUint64(data[offset:], obj.AmountPerRequest, &offset)
	binary.PutBool(data[offset:], obj.IsClosable, &offset)

	return data
}

func (obj *PoolAccount) Unmarshal(data []byte) error {
	if len(data) != PoolAccountSize {
		return ErrIncorrectInitializationData
	}

	var offset int
	binary.GetBool(data[offset:], &obj.IsInitialized, &offset)
	binary.GetKey32(data[offset:], &obj.Mint, &offset)
	binary.GetKey32(data[offset:], &obj.Authority, &offset)
	binary.GetUint64(data[offset:], &obj.AmountPerRequest, &offset)
	binary.GetBool(data[offset:], &obj.IsClosable, &offset)

	return nil
}

func (obj *PoolAccount) String() string {
	return fmt.Sprintf(
		"PoolAccount{is_initialized=%t,mint=%s,authority=%s,amount_per_request=%d,is_closable=%t}",
		obj.IsInitialized,
		base58.Encode(obj.Mint),
		base58.Encode(obj.Authority),
		obj.AmountPerRequest,
		obj.IsClosable,
	)
}
