package faucet

import (
	"bytes"
	"crypto/ed25519"
	"math/bits"

	"github.com/code-payments/token-faucet/pkg/solana/system"
	"github.com/code-payments/token-faucet/pkg/solana/token"
)

// ValidateInitialize checks that a pool account holding poolLamports and
// poolDataLen bytes can be initialized against mint, where mintAuthority is
// the faucet's derived mint authority address. A nil mint is one that could
// not be decoded.
func ValidateInitialize(
	pool *PoolAccount,
	poolLamports uint64,
	poolDataLen uint64,
	rent system.Rent,
	mint *token.Mint,
	mintAuthority ed25519.PublicKey,
) error {
	if pool.IsInitialized {
		return ErrAccountAlreadyInUse
	}
	if !rent.IsExempt(poolLamports, poolDataLen) {
		return ErrAccountNotRentExempt
	}
	if mint == nil || !mint.IsInitialized {
		return ErrInvalidMint
	}
	if !bytes.Equal(mint.MintAuthority, mintAuthority) {
		return ErrIncorrectMintAuthority
	}
	return nil
}

// ValidateRequestTokens checks that amount can be minted from pool into
// destination. Requests above the pool's limit are rejected, never clamped.
func ValidateRequestTokens(
	pool *PoolAccount,
	amount uint64,
	mint *token.Mint,
	destination *token.Account,
) error {
	if !pool.IsInitialized {
		return ErrIncorrectInitializationData
	}
	if amount > pool.AmountPerRequest {
		return ErrRequestingTooManyTokens
	}
	if mint == nil || destination == nil {
		return ErrInvalidMint
	}
	if _, ok := checkedAdd(mint.Supply, amount); !ok {
		return ErrOverflow
	}
	if _, ok := checkedAdd(destination.Amount, amount); !ok {
		return ErrOverflow
	}
	if !bytes.Equal(destination.Mint, pool.Mint) {
		return ErrInvalidMint
	}
	return nil
}

// ValidateCloseAccount checks that signer may close pool.
func ValidateCloseAccount(pool *PoolAccount, signer ed25519.PublicKey, isSigner bool) error {
	if !pool.IsInitialized {
		return ErrIncorrectInitializationData
	}
	if !pool.IsClosable {
		return ErrNonClosableFaucetClosureAttempt
	}
	if !isSigner || !bytes.Equal(signer, pool.Authority) {
		return ErrNonAdminClosureAttempt
	}
	return nil
}

func checkedAdd(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}
