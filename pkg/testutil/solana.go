package testutil

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-payments/token-faucet/pkg/solana"
)

func GenerateSolanaKeypair(t *testing.T) ed25519.PrivateKey {
	_, p, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return p
}

func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}

// NewAccountInfo returns a writable, non-signing account image with a random
// key.
func NewAccountInfo(t *testing.T, owner ed25519.PublicKey, lamports uint64, data []byte) *solana.AccountInfo {
	return &solana.AccountInfo{
		Key:        GenerateSolanaKeys(t, 1)[0],
		Owner:      owner,
		Lamports:   lamports,
		Data:       data,
		IsWritable: true,
	}
}
