package faucet

import (
	"crypto/ed25519"

	"github.com/code-payments/token-faucet/pkg/solana"
)

var (
	MintAuthorityPrefix = []byte("faucet")
)

// GetMintAuthorityAddress returns the program derived address a faucet
// program signs MintTo with, along with its bump seed. A mint can only be
// used by the faucet once its mint authority is set to this address.
func GetMintAuthorityAddress(program ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		program,
		MintAuthorityPrefix,
	)
}

func mintAuthoritySignerSeeds(bump uint8) [][]byte {
	return [][]byte{MintAuthorityPrefix, {bump}}
}
