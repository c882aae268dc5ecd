package token

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/code-payments/token-faucet/pkg/solana"
	"github.com/code-payments/token-faucet/pkg/solana/binary"
	"github.com/code-payments/token-faucet/pkg/solana/system"
)

// Processor executes the token program instructions needed to issue and move
// tokens: mint and account initialization, authority changes, transfers and
// minting.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/processor.rs
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) Process(ctx solana.InvokeContext, data []byte) error {
	if len(data) == 0 {
		return ErrorInvalidInstruction
	}

	switch Command(data[0]) {
	case CommandInitializeMint:
		return p.processInitializeMint(ctx, data[1:])
	case CommandInitializeAccount:
		return p.processInitializeAccount(ctx, data[1:])
	case CommandSetAuthority:
		return p.processSetAuthority(ctx, data[1:])
	case CommandTransfer:
		return p.processTransfer(ctx, data[1:])
	case CommandMintTo:
		return p.processMintTo(ctx, data[1:])
	default:
		return ErrorInvalidInstruction
	}
}

func (p *Processor) processInitializeMint(ctx solana.InvokeContext, data []byte) error {
	const withoutFreeze = 1 + ed25519.PublicKeySize + 1
	if len(data) < withoutFreeze {
		return ErrorInvalidInstruction
	}

	decimals := data[0]
	mintAuthority := append(ed25519.PublicKey(nil), data[1:1+ed25519.PublicKeySize]...)

	var freezeAuthority ed25519.PublicKey
	switch data[withoutFreeze-1] {
	case 0:
		if len(data) != withoutFreeze {
			return ErrorInvalidInstruction
		}
	case 1:
		if len(data) != withoutFreeze+ed25519.PublicKeySize {
			return ErrorInvalidInstruction
		}
		freezeAuthority = append(ed25519.PublicKey(nil), data[withoutFreeze:]...)
	default:
		return ErrorInvalidInstruction
	}

	accounts := ctx.Accounts()
	if len(accounts) < 2 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	mintInfo, rentInfo := accounts[0], accounts[1]

	if !mintInfo.IsOwnedBy(ProgramKey) {
		return solana.InstructionErrorIncorrectProgramID
	}

	var mint Mint
	if !mint.Unmarshal(mintInfo.Data) {
		return solana.InstructionErrorInvalidAccountData
	}
	if mint.IsInitialized {
		return ErrorAlreadyInUse
	}

	rent, err := loadRent(rentInfo)
	if err != nil {
		return err
	}
	if !rent.IsExempt(mintInfo.Lamports, uint64(len(mintInfo.Data))) {
		return ErrorNotRentExempt
	}

	mint = Mint{
		MintAuthority:   mintAuthority,
		Decimals:        decimals,
		IsInitialized:   true,
		FreezeAuthority: freezeAuthority,
	}
	copy(mintInfo.Data, mint.Marshal())

	ctx.Log("Instruction: InitializeMint")
	return nil
}

func (p *Processor) processInitializeAccount(ctx solana.InvokeContext, data []byte) error {
	if len(data) != 0 {
		return ErrorInvalidInstruction
	}

	accounts := ctx.Accounts()
	if len(accounts) < 4 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	accountInfo, mintInfo, ownerInfo, rentInfo := accounts[0], accounts[1], accounts[2], accounts[3]

	if !accountInfo.IsOwnedBy(ProgramKey) {
		return solana.InstructionErrorIncorrectProgramID
	}

	var account Account
	if !account.Unmarshal(accountInfo.Data) {
		return solana.InstructionErrorInvalidAccountData
	}
	if account.State != AccountStateUninitialized {
		return ErrorAlreadyInUse
	}

	rent, err := loadRent(rentInfo)
	if err != nil {
		return err
	}
	if !rent.IsExempt(accountInfo.Lamports, uint64(len(accountInfo.Data))) {
		return ErrorNotRentExempt
	}

	if _, err := loadMint(mintInfo); err != nil {
		return ErrorInvalidMint
	}

	account = Account{
		Mint:  append(ed25519.PublicKey(nil), mintInfo.Key...),
		Owner: append(ed25519.PublicKey(nil), ownerInfo.Key...),
		State: AccountStateInitialized,
	}
	copy(accountInfo.Data, account.Marshal())

	ctx.Log("Instruction: InitializeAccount")
	return nil
}

func (p *Processor) processSetAuthority(ctx solana.InvokeContext, data []byte) error {
	if len(data) < 2 {
		return ErrorInvalidInstruction
	}

	authorityType := AuthorityType(data[0])

	var newAuthority ed25519.PublicKey
	switch data[1] {
	case 0:
		if len(data) != 2 {
			return ErrorInvalidInstruction
		}
	case 1:
		if len(data) != 2+ed25519.PublicKeySize {
			return ErrorInvalidInstruction
		}
		newAuthority = append(ed25519.PublicKey(nil), data[2:]...)
	default:
		return ErrorInvalidInstruction
	}

	accounts := ctx.Accounts()
	if len(accounts) < 2 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	target, current := accounts[0], accounts[1]

	if !target.IsOwnedBy(ProgramKey) {
		return solana.InstructionErrorIncorrectProgramID
	}

	switch len(target.Data) {
	case MintSize:
		mint, err := loadMint(target)
		if err != nil {
			return err
		}

		switch authorityType {
		case AuthorityTypeMintTokens:
			if mint.MintAuthority == nil {
				return ErrorFixedSupply
			}
			if err := validateOwner(mint.MintAuthority, current); err != nil {
				return err
			}
			mint.MintAuthority = newAuthority
		case AuthorityTypeFreezeAccount:
			if mint.FreezeAuthority == nil {
				return ErrorMintCannotFreeze
			}
			if err := validateOwner(mint.FreezeAuthority, current); err != nil {
				return err
			}
			mint.FreezeAuthority = newAuthority
		default:
			return ErrorAuthorityTypeNotSupported
		}

		copy(target.Data, mint.Marshal())
	case AccountSize:
		account, err := loadAccount(target)
		if err != nil {
			return err
		}
		if account.State == AccountStateFrozen {
			return ErrorAccountFrozen
		}

		switch authorityType {
		case AuthorityTypeAccountHolder:
			if newAuthority == nil {
				return ErrorInvalidInstruction
			}
			if err := validateOwner(account.Owner, current); err != nil {
				return err
			}
			account.Owner = newAuthority
			account.Delegate = nil
			account.DelegatedAmount = 0
		case AuthorityTypeCloseAccount:
			authority := account.CloseAuthority
			if authority == nil {
				authority = account.Owner
			}
			if err := validateOwner(authority, current); err != nil {
				return err
			}
			account.CloseAuthority = newAuthority
		default:
			return ErrorAuthorityTypeNotSupported
		}

		copy(target.Data, account.Marshal())
	default:
		return solana.InstructionErrorInvalidArgument
	}

	ctx.Log("Instruction: SetAuthority")
	return nil
}

func (p *Processor) processTransfer(ctx solana.InvokeContext, data []byte) error {
	if len(data) != 8 {
		return ErrorInvalidInstruction
	}
	var offset int
	var amount uint64
	binary.GetUint64(data, &amount, &offset)

	accounts := ctx.Accounts()
	if len(accounts) < 3 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	sourceInfo, destInfo, ownerInfo := accounts[0], accounts[1], accounts[2]

	source, err := loadAccount(sourceInfo)
	if err != nil {
		return err
	}
	dest, err := loadAccount(destInfo)
	if err != nil {
		return err
	}

	if source.State == AccountStateFrozen || dest.State == AccountStateFrozen {
		return ErrorAccountFrozen
	}
	if source.Amount < amount {
		return ErrorInsufficientFunds
	}
	if !bytes.Equal(source.Mint, dest.Mint) {
		return ErrorMintMismatch
	}
	if err := validateOwner(source.Owner, ownerInfo); err != nil {
		return err
	}

	if bytes.Equal(sourceInfo.Key, destInfo.Key) {
		ctx.Log("Instruction: Transfer")
		return nil
	}

	if dest.Amount > ^uint64(0)-amount {
		return ErrorOverflow
	}

	source.Amount -= amount
	dest.Amount += amount

	copy(sourceInfo.Data, source.Marshal())
	copy(destInfo.Data, dest.Marshal())

	ctx.Log("Instruction: Transfer")
	return nil
}

func (p *Processor) processMintTo(ctx solana.InvokeContext, data []byte) error {
	if len(data) != 8 {
		return ErrorInvalidInstruction
	}
	var offset int
	var amount uint64
	binary.GetUint64(data, &amount, &offset)

	accounts := ctx.Accounts()
	if len(accounts) < 3 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	mintInfo, destInfo, authorityInfo := accounts[0], accounts[1], accounts[2]

	dest, err := loadAccount(destInfo)
	if err != nil {
		return err
	}
	if dest.State == AccountStateFrozen {
		return ErrorAccountFrozen
	}
	if !bytes.Equal(dest.Mint, mintInfo.Key) {
		return ErrorMintMismatch
	}

	mint, err := loadMint(mintInfo)
	if err != nil {
		return err
	}
	if mint.MintAuthority == nil {
		return ErrorFixedSupply
	}
	if err := validateOwner(mint.MintAuthority, authorityInfo); err != nil {
		return err
	}

	if mint.Supply > ^uint64(0)-amount {
		return ErrorOverflow
	}
	if dest.Amount > ^uint64(0)-amount {
		return ErrorOverflow
	}

	mint.Supply += amount
	dest.Amount += amount

	copy(mintInfo.Data, mint.Marshal())
	copy(destInfo.Data, dest.Marshal())

	ctx.Log(fmt.Sprintf("Instruction: MintTo %d", amount))
	return nil
}

func validateOwner(expected ed25519.PublicKey, info *solana.AccountInfo) error {
	if !bytes.Equal(expected, info.Key) {
		return ErrorOwnerMismatch
	}
	if !info.IsSigner {
		return solana.InstructionErrorMissingRequiredSignature
	}
	return nil
}

func loadRent(info *solana.AccountInfo) (*system.Rent, error) {
	if !bytes.Equal(info.Key, system.RentSysVar) {
		return nil, solana.InstructionErrorInvalidArgument
	}

	var rent system.Rent
	if err := rent.Unmarshal(info.Data); err != nil {
		return nil, solana.InstructionErrorInvalidAccountData
	}
	return &rent, nil
}

// loadMint decodes an initialized mint owned by the token program.
func loadMint(info *solana.AccountInfo) (*Mint, error) {
	if !info.IsOwnedBy(ProgramKey) {
		return nil, solana.InstructionErrorIncorrectProgramID
	}

	var mint Mint
	if !mint.Unmarshal(info.Data) {
		return nil, ErrorInvalidMint
	}
	if !mint.IsInitialized {
		return nil, ErrorUninitializedState
	}
	return &mint, nil
}

// loadAccount decodes an initialized token account owned by the token program.
func loadAccount(info *solana.AccountInfo) (*Account, error) {
	if !info.IsOwnedBy(ProgramKey) {
		return nil, solana.InstructionErrorIncorrectProgramID
	}

	var account Account
	if !account.Unmarshal(info.Data) {
		return nil, solana.InstructionErrorInvalidAccountData
	}
	if account.State == AccountStateUninitialized {
		return nil, ErrorUninitializedState
	}
	return &account, nil
}
