package faucet

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/token-faucet/pkg/solana"
	"github.com/code-payments/token-faucet/pkg/solana/system"
	"github.com/code-payments/token-faucet/pkg/solana/token"
)

// Processor executes faucet instructions. It holds no state; the program key
// and accounts come from the invoke context of each call.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

// Process decodes and executes a single faucet instruction. Account images
// are only mutated once every check for the instruction has passed.
func (p *Processor) Process(ctx solana.InvokeContext, data []byte) error {
	ctx.Log("Faucet entrypoint")

	err := p.process(ctx, data)
	if err != nil {
		var faucetErr Error
		if errors.As(err, &faucetErr) {
			ctx.Log(faucetErr.Diagnostic())
		}
	}
	return err
}

func (p *Processor) process(ctx solana.InvokeContext, data []byte) error {
	instruction, err := DecodeInstruction(data)
	if err != nil {
		return err
	}

	switch args := instruction.(type) {
	case *InitializeInstructionArgs:
		ctx.Log("Instruction: Initialize")
		return p.processInitialize(ctx, args)
	case *RequestTokensInstructionArgs:
		ctx.Log("Instruction: RequestTokens")
		return p.processRequestTokens(ctx, args)
	case *CloseAccountInstructionArgs:
		ctx.Log("Instruction: CloseAccount")
		return p.processCloseAccount(ctx)
	default:
		return ErrInvalidInstruction
	}
}

func (p *Processor) processInitialize(ctx solana.InvokeContext, args *InitializeInstructionArgs) error {
	accounts := ctx.Accounts()
	if len(accounts) < 4 {
		return ErrInvalidInstruction
	}
	poolInfo, mintInfo, authorityInfo, rentInfo := accounts[0], accounts[1], accounts[2], accounts[3]

	if !bytes.Equal(rentInfo.Key, system.RentSysVar) {
		return ErrInvalidInstruction
	}
	var rent system.Rent
	if err := rent.Unmarshal(rentInfo.Data); err != nil {
		return ErrInvalidInstruction
	}

	if !poolInfo.IsWritable {
		return ErrInvalidInstruction
	}
	pool, err := loadPool(ctx, poolInfo)
	if err != nil {
		return err
	}

	mintAuthority, _, err := GetMintAuthorityAddress(ctx.ProgramID())
	if err != nil {
		return errors.Wrap(err, "error deriving mint authority")
	}

	err = ValidateInitialize(
		pool,
		poolInfo.Lamports,
		uint64(len(poolInfo.Data)),
		rent,
		loadMint(mintInfo),
		mintAuthority,
	)
	if err != nil {
		return err
	}

	pool = &PoolAccount{
		IsInitialized:    true,
		Mint:             append([]byte(nil), mintInfo.Key...),
		Authority:        append([]byte(nil), authorityInfo.Key...),
		AmountPerRequest: args.AmountPerRequest,
		IsClosable:       args.IsClosable,
	}
	copy(poolInfo.Data, pool.Marshal())

	return nil
}

func (p *Processor) processRequestTokens(ctx solana.InvokeContext, args *RequestTokensInstructionArgs) error {
	accounts := ctx.Accounts()
	if len(accounts) < 5 {
		return ErrInvalidInstruction
	}
	mintAuthorityInfo, poolInfo, mintInfo, destinationInfo, tokenProgramInfo := accounts[0], accounts[1], accounts[2], accounts[3], accounts[4]

	if !bytes.Equal(tokenProgramInfo.Key, token.ProgramKey) {
		return ErrInvalidInstruction
	}

	pool, err := loadPool(ctx, poolInfo)
	if err != nil {
		return err
	}
	// Checked ahead of the mint key: an uninitialized pool has no mint to
	// compare against. ValidateRequestTokens repeats it for direct callers.
	if !pool.IsInitialized {
		return ErrIncorrectInitializationData
	}

	mintAuthority, bump, err := GetMintAuthorityAddress(ctx.ProgramID())
	if err != nil {
		return errors.Wrap(err, "error deriving mint authority")
	}
	if !bytes.Equal(mintAuthorityInfo.Key, mintAuthority) {
		return ErrIncorrectMintAuthority
	}

	if !bytes.Equal(mintInfo.Key, pool.Mint) {
		return ErrInvalidMint
	}

	err = ValidateRequestTokens(
		pool,
		args.Amount,
		loadMint(mintInfo),
		loadTokenAccount(destinationInfo),
	)
	if err != nil {
		return err
	}

	mintTo := token.MintTo(mintInfo.Key, destinationInfo.Key, mintAuthority, args.Amount)
	if err := ctx.InvokeSigned(mintTo, mintAuthoritySignerSeeds(bump)); err != nil {
		return errors.Wrap(err, "error minting tokens")
	}

	ctx.Log(fmt.Sprintf("Minted %d tokens", args.Amount))
	return nil
}

func (p *Processor) processCloseAccount(ctx solana.InvokeContext) error {
	accounts := ctx.Accounts()
	if len(accounts) < 3 {
		return ErrInvalidInstruction
	}
	authorityInfo, poolInfo, destinationInfo := accounts[0], accounts[1], accounts[2]

	if bytes.Equal(poolInfo.Key, destinationInfo.Key) {
		return ErrInvalidInstruction
	}

	pool, err := loadPool(ctx, poolInfo)
	if err != nil {
		return err
	}

	if err := ValidateCloseAccount(pool, authorityInfo.Key, authorityInfo.IsSigner); err != nil {
		return err
	}

	lamports, ok := checkedAdd(destinationInfo.Lamports, poolInfo.Lamports)
	if !ok {
		return ErrOverflow
	}

	destinationInfo.Lamports = lamports
	poolInfo.Lamports = 0
	for i := range poolInfo.Data {
		poolInfo.Data[i] = 0
	}

	// A closed pool is handed back to the system program, so nothing later in
	// the transaction can initialize it again.
	poolInfo.Owner = append([]byte(nil), system.ProgramKey[:]...)

	return nil
}

// loadPool decodes the pool account, which must be owned by the executing
// program.
func loadPool(ctx solana.InvokeContext, info *solana.AccountInfo) (*PoolAccount, error) {
	if !info.IsOwnedBy(ctx.ProgramID()) {
		return nil, ErrIncorrectInitializationData
	}

	var pool PoolAccount
	if err := pool.Unmarshal(info.Data); err != nil {
		return nil, err
	}
	return &pool, nil
}

// loadMint returns nil unless info is a mint owned by the token program.
func loadMint(info *solana.AccountInfo) *token.Mint {
	if !info.IsOwnedBy(token.ProgramKey) {
		return nil
	}

	var mint token.Mint
	if !mint.Unmarshal(info.Data) {
		return nil
	}
	return &mint
}

// loadTokenAccount returns nil unless info is an initialized token account
// owned by the token program.
func loadTokenAccount(info *solana.AccountInfo) *token.Account {
	if !info.IsOwnedBy(token.ProgramKey) {
		return nil
	}

	var account token.Account
	if !account.Unmarshal(info.Data) || account.State == token.AccountStateUninitialized {
		return nil
	}
	return &account
}
