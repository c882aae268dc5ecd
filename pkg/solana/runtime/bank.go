package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/token-faucet/pkg/metrics"
	"github.com/code-payments/token-faucet/pkg/rate"
	"github.com/code-payments/token-faucet/pkg/solana"
	"github.com/code-payments/token-faucet/pkg/solana/faucet"
	"github.com/code-payments/token-faucet/pkg/solana/runtime/account"
	"github.com/code-payments/token-faucet/pkg/solana/system"
	"github.com/code-payments/token-faucet/pkg/solana/token"
	sync_util "github.com/code-payments/token-faucet/pkg/sync"
)

const (
	metricsStructName = "solana.runtime.bank"

	accountLockStripes = 1024
)

var (
	ErrEmptyTransaction    = errors.New("transaction has no instructions")
	ErrRequestRateExceeded = errors.New("faucet request rate exceeded")
)

// nativeLoader owns every deployed program account.
var nativeLoader ed25519.PublicKey

func init() {
	var err error
	nativeLoader, err = base58.Decode("NativeLoader1111111111111111111111111111111")
	if err != nil {
		panic(err)
	}
}

// Bank executes transactions against the accounts held in an account.Store.
//
// Transactions referencing a common account are serialized. Each one runs
// against in-memory images of the accounts it references, and its changes are
// written to the store in a single batch only when every instruction succeeds.
// Signatures are out of scope: the IsSigner flags of top level instructions
// are trusted as given.
type Bank struct {
	log      *logrus.Entry
	conf     *conf
	accounts account.Store

	faucetProgram ed25519.PublicKey

	// Keyed by the destination token account of RequestTokens instructions.
	requestLimiter rate.Limiter

	// Cross-program invocations may only reference accounts of the calling
	// instruction, so locking the accounts of top level instructions covers
	// everything a transaction touches.
	accountLocks *sync_util.StripedLock

	programsMu sync.RWMutex
	programs   map[string]solana.Program
}

// NewBank returns a bank running the system, token and faucet programs. The
// faucet is deployed at the configured program ID.
func NewBank(accounts account.Store, configProvider ConfigProvider) (*Bank, error) {
	conf := configProvider()

	encodedProgramId := conf.faucetProgramId.Get(context.Background())
	faucetProgram, err := base58.Decode(encodedProgramId)
	if err != nil {
		return nil, errors.Wrap(err, "invalid faucet program id")
	}
	if len(faucetProgram) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid faucet program id length: %d", len(faucetProgram))
	}

	var requestLimiter rate.Limiter = &rate.NoLimiter{}
	if limit := conf.requestRateLimit.Get(context.Background()); limit > 0 {
		requestLimiter = rate.NewLocalRateLimiter(limit)
	}

	b := &Bank{
		log:            logrus.StandardLogger().WithField("type", "solana/runtime"),
		conf:           conf,
		accounts:       accounts,
		faucetProgram:  faucetProgram,
		requestLimiter: requestLimiter,
		accountLocks:   sync_util.NewStripedLock(accountLockStripes),
		programs:       make(map[string]solana.Program),
	}

	b.RegisterProgram(system.ProgramKey[:], system.NewProcessor())
	b.RegisterProgram(token.ProgramKey, token.NewProcessor())
	b.RegisterProgram(faucetProgram, faucet.NewProcessor())

	return b, nil
}

// FaucetProgramID returns the key the faucet program is deployed at.
func (b *Bank) FaucetProgramID() ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), b.faucetProgram...)
}

// RegisterProgram deploys program at key, replacing any existing program.
func (b *Bank) RegisterProgram(key ed25519.PublicKey, program solana.Program) {
	b.programsMu.Lock()
	defer b.programsMu.Unlock()

	b.programs[string(key)] = program
}

// GetAccount returns the committed state of an account.
//
// Returns account.ErrAccountNotFound if the account doesn't exist.
func (b *Bank) GetAccount(ctx context.Context, key ed25519.PublicKey) (*solana.AccountInfo, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetAccount")
	defer tracer.End()

	b.programsMu.RLock()
	defer b.programsMu.RUnlock()

	mu := b.accountLocks.Get(key)
	mu.RLock()
	defer mu.RUnlock()

	if info, ok := b.getBuiltinAccount(key, b.getRent(ctx)); ok {
		return info, nil
	}

	record, err := b.accounts.Get(ctx, key)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return record.ToAccountInfo(), nil
}

// ExecuteTransaction runs every instruction in order and commits their
// combined changes. Program failures are returned as a solana.InstructionError
// for the failing instruction, in which case no changes are committed.
func (b *Bank) ExecuteTransaction(ctx context.Context, instructions ...solana.Instruction) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ExecuteTransaction")
	defer tracer.End()

	start := time.Now()
	err := b.executeTransaction(ctx, instructions)
	recordTransactionExecutedEvent(ctx, len(instructions), time.Since(start), err)
	if err != nil {
		tracer.OnError(err)
	}
	return err
}

func (b *Bank) executeTransaction(ctx context.Context, instructions []solana.Instruction) error {
	log := b.log.WithFields(logrus.Fields{
		"method":      "ExecuteTransaction",
		"transaction": uuid.New().String(),
	})

	if len(instructions) == 0 {
		return ErrEmptyTransaction
	}

	if err := b.checkRequestRate(instructions); err != nil {
		log.WithError(err).Info("transaction rejected")
		return err
	}

	b.programsMu.RLock()
	defer b.programsMu.RUnlock()

	var keys [][]byte
	for _, instruction := range instructions {
		for _, meta := range instruction.Accounts {
			keys = append(keys, meta.PublicKey)
		}
	}
	unlock := b.accountLocks.LockAll(keys...)
	defer unlock()

	txn := newTransaction(ctx, b, log)

	for i, instruction := range instructions {
		log := log.WithFields(logrus.Fields{
			"instruction": i,
			"program":     base58.Encode(instruction.Program),
		})

		err := txn.invoke(instruction, 0)
		if err == nil {
			continue
		}

		var faucetErr faucet.Error
		if errors.As(err, &faucetErr) {
			log = log.WithField("diagnostic", faucetErr.Diagnostic())
		}
		log.WithError(err).Info("transaction failed")

		return solana.NewInstructionError(i, err)
	}

	records := txn.modifiedRecords()
	if err := b.accounts.Apply(ctx, records...); err != nil {
		log.WithError(err).Warn("failure committing accounts")
		return errors.Wrap(err, "error committing accounts")
	}

	log.WithField("accounts", len(records)).Debug("transaction committed")
	return nil
}

// checkRequestRate applies the request rate limit to the destination of every
// faucet RequestTokens instruction in the transaction.
func (b *Bank) checkRequestRate(instructions []solana.Instruction) error {
	for _, instruction := range instructions {
		if !bytes.Equal(instruction.Program, b.faucetProgram) {
			continue
		}
		if len(instruction.Data) == 0 || instruction.Data[0] != byte(faucet.CommandRequestTokens) {
			continue
		}
		if len(instruction.Accounts) < 4 {
			continue
		}

		destination := base58.Encode(instruction.Accounts[3].PublicKey)
		allowed, err := b.requestLimiter.Allow(destination)
		if err != nil {
			return errors.Wrap(err, "error checking request rate")
		}
		if !allowed {
			return errors.Wrapf(ErrRequestRateExceeded, "destination %s", destination)
		}
	}
	return nil
}

func (b *Bank) getRent(ctx context.Context) system.Rent {
	burnPercent := b.conf.rentBurnPercent.Get(ctx)
	if burnPercent > 100 {
		burnPercent = 100
	}

	return system.Rent{
		LamportsPerByteYear: b.conf.rentLamportsPerByteYear.Get(ctx),
		ExemptionThreshold:  b.conf.rentExemptionThreshold.Get(ctx),
		BurnPercent:         uint8(burnPercent),
	}
}

// getBuiltinAccount returns the accounts that exist without being stored:
// sysvars and deployed programs. The caller must hold b.programsMu.
func (b *Bank) getBuiltinAccount(key ed25519.PublicKey, rent system.Rent) (*solana.AccountInfo, bool) {
	if bytes.Equal(key, system.RentSysVar) {
		return system.NewRentSysvarAccount(rent), true
	}

	if _, ok := b.programs[string(key)]; ok {
		return &solana.AccountInfo{
			Key:        append(ed25519.PublicKey(nil), key...),
			Owner:      append(ed25519.PublicKey(nil), nativeLoader...),
			Lamports:   1,
			Executable: true,
		}, true
	}

	return nil, false
}
