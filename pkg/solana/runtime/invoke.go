package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"math/bits"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/token-faucet/pkg/solana"
	"github.com/code-payments/token-faucet/pkg/solana/runtime/account"
	"github.com/code-payments/token-faucet/pkg/solana/system"
)

// maxInvokeDepth bounds nested cross-program invocations. Top level
// instructions run at depth 0.
const maxInvokeDepth = 4

// transaction holds the working images of every account referenced so far.
type transaction struct {
	ctx  context.Context
	bank *Bank
	log  *logrus.Entry
	rent system.Rent

	images    map[string]*solana.AccountInfo
	originals map[string]*solana.AccountInfo
	builtins  map[string]struct{}
	order     []string
}

func newTransaction(ctx context.Context, bank *Bank, log *logrus.Entry) *transaction {
	return &transaction{
		ctx:       ctx,
		bank:      bank,
		log:       log,
		rent:      bank.getRent(ctx),
		images:    make(map[string]*solana.AccountInfo),
		originals: make(map[string]*solana.AccountInfo),
		builtins:  make(map[string]struct{}),
	}
}

// load returns the working image for key. Unknown accounts are empty and
// owned by the system program.
func (t *transaction) load(key ed25519.PublicKey) (*solana.AccountInfo, error) {
	if image, ok := t.images[string(key)]; ok {
		return image, nil
	}

	image, isBuiltin := t.bank.getBuiltinAccount(key, t.rent)
	if isBuiltin {
		t.builtins[string(key)] = struct{}{}
	} else {
		record, err := t.bank.accounts.Get(t.ctx, key)
		switch err {
		case nil:
			image = record.ToAccountInfo()
		case account.ErrAccountNotFound:
			image = &solana.AccountInfo{
				Key:   append(ed25519.PublicKey(nil), key...),
				Owner: append(ed25519.PublicKey(nil), system.ProgramKey[:]...),
			}
		default:
			return nil, errors.Wrapf(err, "error loading account %s", base58.Encode(key))
		}
	}

	t.images[string(key)] = image
	t.originals[string(key)] = image.Clone()
	t.order = append(t.order, string(key))
	return image, nil
}

// invoke executes instruction and, if the program succeeds and respects the
// account rules, applies its changes to the working images.
func (t *transaction) invoke(instruction solana.Instruction, depth int) error {
	if depth > maxInvokeDepth {
		return solana.InstructionErrorCallDepth
	}

	program, ok := t.bank.programs[string(instruction.Program)]
	if !ok {
		return solana.InstructionErrorUnsupportedProgramID
	}

	f, err := t.newFrame(instruction)
	if err != nil {
		return err
	}

	ctx := &invokeContext{
		txn:   t,
		frame: f,
		depth: depth,
	}
	if err := program.Process(ctx, instruction.Data); err != nil {
		return err
	}

	return t.applyFrame(f)
}

// modifiedRecords returns the records of every stored account whose image
// differs from the committed state.
func (t *transaction) modifiedRecords() []*account.Record {
	var records []*account.Record
	for _, key := range t.order {
		if _, ok := t.builtins[key]; ok {
			continue
		}

		image, original := t.images[key], t.originals[key]
		if isUnchanged(original, image) {
			continue
		}
		records = append(records, account.FromAccountInfo(image))
	}
	return records
}

// frame is the set of account views a program executes against. Duplicate
// account references share a single view whose privileges are the union of
// every reference.
type frame struct {
	program  ed25519.PublicKey
	accounts []*solana.AccountInfo

	keys  []string
	views map[string]*solana.AccountInfo
	pre   map[string]*solana.AccountInfo
}

func (t *transaction) newFrame(instruction solana.Instruction) (*frame, error) {
	f := &frame{
		program: instruction.Program,
		views:   make(map[string]*solana.AccountInfo),
		pre:     make(map[string]*solana.AccountInfo),
	}

	for _, meta := range instruction.Accounts {
		if len(meta.PublicKey) != ed25519.PublicKeySize {
			return nil, solana.InstructionErrorInvalidArgument
		}

		key := string(meta.PublicKey)
		view, ok := f.views[key]
		if !ok {
			image, err := t.load(meta.PublicKey)
			if err != nil {
				return nil, err
			}

			view = image.Clone()
			view.IsSigner = false
			view.IsWritable = false

			f.keys = append(f.keys, key)
			f.views[key] = view
			f.pre[key] = image.Clone()
		}

		view.IsSigner = view.IsSigner || meta.IsSigner
		if _, isBuiltin := t.builtins[key]; !isBuiltin {
			view.IsWritable = view.IsWritable || meta.IsWritable
		}

		f.accounts = append(f.accounts, view)
	}

	return f, nil
}

// applyFrame verifies the changes made through a frame and writes them to the
// working images.
func (t *transaction) applyFrame(f *frame) error {
	if err := f.verify(); err != nil {
		return err
	}

	for _, key := range f.keys {
		image, view := t.images[key], f.views[key]
		image.Owner = append(ed25519.PublicKey(nil), view.Owner...)
		image.Lamports = view.Lamports
		image.Data = append([]byte(nil), view.Data...)
		image.Executable = view.Executable

		f.pre[key] = image.Clone()
	}

	return nil
}

// refresh replaces the frame's views with the working images, in place, so a
// program observes the changes made by the programs it invoked.
func (t *transaction) refresh(f *frame) {
	for _, key := range f.keys {
		image, view := t.images[key], f.views[key]
		view.Owner = append(ed25519.PublicKey(nil), image.Owner...)
		view.Lamports = image.Lamports
		view.Data = append([]byte(nil), image.Data...)
		view.Executable = image.Executable

		f.pre[key] = image.Clone()
	}
}

// verify enforces the account rules on every change made through the frame
// since it was created or last applied:
//
//   - executable accounts never change
//   - readonly accounts never change
//   - only the owner changes an account's data or assigns it a new owner, and
//     only while its data is zeroed
//   - only the owner debits an account
//   - lamports are neither created nor destroyed
func (f *frame) verify() error {
	var preTotal, postTotal lamportTotal

	for _, key := range f.keys {
		pre, post := f.pre[key], f.views[key]
		preTotal.add(pre.Lamports)
		postTotal.add(post.Lamports)

		if isUnchanged(pre, post) {
			continue
		}

		if pre.Executable || post.Executable {
			return solana.InstructionErrorExecutableModified
		}

		lamportsChanged := pre.Lamports != post.Lamports
		dataChanged := !bytes.Equal(pre.Data, post.Data)
		ownerChanged := !bytes.Equal(pre.Owner, post.Owner)
		isOwner := pre.IsOwnedBy(f.program)

		if !post.IsWritable {
			if lamportsChanged {
				return solana.InstructionErrorReadonlyLamportChange
			}
			if dataChanged {
				return solana.InstructionErrorReadonlyDataModified
			}
			return solana.InstructionErrorModifiedProgramID
		}

		if ownerChanged && (!isOwner || !isZeroed(post.Data)) {
			return solana.InstructionErrorModifiedProgramID
		}
		if dataChanged && !isOwner {
			return solana.InstructionErrorExternalAccountDataModified
		}
		if post.Lamports < pre.Lamports && !isOwner {
			return solana.InstructionErrorExternalLamportSpend
		}
	}

	if preTotal != postTotal {
		return solana.InstructionErrorUnbalancedInstruction
	}
	return nil
}

// invokeContext is the solana.InvokeContext of a program executing a frame.
type invokeContext struct {
	txn   *transaction
	frame *frame
	depth int
}

func (c *invokeContext) ProgramID() ed25519.PublicKey {
	return c.frame.program
}

func (c *invokeContext) Accounts() []*solana.AccountInfo {
	return c.frame.accounts
}

func (c *invokeContext) RentMinimum(dataLen uint64) uint64 {
	return c.txn.rent.MinimumBalance(dataLen)
}

// InvokeSigned executes instruction on behalf of the calling program. The
// callee may only be granted privileges the caller holds, plus signatures of
// addresses the caller derives from signerSeeds.
func (c *invokeContext) InvokeSigned(instruction solana.Instruction, signerSeeds ...[][]byte) error {
	caller := c.frame

	var signers []ed25519.PublicKey
	for _, seeds := range signerSeeds {
		address, err := solana.CreateProgramAddress(caller.program, seeds...)
		if err != nil {
			return errors.Wrap(solana.InstructionErrorInvalidSeeds, err.Error())
		}
		signers = append(signers, address)
	}

	for _, meta := range instruction.Accounts {
		view, ok := caller.views[string(meta.PublicKey)]
		if !ok {
			return solana.InstructionErrorMissingAccount
		}

		if meta.IsWritable && !view.IsWritable {
			return solana.InstructionErrorPrivilegeEscalation
		}
		if meta.IsSigner && !view.IsSigner && !containsKey(signers, meta.PublicKey) {
			return solana.InstructionErrorPrivilegeEscalation
		}
	}

	if err := c.txn.applyFrame(caller); err != nil {
		return err
	}

	c.txn.log.WithFields(logrus.Fields{
		"caller": base58.Encode(caller.program),
		"callee": base58.Encode(instruction.Program),
		"depth":  c.depth + 1,
	}).Trace("invoking program")

	if err := c.txn.invoke(instruction, c.depth+1); err != nil {
		return err
	}

	c.txn.refresh(caller)
	return nil
}

func (c *invokeContext) Log(msg string) {
	c.txn.log.WithField("program", base58.Encode(c.frame.program)).Debug(msg)
}

// lamportTotal is a 128-bit sum, so totals over many large balances can be
// compared without overflow.
type lamportTotal struct {
	hi, lo uint64
}

func (t *lamportTotal) add(lamports uint64) {
	var carry uint64
	t.lo, carry = bits.Add64(t.lo, lamports, 0)
	t.hi += carry
}

func isUnchanged(a, b *solana.AccountInfo) bool {
	return a.Lamports == b.Lamports &&
		a.Executable == b.Executable &&
		bytes.Equal(a.Owner, b.Owner) &&
		bytes.Equal(a.Data, b.Data)
}

func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

func containsKey(keys []ed25519.PublicKey, key ed25519.PublicKey) bool {
	for _, k := range keys {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}
