package account

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/token-faucet/pkg/solana"
	"github.com/code-payments/token-faucet/pkg/solana/binary"
)

// Layout of an encoded record, excluding the address which is used as the
// storage key.
const (
	headerSize = 32 + // owner
		8 + // lamports
		1 // executable
)

type Record struct {
	Address    ed25519.PublicKey
	Owner      ed25519.PublicKey
	Lamports   uint64
	Data       []byte
	Executable bool
}

// FromAccountInfo returns the record for an account image.
func FromAccountInfo(info *solana.AccountInfo) *Record {
	return &Record{
		Address:    append(ed25519.PublicKey(nil), info.Key...),
		Owner:      append(ed25519.PublicKey(nil), info.Owner...),
		Lamports:   info.Lamports,
		Data:       append([]byte(nil), info.Data...),
		Executable: info.Executable,
	}
}

// ToAccountInfo returns a readonly, unsigned account image of the record.
func (r *Record) ToAccountInfo() *solana.AccountInfo {
	return &solana.AccountInfo{
		Key:        append(ed25519.PublicKey(nil), r.Address...),
		Owner:      append(ed25519.PublicKey(nil), r.Owner...),
		Lamports:   r.Lamports,
		Data:       append([]byte(nil), r.Data...),
		Executable: r.Executable,
	}
}

func (r *Record) Validate() error {
	if len(r.Address) != ed25519.PublicKeySize {
		return errors.New("address is invalid")
	}

	if len(r.Owner) != ed25519.PublicKeySize {
		return errors.New("owner is invalid")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Address:    append(ed25519.PublicKey(nil), r.Address...),
		Owner:      append(ed25519.PublicKey(nil), r.Owner...),
		Lamports:   r.Lamports,
		Data:       append([]byte(nil), r.Data...),
		Executable: r.Executable,
	}
}

// Marshal encodes everything but the address.
func (r *Record) Marshal() []byte {
	b := make([]byte, headerSize+len(r.Data))

	var offset int
	binary.PutKey32(b[offset:], r.Owner, &offset)
	binary.PutUint64(b[offset:], r.Lamports, &offset)
	binary.PutBool(b[offset:], r.Executable, &offset)
	copy(b[offset:], r.Data)

	return b
}

// Unmarshal decodes a value produced by Marshal for the record stored under
// address.
func (r *Record) Unmarshal(address ed25519.PublicKey, b []byte) error {
	if len(b) < headerSize {
		return errors.Errorf("invalid record size: %d", len(b))
	}

	var offset int
	r.Address = append(ed25519.PublicKey(nil), address...)
	binary.GetKey32(b[offset:], &r.Owner, &offset)
	binary.GetUint64(b[offset:], &r.Lamports, &offset)
	binary.GetBool(b[offset:], &r.Executable, &offset)
	r.Data = append([]byte(nil), b[offset:]...)

	return nil
}

func (r *Record) String() string {
	return fmt.Sprintf(
		"Record{address=%s,owner=%s,lamports=%d,data_len=%d,executable=%v}",
		base58.Encode(r.Address),
		base58.Encode(r.Owner),
		r.Lamports,
		len(r.Data),
		r.Executable,
	)
}
