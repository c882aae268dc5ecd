package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/token-faucet/pkg/solana/runtime/account"
	"github.com/code-payments/token-faucet/pkg/solana/runtime/account/tests"
	"github.com/code-payments/token-faucet/pkg/testutil"
)

func TestAccountBoltStore(t *testing.T) {
	testStore, err := Open(filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	defer testStore.Close()

	teardown := func() {
		require.NoError(t, testStore.reset())
	}

	tests.RunTests(t, testStore, teardown)
}

func TestAccountBoltStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "accounts.db")

	keys := testutil.GenerateSolanaKeys(t, 2)
	record := &account.Record{
		Address:  keys[0],
		Owner:    keys[1],
		Lamports: 42,
		Data:     []byte{1, 2, 3},
	}

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Apply(ctx, record))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	actual, err := s.Get(ctx, record.Address)
	require.NoError(t, err)
	assert.Equal(t, record, actual)
}
