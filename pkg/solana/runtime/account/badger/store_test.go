package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/token-faucet/pkg/solana/runtime/account"
	"github.com/code-payments/token-faucet/pkg/solana/runtime/account/tests"
	"github.com/code-payments/token-faucet/pkg/testutil"
)

func TestAccountBadgerStore(t *testing.T) {
	testStore, err := Open(t.TempDir())
	require.NoError(t, err)
	defer testStore.Close()

	teardown := func() {
		require.NoError(t, testStore.reset())
	}

	tests.RunTests(t, testStore, teardown)
}

func TestAccountBadgerStore_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	keys := testutil.GenerateSolanaKeys(t, 2)
	record := &account.Record{
		Address:    keys[0],
		Owner:      keys[1],
		Lamports:   42,
		Data:       []byte{1, 2, 3},
		Executable: true,
	}

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Apply(ctx, record))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	actual, err := s.Get(ctx, record.Address)
	require.NoError(t, err)
	assert.Equal(t, record, actual)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
