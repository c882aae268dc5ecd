package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/token-faucet/pkg/solana/runtime/account"
	"github.com/code-payments/token-faucet/pkg/testutil"
)

func RunTests(t *testing.T, s account.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s account.Store){
		testHappyPath,
		testBatchApply,
		testZeroLamportsPurge,
		testInvalidRecord,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s account.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()
		keys := testutil.GenerateSolanaKeys(t, 2)

		record := &account.Record{
			Address:  keys[0],
			Owner:    keys[1],
			Lamports: 1_000,
			Data:     []byte{1, 2, 3, 4},
		}
		cloned := record.Clone()

		_, err := s.Get(ctx, record.Address)
		assert.Equal(t, account.ErrAccountNotFound, err)

		require.NoError(t, s.Apply(ctx, record))

		actual, err := s.Get(ctx, record.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, &cloned, actual)

		actual.Data[0] = 0xff
		actual, err = s.Get(ctx, record.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, &cloned, actual)

		record.Lamports = 2_000
		record.Data = []byte{5, 6}
		record.Executable = true
		cloned = record.Clone()
		require.NoError(t, s.Apply(ctx, record))

		actual, err = s.Get(ctx, record.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, &cloned, actual)

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func testBatchApply(t *testing.T, s account.Store) {
	t.Run("testBatchApply", func(t *testing.T) {
		ctx := context.Background()
		keys := testutil.GenerateSolanaKeys(t, 4)

		var records []*account.Record
		for i, key := range keys[:3] {
			records = append(records, &account.Record{
				Address:  key,
				Owner:    keys[3],
				Lamports: uint64(i + 1),
			})
		}
		require.NoError(t, s.Apply(ctx, records...))

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)

		for _, expected := range records {
			actual, err := s.Get(ctx, expected.Address)
			require.NoError(t, err)
			assertEquivalentRecords(t, expected, actual)
		}
	})
}

func testZeroLamportsPurge(t *testing.T, s account.Store) {
	t.Run("testZeroLamportsPurge", func(t *testing.T) {
		ctx := context.Background()
		keys := testutil.GenerateSolanaKeys(t, 3)

		closed := &account.Record{Address: keys[0], Owner: keys[2], Lamports: 10, Data: make([]byte, 8)}
		kept := &account.Record{Address: keys[1], Owner: keys[2], Lamports: 10}
		require.NoError(t, s.Apply(ctx, closed, kept))

		closed.Lamports = 0
		kept.Lamports = 20
		require.NoError(t, s.Apply(ctx, closed, kept))

		_, err := s.Get(ctx, closed.Address)
		assert.Equal(t, account.ErrAccountNotFound, err)

		actual, err := s.Get(ctx, kept.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, kept, actual)

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		// Removing an unknown account is a no-op
		unknown := &account.Record{Address: keys[2], Owner: keys[2]}
		require.NoError(t, s.Apply(ctx, unknown))
	})
}

func testInvalidRecord(t *testing.T, s account.Store) {
	t.Run("testInvalidRecord", func(t *testing.T) {
		ctx := context.Background()
		keys := testutil.GenerateSolanaKeys(t, 2)

		valid := &account.Record{Address: keys[0], Owner: keys[1], Lamports: 1}
		invalid := &account.Record{Address: keys[1][:31], Owner: keys[1], Lamports: 1}
		assert.Error(t, s.Apply(ctx, valid, invalid))

		_, err := s.Get(ctx, valid.Address)
		assert.Equal(t, account.ErrAccountNotFound, err)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *account.Record) {
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Owner, obj2.Owner)
	assert.Equal(t, obj1.Lamports, obj2.Lamports)
	assert.Equal(t, len(obj1.Data), len(obj2.Data))
	if len(obj1.Data) > 0 {
		assert.Equal(t, obj1.Data, obj2.Data)
	}
	assert.Equal(t, obj1.Executable, obj2.Executable)
}
