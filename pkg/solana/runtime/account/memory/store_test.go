package memory

import (
	"testing"

	"github.com/code-payments/token-faucet/pkg/solana/runtime/account/tests"
)

func TestAccountMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}

	tests.RunTests(t, testStore, teardown)
}
