package runtime

import (
	"context"
	"time"

	"github.com/code-payments/token-faucet/pkg/metrics"
	"github.com/code-payments/token-faucet/pkg/solana"
)

const (
	transactionExecutedEventName = "TransactionExecuted"
	transactionLatencyMetricName = "Runtime/ExecuteTransaction/Latency"
)

func recordTransactionExecutedEvent(ctx context.Context, instructionCount int, latency time.Duration, err error) {
	kvs := map[string]interface{}{
		"instruction_count": instructionCount,
		"latency_ms":        int(latency / time.Millisecond),
		"success":           err == nil,
	}

	if err != nil {
		kvs["error"] = err.Error()

		if instructionErr, ok := err.(solana.InstructionError); ok {
			kvs["instruction"] = instructionErr.Index
			kvs["error_key"] = string(instructionErr.ErrorKey())
		}
	}

	metrics.RecordEvent(ctx, transactionExecutedEventName, kvs)
	metrics.RecordDuration(ctx, transactionLatencyMetricName, latency)
}
