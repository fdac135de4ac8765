package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dshills/workflow-go/fixtures/orderprocessing"
	"github.com/dshills/workflow-go/workflow"
	"github.com/dshills/workflow-go/workflow/store"
)

func seedPendingSend(t *testing.T, mem store.Store, workflowId string, out orderprocessing.Output) {
	t.Helper()
	if _, err := mem.AppendAsync(context.Background(), workflowId, []store.WorkflowMessage{
		{Kind: store.KindCommand, Direction: store.DirectionOutput, MessageType: string(workflow.CommandSend), Message: out},
	}, ""); err != nil {
		t.Fatalf("seed pending command: %v", err)
	}
}

// TestOutputProcessor_ClaimBeforeExecuteDispatchesExactlyOnce covers the
// default mark policy's exclusivity guarantee: N concurrent polls over the
// same pending command result in exactly one handler invocation.
func TestOutputProcessor_ClaimBeforeExecuteDispatchesExactlyOnce(t *testing.T) {
	mem := store.NewMemStore()
	seedPendingSend(t, mem, "order:g1", orderprocessing.Output{Kind: orderprocessing.ProcessPayment, OrderId: "g1"})

	var invocations int32
	var mu sync.Mutex
	registry := workflow.NewHandlerRegistry[orderprocessing.Output]()
	registry.Register(string(workflow.CommandSend), func(_ context.Context, _ orderprocessing.Output) error {
		mu.Lock()
		invocations++
		mu.Unlock()
		return nil
	})

	opts := workflow.NewOptions(workflow.WithMarkPolicy(workflow.MarkClaimBeforeExecute))
	processor := workflow.NewOutputProcessor[orderprocessing.Output](mem, registry, opts, nil, nil)

	const pollers = 10
	var wg sync.WaitGroup
	ctx := context.Background()
	for i := 0; i < pollers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pollOnceForTest(t, processor, ctx)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if invocations != 1 {
		t.Fatalf("handler invocations = %d, want exactly 1", invocations)
	}
}

func TestOutputProcessor_ExecuteBeforeClaimRetriesUntilSuccess(t *testing.T) {
	mem := store.NewMemStore()
	seedPendingSend(t, mem, "order:g2", orderprocessing.Output{Kind: orderprocessing.ProcessPayment, OrderId: "g2"})

	var attempts int
	registry := workflow.NewHandlerRegistry[orderprocessing.Output]()
	registry.Register(string(workflow.CommandSend), func(_ context.Context, _ orderprocessing.Output) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient failure")
		}
		return nil
	})

	opts := workflow.NewOptions(
		workflow.WithMarkPolicy(workflow.MarkExecuteBeforeClaim),
		workflow.WithHandlerRetryPolicy(&workflow.RetryPolicy{
			MaxAttempts: 5,
			BaseDelay:   time.Millisecond,
			MaxDelay:    5 * time.Millisecond,
		}),
	)
	processor := workflow.NewOutputProcessor[orderprocessing.Output](mem, registry, opts, nil, nil)

	pollOnceForTest(t, processor, context.Background())

	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3 (fail, fail, succeed)", attempts)
	}

	pending, err := mem.GetPendingCommandsAsync(context.Background(), "order:g2", 0)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("command should be marked processed after eventual success: %+v", pending)
	}
}

func TestOutputProcessor_ExecuteBeforeClaimLeavesCommandPendingOnPermanentFailure(t *testing.T) {
	mem := store.NewMemStore()
	seedPendingSend(t, mem, "order:g3", orderprocessing.Output{Kind: orderprocessing.ProcessPayment, OrderId: "g3"})

	registry := workflow.NewHandlerRegistry[orderprocessing.Output]()
	registry.Register(string(workflow.CommandSend), func(_ context.Context, _ orderprocessing.Output) error {
		return errors.New("permanent failure")
	})

	opts := workflow.NewOptions(
		workflow.WithMarkPolicy(workflow.MarkExecuteBeforeClaim),
		workflow.WithHandlerRetryPolicy(&workflow.RetryPolicy{
			MaxAttempts: 2,
			BaseDelay:   time.Millisecond,
			MaxDelay:    2 * time.Millisecond,
		}),
	)
	processor := workflow.NewOutputProcessor[orderprocessing.Output](mem, registry, opts, nil, nil)

	pollOnceForTest(t, processor, context.Background())

	pending, err := mem.GetPendingCommandsAsync(context.Background(), "order:g3", 0)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("command should remain pending after exhausting retries, got %d pending", len(pending))
	}
}

// pollOnceForTest drives OutputProcessor.Run for a single tick by cancelling
// its context right after the first poll completes, avoiding a direct
// dependency on the processor's unexported pollOnce from the external test
// package.
func pollOnceForTest(t *testing.T, processor interface{ Run(context.Context) error }, parent context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(parent, 50*time.Millisecond)
	defer cancel()
	if err := processor.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		t.Fatalf("processor run: %v", err)
	}
}
