package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/dshills/workflow-go/fixtures/orderprocessing"
	"github.com/dshills/workflow-go/workflow"
	"github.com/dshills/workflow-go/workflow/store"
)

func TestRouter_RouteAppendsAndNotifies(t *testing.T) {
	mem := store.NewMemStore()
	trigger := workflow.NewChanTrigger(4)
	router := workflow.NewRouter[orderprocessing.Input](mem, trigger)

	ctx := context.Background()
	in := orderprocessing.Input{Kind: orderprocessing.PlaceOrder, OrderId: "order-1"}

	pos, err := router.Route(ctx, "order:order-1", store.KindCommand, string(in.Kind), in, "")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if pos != 1 {
		t.Fatalf("position = %d, want 1", pos)
	}

	msgs, err := mem.ReadStreamAsync(ctx, "order:order-1", 0)
	if err != nil || len(msgs) != 1 {
		t.Fatalf("stream = %+v, %v", msgs, err)
	}
	if msgs[0].Direction != store.DirectionInput {
		t.Fatalf("routed message direction = %v, want Input", msgs[0].Direction)
	}

	select {
	case id := <-trigger.Triggers():
		if id != "order:order-1" {
			t.Fatalf("triggered id = %q, want order:order-1", id)
		}
	case <-time.After(time.Second):
		t.Fatal("router did not notify the trigger")
	}
}

func TestRouter_IdempotencyKeyPreventsDuplicateRouting(t *testing.T) {
	mem := store.NewMemStore()
	trigger := workflow.NewChanTrigger(4)
	router := workflow.NewRouter[orderprocessing.Input](mem, trigger)

	ctx := context.Background()
	in := orderprocessing.Input{Kind: orderprocessing.PlaceOrder, OrderId: "order-2"}

	if _, err := router.Route(ctx, "order:order-2", store.KindCommand, string(in.Kind), in, "req-1"); err != nil {
		t.Fatalf("first route: %v", err)
	}
	<-trigger.Triggers()

	if _, err := router.Route(ctx, "order:order-2", store.KindCommand, string(in.Kind), in, "req-1"); err != store.ErrIdempotencyViolation {
		t.Fatalf("second route error = %v, want ErrIdempotencyViolation", err)
	}

	msgs, _ := mem.ReadStreamAsync(ctx, "order:order-2", 0)
	if len(msgs) != 1 {
		t.Fatalf("stream grew despite duplicate idempotency key: %d messages", len(msgs))
	}
}
