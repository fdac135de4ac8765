// Command workflowdemo wires the engine's router, consumer, and output
// processor together over the in-memory store and drives an order through
// the orderprocessing fixture end to end, printing every dispatched
// command. It demonstrates the full control-flow loop: external producer ->
// input router -> instance stream -> stream consumer -> appends outputs ->
// output processor -> command handler.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dshills/workflow-go/fixtures/orderprocessing"
	"github.com/dshills/workflow-go/workflow"
	"github.com/dshills/workflow-go/workflow/emit"
	"github.com/dshills/workflow-go/workflow/store"
)

type stdoutBus struct{}

func (stdoutBus) Deliver(_ context.Context, output orderprocessing.Output) error {
	fmt.Printf("→ dispatch %-22s order=%s tracking=%q reason=%q\n", output.Kind, output.OrderId, output.TrackingNumber, output.Reason)
	return nil
}

type stdoutScheduler struct{}

func (stdoutScheduler) ScheduleRedelivery(_ context.Context, orderId string, output orderprocessing.Output) error {
	fmt.Printf("→ schedule %-22s order=%s (redelivery suppressed in demo)\n", output.Kind, orderId)
	return nil
}

func main() {
	mem := store.NewMemStore()
	trigger := workflow.NewChanTrigger(16)
	emitter := emit.NewLogEmitter(os.Stdout, false)

	tp := emit.NewTracerProvider()
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("shutting down tracer provider: %v", err)
		}
	}()

	router := workflow.NewRouter[orderprocessing.Input](mem, trigger)
	consumer := workflow.NewConsumer[orderprocessing.State, orderprocessing.Input, orderprocessing.Output](
		mem, orderprocessing.Decider(), trigger, workflow.DefaultOptions(), nil, emitter,
	)
	registry := orderprocessing.NewHandlers(stdoutBus{}, stdoutScheduler{})
	processor := workflow.NewOutputProcessor[orderprocessing.Output](mem, registry, workflow.DefaultOptions(), nil, emitter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := processor.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("output processor stopped: %v", err)
		}
	}()

	orderId := "order-demo-1"
	inputs := []orderprocessing.Input{
		{Kind: orderprocessing.PlaceOrder, OrderId: orderId},
		{Kind: orderprocessing.PaymentReceived, OrderId: orderId},
		{Kind: orderprocessing.OrderShipped, OrderId: orderId, TrackingNumber: "TRACK-9"},
		{Kind: orderprocessing.OrderDelivered, OrderId: orderId},
	}

	for _, in := range inputs {
		kind := store.KindEvent
		if in.Kind == orderprocessing.PlaceOrder || in.Kind == orderprocessing.CancelOrder {
			kind = store.KindCommand
		}
		if _, err := router.Route(ctx, orderprocessing.RouteByOrderId(in), kind, string(in.Kind), in, ""); err != nil {
			log.Fatalf("routing %v: %v", in.Kind, err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)

	messages, err := mem.ReadStreamAsync(ctx, orderprocessing.RouteByOrderId(inputs[0]), 0)
	if err != nil {
		log.Fatalf("reading final stream: %v", err)
	}
	fmt.Printf("\nfinal stream length: %d messages\n", len(messages))
}
