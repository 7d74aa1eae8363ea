package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/harborlight-care/leadcore/internal/entity"
	"github.com/harborlight-care/leadcore/internal/notify"
)

// ChannelExecutor is what the worker needs from the notification engine:
// deliver one named channel for one event, inline.
type ChannelExecutor interface {
	DispatchChannel(ctx context.Context, channel string, ev notify.Event) notify.ChannelResult
}

// Worker drains the dispatch queue. Manual ack; malformed messages are
// nacked without requeue so they dead-letter instead of wedging the queue.
type Worker struct {
	Channel     *amqp.Channel
	Executor    ChannelExecutor
	Idempotency IdempotencyStore
}

func NewWorker(ch *amqp.Channel, executor ChannelExecutor, idempotency IdempotencyStore) *Worker {
	return &Worker{
		Channel:     ch,
		Executor:    executor,
		Idempotency: idempotency,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack off, we ack by hand
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] failed to register consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			w.Handle(context.Background(), d)
		}
	}()

	log.Printf(" [*] Worker running, waiting on queue '%s'", queueName)
	<-forever
}

// Handle processes a single delivery. Split out so tests can feed
// deliveries without a live broker.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	var task notify.DispatchTask
	if err := json.Unmarshal(d.Body, &task); err != nil {
		log.Printf("❌ [WORKER] invalid task JSON: %s", err)
		// Poison message; reject without requeue so it dead-letters.
		d.Nack(false, false)
		return
	}

	done, err := w.Idempotency.Done(ctx, task.IdempotencyKey)
	if err != nil {
		log.Printf("⚠️ [WORKER] idempotency check failed for %s: %v", task.IdempotencyKey, err)
	}
	if done {
		log.Printf("↩️ [WORKER] %s already delivered, skipping", task.IdempotencyKey)
		d.Ack(false)
		return
	}

	result := w.Executor.DispatchChannel(ctx, task.Channel, task.Event)
	if result.Outcome != entity.OutcomeSent {
		log.Printf("❌ [WORKER] %s via %s failed: %s", task.Event.LeadID, task.Channel, result.Err)
		d.Nack(false, false)
		return
	}

	if err := w.Idempotency.MarkDone(ctx, task.IdempotencyKey); err != nil {
		log.Printf("⚠️ [WORKER] failed to mark %s done: %v", task.IdempotencyKey, err)
	}
	log.Printf("✅ [WORKER] delivered %s via %s", task.Event.LeadID, task.Channel)
	d.Ack(false)
}
