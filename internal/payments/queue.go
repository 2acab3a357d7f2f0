package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const queueKey = "payments:queue"

var ErrQueueEmpty = errors.New("payment queue is empty")

// WorkQueue is the durable FIFO of pending payments, backed by a Redis list.
// Dequeue is destructive: a crash between dequeue and record write loses the
// payment. That trade-off is accepted here over a lease/ack protocol.
type WorkQueue struct {
	client *redis.Client
}

func NewWorkQueue(client *redis.Client) *WorkQueue {
	return &WorkQueue{client: client}
}

func (q *WorkQueue) Enqueue(ctx context.Context, p PaymentRequest) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding payment: %w", err)
	}
	return q.client.RPush(ctx, queueKey, data).Err()
}

// Dequeue pops the oldest pending payment without blocking. ErrQueueEmpty
// signals an empty queue so callers can back off instead of spinning.
func (q *WorkQueue) Dequeue(ctx context.Context) (PaymentRequest, error) {
	raw, err := q.client.LPop(ctx, queueKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return PaymentRequest{}, ErrQueueEmpty
	}
	if err != nil {
		return PaymentRequest{}, err
	}

	var p PaymentRequest
	if err := json.Unmarshal(raw, &p); err != nil {
		return PaymentRequest{}, fmt.Errorf("malformed queue item: %w", err)
	}
	return p, nil
}

func (q *WorkQueue) Purge(ctx context.Context) error {
	return q.client.Del(ctx, queueKey).Err()
}
