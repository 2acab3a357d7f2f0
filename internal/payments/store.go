package payments

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const historyKey = "payments:history"

// AccountingStore is the durable, time-ordered index of completed payment
// outcomes. Writes are append-only and at-least-once; range reads depend only
// on the requestedAt score, never on insertion order.
type AccountingStore interface {
	Insert(ctx context.Context, record PaymentRecord) error
	Range(ctx context.Context, from, to *time.Time) ([]PaymentRecord, error)
	Purge(ctx context.Context) error
}

// storedRecord is the wire form of a record inside the sorted set. The
// timestamp is duplicated into the member so range reads never need a second
// round trip for the score.
type storedRecord struct {
	CorrelationId string        `json:"correlationId"`
	Amount        float64       `json:"amount"`
	Processor     ProcessorType `json:"processor"`
	RequestedAt   float64       `json:"requested_at"`
}

// RedisStore keeps records in a sorted set scored by requestedAt epoch
// seconds (fractional, millisecond precision).
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000.0
}

// timeFromEpochSeconds inverts epochSeconds. The product has to be rounded,
// not truncated: dividing by 1000 is inexact in float64, so multiplying back
// can land a hair under the original millisecond.
func timeFromEpochSeconds(s float64) time.Time {
	return time.UnixMilli(int64(math.Round(s * 1000))).UTC()
}

func (s *RedisStore) Insert(ctx context.Context, record PaymentRecord) error {
	score := epochSeconds(record.RequestedAt)
	member, err := json.Marshal(storedRecord{
		CorrelationId: record.CorrelationId,
		Amount:        record.Amount,
		Processor:     record.Processor,
		RequestedAt:   score,
	})
	if err != nil {
		return err
	}
	return s.client.ZAdd(ctx, historyKey, redis.Z{Score: score, Member: member}).Err()
}

func (s *RedisStore) Range(ctx context.Context, from, to *time.Time) ([]PaymentRecord, error) {
	min, max := "-inf", "+inf"
	if from != nil {
		min = strconv.FormatFloat(epochSeconds(*from), 'f', -1, 64)
	}
	if to != nil {
		max = strconv.FormatFloat(epochSeconds(*to), 'f', -1, 64)
	}

	members, err := s.client.ZRangeByScore(ctx, historyKey, &redis.ZRangeBy{Min: min, Max: max}).Result()
	if err != nil {
		return nil, err
	}

	records := make([]PaymentRecord, 0, len(members))
	for _, m := range members {
		var sr storedRecord
		if err := json.Unmarshal([]byte(m), &sr); err != nil {
			s.logger.Warn("skipping malformed accounting record", "error", err)
			continue
		}
		records = append(records, PaymentRecord{
			CorrelationId: sr.CorrelationId,
			Amount:        sr.Amount,
			Processor:     sr.Processor,
			RequestedAt:   timeFromEpochSeconds(sr.RequestedAt),
		})
	}
	return records, nil
}

func (s *RedisStore) Purge(ctx context.Context) error {
	return s.client.Del(ctx, historyKey).Err()
}
