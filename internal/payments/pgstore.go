package payments

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the alternative accounting backend for deployments that
// already run Postgres. Same contract as the Redis store; the range scan is
// indexed on requested_at. Schema lives in migrations/init.sql.
type PostgresStore struct {
	dbpool *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresStore(dbpool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{dbpool: dbpool, logger: logger}
}

func (s *PostgresStore) Insert(ctx context.Context, record PaymentRecord) error {
	_, err := s.dbpool.Exec(ctx,
		"INSERT INTO payments (correlation_id, amount, processor, requested_at) VALUES ($1, $2, $3, $4)",
		record.CorrelationId, record.Amount, string(record.Processor), record.RequestedAt,
	)
	return err
}

func (s *PostgresStore) Range(ctx context.Context, from, to *time.Time) ([]PaymentRecord, error) {
	const query = `
	SELECT correlation_id, amount, processor, requested_at
	FROM payments
	WHERE ($1::timestamptz IS NULL OR requested_at >= $1::timestamptz)
	  AND ($2::timestamptz IS NULL OR requested_at <= $2::timestamptz)`

	rows, err := s.dbpool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PaymentRecord
	for rows.Next() {
		var r PaymentRecord
		var processor string
		if err := rows.Scan(&r.CorrelationId, &r.Amount, &processor, &r.RequestedAt); err != nil {
			return nil, err
		}
		r.Processor = ProcessorType(processor)
		r.RequestedAt = r.RequestedAt.UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Purge(ctx context.Context) error {
	_, err := s.dbpool.Exec(ctx, "TRUNCATE TABLE payments")
	return err
}
