// Package store persists structured product records to Postgres.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sbrennan/vapescout/internal/extractor"
)

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it
// in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// ProductStore writes extraction records to the structured_products table.
// It assumes a schema like:
//
//	CREATE TABLE structured_products (
//	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//	    site TEXT NOT NULL,
//	    brand TEXT NOT NULL,
//	    model TEXT NOT NULL,
//	    flavor TEXT NOT NULL,
//	    puff_count TEXT NOT NULL,
//	    nicotine_strength TEXT NOT NULL,
//	    battery_capacity TEXT NOT NULL,
//	    coil_type TEXT NOT NULL,
//	    created_at TIMESTAMPTZ DEFAULT NOW()
//	);
type ProductStore struct {
	pool   PgxPool
	logger *zap.Logger
}

// NewProductStore wraps an existing pool.
func NewProductStore(pool PgxPool, logger *zap.Logger) *ProductStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductStore{pool: pool, logger: logger}
}

// Connect opens a pool for dsn and verifies the connection.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*ProductStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewProductStore(pool, logger), nil
}

const insertRecordSQL = `
	INSERT INTO structured_products
		(site, brand, model, flavor, puff_count, nicotine_strength, battery_capacity, coil_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// SaveRecords inserts each record, stopping at the first failure.
func (s *ProductStore) SaveRecords(ctx context.Context, records []extractor.Record) error {
	for _, rec := range records {
		_, err := s.pool.Exec(ctx, insertRecordSQL,
			rec.Site, rec.Brand, rec.Model, rec.Flavor,
			rec.PuffCount, rec.NicotineStrength, rec.BatteryCapacity, rec.CoilType,
		)
		if err != nil {
			return fmt.Errorf("insert record for site %s: %w", rec.Site, err)
		}
	}
	s.logger.Debug("records saved", zap.Int("count", len(records)))
	return nil
}

// Close releases the underlying pool.
func (s *ProductStore) Close() {
	s.pool.Close()
}
