// Package postgres stores combined tables in PostgreSQL using the COPY
// protocol for batch writes.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vburojevic/errlens/internal/domain"
	"github.com/vburojevic/errlens/internal/store"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS error_records (
	id UUID PRIMARY KEY,
	source_collection TEXT NOT NULL,
	error_type TEXT,
	event_time TEXT,
	row JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_error_records_type ON error_records (error_type);
CREATE INDEX IF NOT EXISTS idx_error_records_source ON error_records (source_collection);
`

// Store writes and reads combined tables against PostgreSQL.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	clock  clock.Clock
}

// New returns a Store over an open database handle.
func New(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger, clock: clock.New()}
}

// WithClock substitutes the wall clock, for tests.
func (s *Store) WithClock(c clock.Clock) *Store {
	s.clock = c
	return s
}

// Init creates the backing table and indexes if missing.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create error_records table: %w", err)
	}
	return nil
}

// SaveTable writes every row of a combined table in one transaction via
// COPY. Timestamps are serialized to the canonical string form so a
// later load restores them losslessly.
func (s *Store) SaveTable(ctx context.Context, t *domain.Table) error {
	if t.Empty() {
		s.logger.Warn("empty table, nothing to store")
		return nil
	}

	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer txn.Rollback() // no-op after Commit

	stmt, err := txn.PrepareContext(ctx, pq.CopyIn("error_records",
		"id", "source_collection", "error_type", "event_time", "row", "created_at"))
	if err != nil {
		return err
	}

	now := s.clock.Now().UTC()
	errorCol := t.ErrorColumn()
	for _, row := range t.Rows {
		encoded, err := store.EncodeRow(row)
		if err != nil {
			_ = stmt.Close()
			return fmt.Errorf("encode row: %w", err)
		}
		var eventTime any
		if ts, ok := domain.ParseTimestamp(row[domain.ColTimestamp]); ok {
			eventTime = domain.FormatTimestamp(ts)
		}
		var errorType any
		if errorCol != "" {
			if v := domain.CellString(row[errorCol]); v != "" {
				errorType = v
			}
		}
		_, err = stmt.ExecContext(ctx,
			uuid.NewString(),
			domain.CellString(row[domain.ColSource]),
			errorType,
			eventTime,
			encoded,
			now)
		if err != nil {
			_ = stmt.Close()
			return err
		}
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return err
	}

	s.logger.Info("stored combined table", zap.Int("rows", t.Len()))
	return nil
}

// LoadTable reads every stored row back into a combined table, restoring
// timestamp values from their canonical form. Rows that fail to decode
// are skipped with a warning.
func (s *Store) LoadTable(ctx context.Context) (*domain.Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row FROM error_records ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query error_records: %w", err)
	}
	defer rows.Close()

	table := domain.NewTable()
	for rows.Next() {
		var encoded []byte
		if err := rows.Scan(&encoded); err != nil {
			return nil, err
		}
		record, err := store.DecodeRow(encoded)
		if err != nil {
			s.logger.Warn("skipping undecodable stored row", zap.Error(err))
			continue
		}
		table.Append(record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
