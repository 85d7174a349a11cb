// Package redisstore indexes normalized records in Redis for
// similar-error retrieval: one hash per record plus a per-error-type set
// of record ids. It stands in for the embedding/similarity collaborator.
package redisstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vburojevic/errlens/internal/domain"
)

const (
	recordKeyPrefix = "errlens:record:"
	typeKeyPrefix   = "errlens:errortype:"
)

// SimilarityStore indexes and retrieves records by error type.
type SimilarityStore struct {
	client *redis.Client
	logger *zap.Logger
}

// New returns a store over an open Redis client.
func New(client *redis.Client, logger *zap.Logger) *SimilarityStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimilarityStore{client: client, logger: logger}
}

// IndexTable writes every record with a non-null error value as a hash
// and adds its id to the error type's set. Returns the number indexed.
func (s *SimilarityStore) IndexTable(ctx context.Context, t *domain.Table) (int, error) {
	if t.Empty() {
		return 0, nil
	}
	errorCol := t.ErrorColumn()
	if errorCol == "" {
		s.logger.Warn("no error column, nothing to index")
		return 0, nil
	}

	pipe := s.client.Pipeline()
	indexed := 0
	for _, row := range t.Rows {
		errorType := domain.CellString(row[errorCol])
		if errorType == "" {
			continue
		}
		id := uuid.NewString()
		fields := make(map[string]any, len(row))
		for k, v := range row {
			fields[k] = domain.CellString(v)
		}
		pipe.HSet(ctx, recordKeyPrefix+id, fields)
		pipe.SAdd(ctx, typeKeyPrefix+errorType, id)
		indexed++
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("index records in redis: %w", err)
	}
	s.logger.Info("indexed records for similarity lookup", zap.Int("count", indexed))
	return indexed, nil
}

// SimilarRecords returns up to limit records that share the given error
// type. A type never seen yields an empty result, not an error.
func (s *SimilarityStore) SimilarRecords(ctx context.Context, errorType string, limit int) ([]domain.Record, error) {
	ids, err := s.client.SRandMemberN(ctx, typeKeyPrefix+errorType, int64(limit)).Result()
	if err != nil {
		return nil, fmt.Errorf("lookup error type %q: %w", errorType, err)
	}

	var records []domain.Record
	for _, id := range ids {
		fields, err := s.client.HGetAll(ctx, recordKeyPrefix+id).Result()
		if err != nil {
			return nil, fmt.Errorf("load record %s: %w", id, err)
		}
		if len(fields) == 0 {
			continue
		}
		record := make(domain.Record, len(fields))
		for k, v := range fields {
			record[k] = v
		}
		records = append(records, record)
	}
	return records, nil
}
