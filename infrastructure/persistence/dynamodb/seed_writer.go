package dynamodb

import (
	"context"
	"fmt"
	"time"

	"comments-backend/infrastructure/persistence/seed"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// BatchWriteAPI is the subset of the DynamoDB client the seed writer uses
type BatchWriteAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// maxUnprocessedRetries bounds how often throttled items are resubmitted
const maxUnprocessedRetries = 5

// SeedWriter stores seed records in the layout SeedSource reads
type SeedWriter struct {
	client    BatchWriteAPI
	tableName string
	logger    *zap.Logger
	backoff   time.Duration
}

// NewSeedWriter creates a seed writer for tableName
func NewSeedWriter(client BatchWriteAPI, tableName string, logger *zap.Logger) *SeedWriter {
	return &SeedWriter{
		client:    client,
		tableName: tableName,
		logger:    logger,
		backoff:   100 * time.Millisecond,
	}
}

// WriteRecords puts every record under threadID. Existing comments with the
// same id are overwritten. Records are validated before anything is written.
func (w *SeedWriter) WriteRecords(ctx context.Context, threadID string, records []seed.Record) (int, error) {
	if _, err := seed.ToComments(records, time.Now()); err != nil {
		return 0, err
	}

	seen := make(map[int64]struct{}, len(records))
	requests := make([]types.WriteRequest, 0, len(records))
	for _, r := range records {
		// BatchWriteItem rejects two puts for the same key in one call
		if _, dup := seen[r.ID]; dup {
			return 0, fmt.Errorf("duplicate comment id %d", r.ID)
		}
		seen[r.ID] = struct{}{}

		item, err := ItemFromRecord(threadID, r)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal comment %d: %w", r.ID, err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}

	written := 0
	for i := 0; i < len(requests); i += maxBatchWrite {
		end := min(i+maxBatchWrite, len(requests))
		if err := w.writeBatch(ctx, requests[i:end]); err != nil {
			return written, err
		}
		written += end - i
	}

	w.logger.Info("Wrote seed comments",
		zap.String("table", w.tableName),
		zap.String("threadID", threadID),
		zap.Int("count", written),
	)

	return written, nil
}

func (w *SeedWriter) writeBatch(ctx context.Context, batch []types.WriteRequest) error {
	pending := batch
	for attempt := 0; ; attempt++ {
		out, err := w.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{w.tableName: pending},
		})
		if err != nil {
			return fmt.Errorf("failed to write seed batch: %w", err)
		}

		pending = out.UnprocessedItems[w.tableName]
		if len(pending) == 0 {
			return nil
		}
		if attempt >= maxUnprocessedRetries {
			return fmt.Errorf("failed to write %d seed comments after %d retries", len(pending), attempt)
		}

		w.logger.Debug("Retrying unprocessed seed items",
			zap.Int("pending", len(pending)),
			zap.Int("attempt", attempt+1),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.backoff << attempt):
		}
	}
}
