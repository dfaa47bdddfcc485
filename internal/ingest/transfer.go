package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SaganOrg/candidate-finder/internal/storage"
)

// Transfer copies the window's source records into the candidates table in
// batches, preserving source order. A failed batch is reported through the
// sink and skipped; the run continues with the next batch. Upserts key on
// talent_id so re-running a window is idempotent.
func (p *Pipeline) Transfer(ctx context.Context, from, to time.Time, sink Sink) error {
	records, err := p.source.ListRecords(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list source records: %w", err)
	}

	total := len(records)
	totalBatches := (total + p.batchSize - 1) / p.batchSize
	processed := 0

	p.logger.Info("transfer started",
		zap.Int("records", total),
		zap.Int("batches", totalBatches),
		zap.Time("from", from),
		zap.Time("to", to),
	)

	for i := 0; i < total; i += p.batchSize {
		end := i + p.batchSize
		if end > total {
			end = total
		}
		batchNum := i/p.batchSize + 1

		batch := make([]storage.Candidate, 0, end-i)
		for _, rec := range records[i:end] {
			batch = append(batch, p.mapping.MapRecord(rec))
		}

		if err := p.store.UpsertBatch(ctx, batch); err != nil {
			p.logger.Error("batch upsert failed",
				zap.Int("batch", batchNum),
				zap.Error(err),
			)
			if emitErr := sink.Emit(newErrorEvent(fmt.Sprintf("Batch %d failed: %v", batchNum, err))); emitErr != nil {
				return emitErr
			}
			continue
		}

		processed += len(batch)
		if err := sink.Emit(newTransferProgress(processed, total, batchNum, totalBatches)); err != nil {
			return err
		}

		if err := sleep(ctx, p.transferDelay); err != nil {
			return err
		}
	}

	p.logger.Info("transfer complete",
		zap.Int("processed", processed),
		zap.Int("total", total),
	)
	return sink.Emit(newTransferComplete(processed, total))
}
