// Package worker copies saved records to the external ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kyatbook/internal/amqp"
	"kyatbook/internal/core"
	"kyatbook/internal/ledger"
	"kyatbook/internal/observability"
	"kyatbook/internal/storage"
)

// SyncWorker pushes records from SQLite to the external ledger. Messages
// from the broker trigger individual syncs, a periodic pass catches records
// whose messages were lost.
type SyncWorker struct {
	storage   *storage.Repository
	ledger    ledger.RecordAppender
	batchSize int
}

func NewSyncWorker(storage *storage.Repository, appender ledger.RecordAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		ledger:    appender,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one record sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(msg *amqp.RecordSyncMessage) error {
	ctx := context.Background()

	rec, err := w.storage.GetRecord(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Record was never saved or the database was reset. Drop the
			// message rather than requeueing it forever.
			slog.WarnContext(ctx, "Sync message for unknown record", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("get record from storage: %w", err)
	}

	return w.syncRecord(ctx, rec.ID, rec)
}

// ProcessPendingRecords syncs records that never made it to the ledger, up
// to one batch per call.
func (w *SyncWorker) ProcessPendingRecords(ctx context.Context) error {
	pending, err := w.storage.PendingSyncRecords(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending records: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(pending))

	var failed int
	for _, rec := range pending {
		if err := w.syncRecord(ctx, rec.ID, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending record",
				"id", rec.ID, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pending records failed to sync", failed, len(pending))
	}
	return nil
}

func (w *SyncWorker) syncRecord(ctx context.Context, id int64, rec core.Record) error {
	rowRef, err := w.ledger.Append(ctx, rec)
	if err != nil {
		observability.LedgerSyncs.WithLabelValues("error").Inc()
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append record to ledger: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}

	observability.LedgerSyncs.WithLabelValues("ok").Inc()
	slog.InfoContext(ctx, "Record synced to ledger", "id", id, "row", rowRef)
	return nil
}
