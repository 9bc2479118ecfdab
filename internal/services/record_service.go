package services

import (
	"context"
	"fmt"
	"log/slog"

	"kyatbook/internal/amqp"
	"kyatbook/internal/core"
	"kyatbook/internal/observability"
	"kyatbook/internal/storage"
)

// RecordService orchestrates transfer record operations across SQLite and
// AMQP.
type RecordService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewRecordService(storage *storage.Repository, amqpClient *amqp.Client) *RecordService {
	return &RecordService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateRecord resolves the fee when the caller did not supply one,
// validates the record, saves it, and queues a ledger sync. The sync
// publish is best effort, a saved record is never rolled back because the
// broker is down.
func (s *RecordService) CreateRecord(ctx context.Context, rec core.Record) (core.Record, error) {
	if rec.Fee == 0 {
		// Manual-fee channels never fall back to the bracket table.
		if rec.Pay == core.PayOther || rec.Type == core.TypeBank {
			return core.Record{}, core.ErrInvalidFee
		}
		brackets, err := s.storage.ListFeeBrackets(ctx)
		if err != nil {
			return core.Record{}, fmt.Errorf("load fee brackets: %w", err)
		}
		fee, err := core.ResolveFee(brackets, rec.Amount)
		if err != nil {
			observability.FeeResolutions.WithLabelValues("miss").Inc()
			return core.Record{}, err
		}
		observability.FeeResolutions.WithLabelValues("hit").Inc()
		rec.Fee = fee
	}

	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}

	saved, err := s.storage.CreateRecord(ctx, rec)
	if err != nil {
		return core.Record{}, fmt.Errorf("save record: %w", err)
	}
	observability.RecordsCreated.WithLabelValues(string(saved.Pay)).Inc()

	if err := s.publishSyncMessage(ctx, saved.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", saved.ID, "error", err)
		// Don't fail the request, the record is saved locally and the
		// periodic pending pass will pick it up.
	}

	return saved, nil
}

// RecentRecords returns one page of the newest entries plus the total
// count.
func (s *RecordService) RecentRecords(ctx context.Context, page, limit int) ([]core.Record, int64, error) {
	return s.storage.RecentRecords(ctx, page, limit)
}

// TotalsOrZero sums all amounts and fees. A read failure degrades to zero
// totals so the dashboard widget never errors out.
func (s *RecordService) TotalsOrZero(ctx context.Context) core.Totals {
	totals, err := s.storage.Totals(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read totals, serving zeros", "error", err)
		return core.Totals{}
	}
	return totals
}

func (s *RecordService) publishSyncMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishRecordSync(ctx, id, 1)
}
