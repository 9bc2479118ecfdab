package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kyatbook/internal/core"
)

// ErrNotFound is returned when a record or user does not exist.
var ErrNotFound = errors.New("not found")

const recordColumns = `id, phone_no, amount, fee, pay, type,
	COALESCE(description, ''), date, entry_person, COALESCE(branch_id, 0), created_at`

func scanRecord(row interface{ Scan(...any) error }) (core.Record, error) {
	var (
		rec       core.Record
		date      string
		createdAt string
	)
	err := row.Scan(&rec.ID, &rec.PhoneNo, &rec.Amount, &rec.Fee, &rec.Pay,
		&rec.Type, &rec.Description, &date, &rec.EntryPerson, &rec.BranchID, &createdAt)
	if err != nil {
		return core.Record{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Record{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	rec.Date = d
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// CreateRecord persists a validated record and returns it with its assigned
// id and creation time.
func (r *Repository) CreateRecord(ctx context.Context, rec core.Record) (core.Record, error) {
	rec.CreatedAt = time.Now().UTC()

	var branchID any
	if rec.BranchID != 0 {
		branchID = rec.BranchID
	}
	var description any
	if rec.Description != "" {
		description = rec.Description
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO records (phone_no, amount, fee, pay, type, description, date, entry_person, branch_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PhoneNo, rec.Amount, rec.Fee, string(rec.Pay), string(rec.Type),
		description, rec.Date.String(), rec.EntryPerson, branchID, formatTime(rec.CreatedAt))
	if err != nil {
		return core.Record{}, fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Record{}, fmt.Errorf("record id: %w", err)
	}
	rec.ID = id

	slog.InfoContext(ctx, "Record saved",
		"id", rec.ID,
		"amount", rec.Amount,
		"fee", rec.Fee,
		"pay", rec.Pay,
		"date", rec.Date.String())

	return rec, nil
}

// GetRecord loads a single record by id.
func (r *Repository) GetRecord(ctx context.Context, id int64) (core.Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, ErrNotFound
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("get record %d: %w", id, err)
	}
	return rec, nil
}

// RecentRecords returns one page of records ordered newest-entry first,
// along with the total record count for pagination.
func (r *Repository) RecentRecords(ctx context.Context, page, limit int) ([]core.Record, int64, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list recent records: %w", err)
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// RecordsInRange returns one page of records whose date falls within
// [start, end], optionally filtered by payment channel, ordered date
// descending then id ascending, plus the total count of matching records.
// A limit of 0 returns the whole range (export path).
func (r *Repository) RecordsInRange(ctx context.Context, start, end core.Date, pay core.PayType, page, limit int) ([]core.Record, int64, error) {
	where := `WHERE date >= ? AND date <= ?`
	args := []any{start.String(), end.String()}
	if pay != "" {
		where += ` AND pay = ?`
		args = append(args, string(pay))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records in range: %w", err)
	}

	query := `SELECT ` + recordColumns + ` FROM records ` + where + ` ORDER BY date DESC, id ASC`
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list records in range: %w", err)
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Totals sums amount and fee across all records.
func (r *Repository) Totals(ctx context.Context) (core.Totals, error) {
	var t core.Totals
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(fee), 0) FROM records`).
		Scan(&t.Total, &t.Fee)
	if err != nil {
		return core.Totals{}, fmt.Errorf("sum totals: %w", err)
	}
	return t, nil
}

// PendingSyncRecords returns records not yet confirmed on the external
// ledger, oldest first.
func (r *Repository) PendingSyncRecords(ctx context.Context, limit int) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE synced = 0 ORDER BY id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync records: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// MarkSynced flags a record as written to the external ledger.
func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE records SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}
	slog.InfoContext(ctx, "Record marked as synced", "id", id)
	return nil
}

// MarkSyncError flags a record whose ledger write failed; it stays pending
// and is retried by the periodic pass.
func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE records SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark record sync error: %w", err)
	}
	slog.WarnContext(ctx, "Record marked with sync error", "id", id)
	return nil
}

func collectRecords(rows *sql.Rows) ([]core.Record, error) {
	var records []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}
