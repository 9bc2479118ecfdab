package storage

import (
	"context"
	"fmt"
	"log/slog"

	"kyatbook/internal/core"
)

// ListFeeBrackets returns all configured brackets ordered by lower bound.
func (r *Repository) ListFeeBrackets(ctx context.Context) ([]core.FeeBracket, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, from_amount, to_amount, fee FROM fee_brackets ORDER BY from_amount ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list fee brackets: %w", err)
	}
	defer rows.Close()

	var brackets []core.FeeBracket
	for rows.Next() {
		var b core.FeeBracket
		if err := rows.Scan(&b.ID, &b.From, &b.To, &b.Fee); err != nil {
			return nil, fmt.Errorf("scan fee bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fee brackets: %w", err)
	}
	return brackets, nil
}

// ReplaceFeeBrackets swaps the whole bracket table for the given set in a
// single transaction. The caller is expected to have validated the set.
func (r *Repository) ReplaceFeeBrackets(ctx context.Context, brackets []core.FeeBracket) ([]core.FeeBracket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fee_brackets`); err != nil {
		return nil, fmt.Errorf("clear fee brackets: %w", err)
	}

	saved := make([]core.FeeBracket, 0, len(brackets))
	for _, b := range brackets {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO fee_brackets (from_amount, to_amount, fee) VALUES (?, ?, ?)`,
			b.From, b.To, b.Fee)
		if err != nil {
			return nil, fmt.Errorf("insert fee bracket [%d, %d): %w", b.From, b.To, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("fee bracket id: %w", err)
		}
		b.ID = id
		saved = append(saved, b)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit fee brackets: %w", err)
	}

	slog.InfoContext(ctx, "Fee brackets replaced", "count", len(saved))
	return saved, nil
}
