package ledger

import (
	"context"

	"kyatbook/internal/core"
)

// RecordAppender writes one record as a row on the external ledger and
// returns a reference to where it landed.
type RecordAppender interface {
	Append(ctx context.Context, rec core.Record) (rowRef string, err error)
}
