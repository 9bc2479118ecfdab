package core

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoMatchingBracket is returned when no configured bracket covers an
// amount. Callers fall back to a manually entered fee.
var ErrNoMatchingBracket = errors.New("no fee bracket covers this amount")

// BracketError pins a bracket-set validation failure to a bracket index and
// field, so forms can surface it inline.
type BracketError struct {
	Index int
	Field string
	Err   error
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("bracket %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *BracketError) Unwrap() error { return e.Err }

var (
	ErrInvertedRange      = errors.New("upper bound must be greater than lower bound")
	ErrOverlappingBracket = errors.New("bracket overlaps the previous one")
)

// Validate checks a single bracket: positive bounds and fee, From < To.
func (b FeeBracket) Validate() error {
	if b.From <= 0 {
		return ErrInvalidAmount
	}
	if b.Fee <= 0 {
		return ErrInvalidFee
	}
	if b.To <= b.From {
		return ErrInvertedRange
	}
	return nil
}

// ValidateBrackets checks every bracket and rejects overlapping ranges
// across the set. Range violations are reported against the "from" field of
// the offending bracket. Gaps between brackets are allowed; amounts falling
// into a gap resolve to ErrNoMatchingBracket.
func ValidateBrackets(brackets []FeeBracket) error {
	for i, b := range brackets {
		if err := b.Validate(); err != nil {
			field := "from"
			if errors.Is(err, ErrInvalidFee) {
				field = "fee"
			}
			return &BracketError{Index: i, Field: field, Err: err}
		}
	}

	// Overlap check on a sorted view; report against the original index.
	idx := make([]int, len(brackets))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return brackets[idx[a]].From < brackets[idx[b]].From
	})
	for i := 1; i < len(idx); i++ {
		prev, cur := brackets[idx[i-1]], brackets[idx[i]]
		if cur.From < prev.To {
			return &BracketError{Index: idx[i], Field: "from", Err: ErrOverlappingBracket}
		}
	}
	return nil
}

// SortBrackets orders brackets by lower bound ascending, the order the
// resolver and the fee list endpoint expose.
func SortBrackets(brackets []FeeBracket) {
	sort.Slice(brackets, func(a, b int) bool {
		return brackets[a].From < brackets[b].From
	})
}

// ResolveFee returns the fee of the bracket whose [From, To) range contains
// amount. The lower bound is inclusive, the upper bound exclusive, so an
// amount sitting exactly on a boundary resolves into the higher bracket.
//
// Brackets are scanned in From-ascending order; if legacy data contains
// overlapping ranges the first match wins.
func ResolveFee(brackets []FeeBracket, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	ordered := make([]FeeBracket, len(brackets))
	copy(ordered, brackets)
	SortBrackets(ordered)
	for _, b := range ordered {
		if amount < b.From {
			break
		}
		if amount < b.To {
			return b.Fee, nil
		}
	}
	return 0, ErrNoMatchingBracket
}

// ResolveBracket is ResolveFee returning the whole matching bracket, for the
// server-resolved fee-for-amount endpoint.
func ResolveBracket(brackets []FeeBracket, amount int64) (FeeBracket, error) {
	if amount <= 0 {
		return FeeBracket{}, ErrInvalidAmount
	}
	ordered := make([]FeeBracket, len(brackets))
	copy(ordered, brackets)
	SortBrackets(ordered)
	for _, b := range ordered {
		if amount < b.From {
			break
		}
		if amount < b.To {
			return b, nil
		}
	}
	return FeeBracket{}, ErrNoMatchingBracket
}
