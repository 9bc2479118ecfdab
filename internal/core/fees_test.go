package core

import (
	"errors"
	"testing"
)

func testBrackets() []FeeBracket {
	return []FeeBracket{
		{From: 1000, To: 10000, Fee: 500},
		{From: 10000, To: 50000, Fee: 1000},
	}
}

func TestResolveFee(t *testing.T) {
	brackets := testBrackets()
	cases := []struct {
		amount int64
		fee    int64
		err    error
	}{
		{5000, 500, nil},
		{1000, 500, nil},   // lower bound inclusive
		{9999, 500, nil},
		{10000, 1000, nil}, // boundary resolves into the higher bracket
		{49999, 1000, nil},
		{999, 0, ErrNoMatchingBracket},  // below the lowest bracket
		{50000, 0, ErrNoMatchingBracket}, // at/above the highest bound
		{0, 0, ErrInvalidAmount},
		{-5, 0, ErrInvalidAmount},
	}
	for _, tc := range cases {
		fee, err := ResolveFee(brackets, tc.amount)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("amount %d: expected %v, got %v", tc.amount, tc.err, err)
			}
			continue
		}
		if err != nil || fee != tc.fee {
			t.Fatalf("amount %d: expected fee %d, got %d (err=%v)", tc.amount, tc.fee, fee, err)
		}
	}
}

func TestResolveFeeGap(t *testing.T) {
	brackets := []FeeBracket{
		{From: 1000, To: 5000, Fee: 100},
		{From: 10000, To: 50000, Fee: 1000},
	}
	if _, err := ResolveFee(brackets, 7000); !errors.Is(err, ErrNoMatchingBracket) {
		t.Fatalf("expected gap to miss, got %v", err)
	}
}

func TestResolveFeeUnsortedInput(t *testing.T) {
	brackets := []FeeBracket{
		{From: 10000, To: 50000, Fee: 1000},
		{From: 1000, To: 10000, Fee: 500},
	}
	fee, err := ResolveFee(brackets, 2000)
	if err != nil || fee != 500 {
		t.Fatalf("expected 500, got %d (err=%v)", fee, err)
	}
}

func TestResolveBracket(t *testing.T) {
	b, err := ResolveBracket(testBrackets(), 25000)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if b.From != 10000 || b.To != 50000 || b.Fee != 1000 {
		t.Fatalf("wrong bracket: %+v", b)
	}
	if _, err := ResolveBracket(testBrackets(), 999); !errors.Is(err, ErrNoMatchingBracket) {
		t.Fatalf("expected ErrNoMatchingBracket, got %v", err)
	}
}

func TestFeeBracketValidate(t *testing.T) {
	cases := []struct {
		b    FeeBracket
		want error
	}{
		{FeeBracket{From: 1000, To: 10000, Fee: 500}, nil},
		{FeeBracket{From: 0, To: 10000, Fee: 500}, ErrInvalidAmount},
		{FeeBracket{From: -1, To: 10000, Fee: 500}, ErrInvalidAmount},
		{FeeBracket{From: 1000, To: 1000, Fee: 500}, ErrInvertedRange},
		{FeeBracket{From: 1000, To: 999, Fee: 500}, ErrInvertedRange},
		{FeeBracket{From: 1000, To: 10000, Fee: 0}, ErrInvalidFee},
	}
	for i, tc := range cases {
		err := tc.b.Validate()
		if tc.want == nil && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestValidateBrackets(t *testing.T) {
	if err := ValidateBrackets(testBrackets()); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Gaps are allowed.
	gapped := []FeeBracket{
		{From: 1000, To: 5000, Fee: 100},
		{From: 10000, To: 50000, Fee: 1000},
	}
	if err := ValidateBrackets(gapped); err != nil {
		t.Fatalf("expected gaps to be allowed, got %v", err)
	}

	overlapping := []FeeBracket{
		{From: 1000, To: 10000, Fee: 500},
		{From: 5000, To: 50000, Fee: 1000},
	}
	err := ValidateBrackets(overlapping)
	if !errors.Is(err, ErrOverlappingBracket) {
		t.Fatalf("expected overlap error, got %v", err)
	}
	var be *BracketError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BracketError, got %T", err)
	}
	if be.Index != 1 || be.Field != "from" {
		t.Fatalf("error should point at bracket 1 field from, got %+v", be)
	}
}

func TestValidateBracketsFieldErrors(t *testing.T) {
	err := ValidateBrackets([]FeeBracket{{From: 2000, To: 1000, Fee: 500}})
	var be *BracketError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BracketError, got %v", err)
	}
	if be.Field != "from" || !errors.Is(err, ErrInvertedRange) {
		t.Fatalf("inverted range should pin the from field: %+v", be)
	}

	err = ValidateBrackets([]FeeBracket{{From: 1000, To: 2000, Fee: 0}})
	if !errors.As(err, &be) || be.Field != "fee" {
		t.Fatalf("zero fee should pin the fee field: %v", err)
	}
}
