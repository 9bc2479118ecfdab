package core

import (
	"errors"
	"strings"
	"testing"
)

func validRecord() Record {
	return Record{
		PhoneNo:     "0951234567",
		Amount:      5000,
		Fee:         500,
		Pay:         PayKBZ,
		Type:        TypePay,
		Date:        NewDate(2024, 1, 15),
		EntryPerson: "aung",
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"1234567", true},
		{"09123456789", true},
		{"123456", false},      // too short
		{"123456789012", false}, // too long
		{"09-1234567", false},  // non-digit
		{"", false},
	}
	for _, tc := range cases {
		err := ValidatePhone(tc.phone)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.phone, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.phone)
		}
	}
}

func TestRecordValidate(t *testing.T) {
	if err := validRecord().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Record)
		want   error
	}{
		{"zero date", func(r *Record) { r.Date = Date{} }, ErrInvalidDate},
		{"short phone", func(r *Record) { r.PhoneNo = "12345" }, ErrInvalidPhone},
		{"zero amount", func(r *Record) { r.Amount = 0 }, ErrInvalidAmount},
		{"negative amount", func(r *Record) { r.Amount = -1 }, ErrInvalidAmount},
		{"zero fee", func(r *Record) { r.Fee = 0 }, ErrInvalidFee},
		{"bad pay", func(r *Record) { r.Pay = "cash" }, ErrInvalidPay},
		{"bad type", func(r *Record) { r.Type = "loan" }, ErrInvalidType},
		{"other without description", func(r *Record) { r.Pay = PayOther }, ErrEmptyDescription},
		{"bank without description", func(r *Record) { r.Type = TypeBank }, ErrEmptyDescription},
		{"bank with blank description", func(r *Record) {
			r.Type = TypeBank
			r.Description = "   "
		}, ErrEmptyDescription},
		{"description too long", func(r *Record) {
			r.Description = strings.Repeat("x", MaxDescriptionLen+1)
		}, ErrDescriptionTooLong},
	}
	for _, tc := range cases {
		r := validRecord()
		tc.mutate(&r)
		if err := r.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestRecordValidateDescriptionSatisfied(t *testing.T) {
	r := validRecord()
	r.Pay = PayOther
	r.Fee = 300
	r.Description = "manual entry"
	if err := r.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	r = validRecord()
	r.Type = TypeBank
	r.Description = "KBZ to AYA transfer"
	if err := r.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-01-02" {
		t.Fatalf("round trip mismatch: %s", d.String())
	}
	if _, err := ParseDate("02/01/2024"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
}
