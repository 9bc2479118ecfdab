package core

import (
	"errors"
	"strings"
	"time"
)

const (
	PayKBZ   PayType = "kbz"
	PayWave  PayType = "wave"
	PayAYA   PayType = "aya"
	PayUAB   PayType = "uab"
	PayOther PayType = "other"

	TypePay  RecordType = "pay"
	TypeBank RecordType = "bank"
)

// MaxDescriptionLen bounds the free-text description on a record.
const MaxDescriptionLen = 1000

type (
	// PayType is the payment channel a transfer went through.
	PayType string

	// RecordType distinguishes mobile-payment entries from bank transfers.
	RecordType string

	// Date is a calendar day without a time component.
	Date struct {
		time.Time
	}

	// FeeBracket maps the amount range [From, To) to a fixed transfer fee.
	FeeBracket struct {
		ID   int64
		From int64
		To   int64
		Fee  int64
	}

	// Record is a single money-transfer entry. Records are immutable after
	// creation; reports and totals are derived from them.
	Record struct {
		ID          int64
		PhoneNo     string
		Amount      int64
		Fee         int64
		Pay         PayType
		Type        RecordType
		Description string
		Date        Date
		EntryPerson string
		BranchID    int64 // 0 when the shop has no branches
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidFee         = errors.New("invalid fee")
	ErrInvalidPhone       = errors.New("phone number must be 7 to 11 digits")
	ErrInvalidPay         = errors.New("invalid payment channel")
	ErrInvalidType        = errors.New("invalid record type")
	ErrEmptyDescription   = errors.New("description is required")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrInvalidDate        = errors.New("invalid date")
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date in wire format.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Truncated returns the date with any time component dropped, so records
// created from timestamps group on the calendar day.
func (d Date) Truncated() Date {
	y, m, day := d.Date()
	return NewDate(y, int(m), day)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Truncated().Time.Before(other.Truncated().Time)
}

func (p PayType) Validate() error {
	switch p {
	case PayKBZ, PayWave, PayAYA, PayUAB, PayOther:
		return nil
	}
	return ErrInvalidPay
}

func (t RecordType) Validate() error {
	switch t {
	case TypePay, TypeBank:
		return nil
	}
	return ErrInvalidType
}

// ValidatePhone checks the 7-to-11-digit rule for transfer phone numbers.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if len(phone) < 7 || len(phone) > 11 {
		return ErrInvalidPhone
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return ErrInvalidPhone
		}
	}
	return nil
}

// DescriptionRequired reports whether a record of this shape needs a
// non-empty description: manual-fee entries ("other" channel) and bank
// transfers must say what they were for.
func (r Record) DescriptionRequired() bool {
	return r.Pay == PayOther || r.Type == TypeBank
}

func (r Record) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if err := ValidatePhone(r.PhoneNo); err != nil {
		return err
	}
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if r.Fee <= 0 {
		return ErrInvalidFee
	}
	if err := r.Pay.Validate(); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if r.DescriptionRequired() && strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if len(r.Description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}
