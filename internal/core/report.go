package core

import (
	"errors"
	"sort"
)

// ErrInvalidRange is returned when a report is requested with the end date
// before the start date. Checked before any data is read.
var ErrInvalidRange = errors.New("end date must not be before start date")

type (
	// ReportGroup is one calendar day of a report: the member records in
	// their recorded order plus the day's summed amount and fee.
	ReportGroup struct {
		Date        Date
		TotalAmount int64
		TotalFee    int64
		Records     []Record
	}

	// Totals is the envelope summary shown independent of any report.
	Totals struct {
		Total int64
		Fee   int64
	}
)

// ValidateRange rejects inverted date ranges. Both bounds are inclusive.
func ValidateRange(start, end Date) error {
	if err := start.Validate(); err != nil {
		return err
	}
	if err := end.Validate(); err != nil {
		return err
	}
	if end.Before(start) {
		return ErrInvalidRange
	}
	return nil
}

// GroupByDate buckets records by calendar day and sums amount and fee per
// day. Groups come back date-descending; within a group records keep the
// order they were supplied in. Every record lands in exactly one group.
func GroupByDate(records []Record) []ReportGroup {
	byDay := make(map[Date]*ReportGroup)
	var order []Date
	for _, r := range records {
		day := r.Date.Truncated()
		g, ok := byDay[day]
		if !ok {
			g = &ReportGroup{Date: day}
			byDay[day] = g
			order = append(order, day)
		}
		g.Records = append(g.Records, r)
		g.TotalAmount += r.Amount
		g.TotalFee += r.Fee
	}

	sort.Slice(order, func(a, b int) bool {
		return order[b].Before(order[a]) // most recent first
	})

	groups := make([]ReportGroup, 0, len(order))
	for _, day := range order {
		groups = append(groups, *byDay[day])
	}
	return groups
}

// SumTotals computes the running amount/fee sums over a record set.
func SumTotals(records []Record) Totals {
	var t Totals
	for _, r := range records {
		t.Total += r.Amount
		t.Fee += r.Fee
	}
	return t
}
