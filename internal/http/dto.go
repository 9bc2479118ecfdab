package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"kyatbook/internal/core"
)

// errMalformedKyats is field-agnostic on purpose; the handler that parsed
// the value attaches the field name.
var errMalformedKyats = errors.New("must be a positive whole kyat amount")

// kyats accepts an amount either as a JSON number or as a user-typed
// string with thousands separators ("25,000").
type kyats int64

func (k *kyats) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errMalformedKyats
		}
		v, err := core.ParseAmount(s)
		if err != nil {
			return errMalformedKyats
		}
		*k = kyats(v)
		return nil
	}

	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return errMalformedKyats
	}
	*k = kyats(v)
	return nil
}

// parseKyats decodes a raw JSON amount value. An absent value is zero.
func parseKyats(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var k kyats
	if err := k.UnmarshalJSON(raw); err != nil {
		return 0, err
	}
	return int64(k), nil
}

type feeBracketDTO struct {
	ID   int64 `json:"id,omitempty"`
	From kyats `json:"from"`
	To   kyats `json:"to"`
	Fee  kyats `json:"fee"`
}

func toFeeBracket(dto feeBracketDTO) core.FeeBracket {
	return core.FeeBracket{
		ID:   dto.ID,
		From: int64(dto.From),
		To:   int64(dto.To),
		Fee:  int64(dto.Fee),
	}
}

func fromFeeBracket(b core.FeeBracket) feeBracketDTO {
	return feeBracketDTO{ID: b.ID, From: kyats(b.From), To: kyats(b.To), Fee: kyats(b.Fee)}
}

type recordDTO struct {
	ID          int64  `json:"id"`
	PhoneNo     string `json:"phoneNo"`
	Amount      int64  `json:"amount"`
	Fee         int64  `json:"fee"`
	Pay         string `json:"pay"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	EntryPerson string `json:"entryPerson"`
	BranchID    int64  `json:"branchId,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func fromRecord(rec core.Record) recordDTO {
	return recordDTO{
		ID:          rec.ID,
		PhoneNo:     rec.PhoneNo,
		Amount:      rec.Amount,
		Fee:         rec.Fee,
		Pay:         string(rec.Pay),
		Type:        string(rec.Type),
		Description: rec.Description,
		Date:        rec.Date.String(),
		EntryPerson: rec.EntryPerson,
		BranchID:    rec.BranchID,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	}
}

func fromRecords(records []core.Record) []recordDTO {
	out := make([]recordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, fromRecord(rec))
	}
	return out
}

type reportGroupDTO struct {
	Date        string      `json:"date"`
	TotalAmount int64       `json:"totalAmount"`
	TotalFee    int64       `json:"totalFee"`
	Records     []recordDTO `json:"records"`
}

func fromGroups(groups []core.ReportGroup) []reportGroupDTO {
	out := make([]reportGroupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, reportGroupDTO{
			Date:        g.Date.String(),
			TotalAmount: g.TotalAmount,
			TotalFee:    g.TotalFee,
			Records:     fromRecords(g.Records),
		})
	}
	return out
}
