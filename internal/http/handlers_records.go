package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"kyatbook/internal/auth"
	"kyatbook/internal/core"
)

type createRecordRequest struct {
	PhoneNo     string          `json:"phoneNo"`
	Amount      json.RawMessage `json:"amount"`
	Fee         json.RawMessage `json:"fee,omitempty"`
	Pay         string          `json:"pay"`
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date"`
	BranchID    int64           `json:"branchId,omitempty"`
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	// Amounts are decoded per field so a malformed value names the field
	// it arrived in.
	amount, err := parseKyats(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation failed",
			[]fieldError{{"amount": err.Error()}})
		return
	}
	fee, err := parseKyats(req.Fee)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation failed",
			[]fieldError{{"fee": err.Error()}})
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	session, _ := auth.SessionFromContext(r.Context())
	rec := core.Record{
		PhoneNo:     req.PhoneNo,
		Amount:      amount,
		Fee:         fee,
		Pay:         core.PayType(req.Pay),
		Type:        core.RecordType(req.Type),
		Description: req.Description,
		Date:        date,
		EntryPerson: session.Name,
		BranchID:    req.BranchID,
	}

	saved, err := s.records.CreateRecord(r.Context(), rec)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fromRecord(saved), "record saved")
}

func (s *Server) handleRecentRecords(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", s.pageLimit)
	if limit < 1 || limit > 100 {
		limit = s.pageLimit
	}

	records, total, err := s.records.RecentRecords(r.Context(), page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": fromRecords(records),
		"pagination": pagination{
			TotalCount: total,
			FoundCount: len(records),
			Page:       page,
			Limit:      limit,
		},
	}, "")
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals := s.records.TotalsOrZero(r.Context())
	writeJSON(w, http.StatusOK, map[string]int64{
		"total": totals.Total,
		"fee":   totals.Fee,
	}, "")
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
