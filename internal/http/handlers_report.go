package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"kyatbook/internal/core"
	"kyatbook/internal/services"
)

func (s *Server) parseRange(startRaw, endRaw string) (core.Date, core.Date, error) {
	start, err := core.ParseDate(startRaw)
	if err != nil {
		return core.Date{}, core.Date{}, err
	}
	end, err := core.ParseDate(endRaw)
	if err != nil {
		return core.Date{}, core.Date{}, err
	}
	return start, end, nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, err := s.parseRange(q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	pay := core.PayType(q.Get("pay"))
	if pay != "" {
		if err := pay.Validate(); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	page := queryInt(r, "page", 1)

	report, err := s.reports.Report(r.Context(), start, end, pay, page, s.pageLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"groups": fromGroups(report.Groups),
		"pagination": pagination{
			TotalCount: report.TotalCount,
			FoundCount: report.FoundCount,
			Page:       page,
			Limit:      s.pageLimit,
		},
	}, "")
}

type exportRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	FileType  string `json:"fileType"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	start, end, err := s.parseRange(req.StartDate, req.EndDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	file, err := s.reports.Export(r.Context(), start, end, req.FileType)
	if err != nil {
		if errors.Is(err, services.ErrUnknownFileType) {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}
