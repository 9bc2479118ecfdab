package http

import (
	"encoding/json"
	"net/http"

	"kyatbook/internal/core"
)

func (s *Server) handleListFees(w http.ResponseWriter, r *http.Request) {
	brackets, err := s.fees.ListBrackets(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]feeBracketDTO, 0, len(brackets))
	for _, b := range brackets {
		out = append(out, fromFeeBracket(b))
	}
	writeJSON(w, http.StatusOK, out, "")
}

func (s *Server) handleReplaceFees(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data []feeBracketDTO `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	brackets := make([]core.FeeBracket, 0, len(req.Data))
	for _, dto := range req.Data {
		brackets = append(brackets, toFeeBracket(dto))
	}

	saved, err := s.fees.ReplaceBrackets(r.Context(), brackets)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]feeBracketDTO, 0, len(saved))
	for _, b := range saved {
		out = append(out, fromFeeBracket(b))
	}
	writeJSON(w, http.StatusOK, out, "fee brackets saved")
}

func (s *Server) handleFeeForAmount(w http.ResponseWriter, r *http.Request) {
	amount, err := core.ParseAmount(r.URL.Query().Get("amount"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	bracket, err := s.fees.BracketForAmount(r.Context(), amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fromFeeBracket(bracket), "")
}
