package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"kyatbook/internal/auth"
	"kyatbook/internal/storage"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	var details []fieldError
	if strings.TrimSpace(req.Name) == "" {
		details = append(details, fieldError{"name": "name is required"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		details = append(details, fieldError{"email": "invalid email address"})
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		details = append(details, fieldError{"password": err.Error()})
	}
	if len(details) > 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation failed", details)
		return
	}

	user, err := s.storage.CreateUser(r.Context(), storage.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			writeError(w, http.StatusUnprocessableEntity, "validation failed",
				[]fieldError{{"email": "email already registered"}})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	}, "account created")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := s.storage.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "wrong email or password", nil)
			return
		}
		writeDomainError(w, err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "wrong email or password", nil)
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Name, user.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"name":  user.Name,
		"email": user.Email,
	}, "logged in")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	if err := s.tokens.Revoke(token); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "logged out")
}
