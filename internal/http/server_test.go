package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"kyatbook/internal/auth"
	"kyatbook/internal/services"
	"kyatbook/internal/storage"
)

type testServer struct {
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()

	repo, err := storage.NewRepository(filepath.Join(dir, "kyatbook.db"))
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	tokens, err := auth.NewTokenStore(filepath.Join(dir, "tokens.db"))
	if err != nil {
		t.Fatalf("NewTokenStore() error = %v", err)
	}
	t.Cleanup(func() { tokens.Close() })

	srv := NewServer(
		services.NewRecordService(repo, nil),
		services.NewFeeService(repo),
		services.NewReportService(repo),
		tokens,
		repo,
		10,
	)

	ts := &testServer{handler: srv.Handler()}

	// Register and log in an operator for the protected routes.
	ts.do(t, "POST", "/api/auth/register", `{"name":"Aye Chan","email":"aye@example.com","password":"secret password"}`, http.StatusCreated)
	resp := ts.do(t, "POST", "/api/auth/login", `{"email":"aye@example.com","password":"secret password"}`, http.StatusOK)
	ts.token = resp.Data.(map[string]any)["token"].(string)

	return ts
}

type testEnvelope struct {
	Data    any                 `json:"data"`
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Details []map[string]string `json:"details"`
}

func (ts *testServer) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) do(t *testing.T, method, path, body string, wantStatus int) testEnvelope {
	t.Helper()
	w := ts.request(t, method, path, body)
	if w.Code != wantStatus {
		t.Fatalf("%s %s status = %d, want %d (body: %s)", method, path, w.Code, wantStatus, w.Body.String())
	}
	var env testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	return env
}

func (ts *testServer) seedBrackets(t *testing.T) {
	t.Helper()
	ts.do(t, "PUT", "/api/fees",
		`{"data":[{"from":1000,"to":10000,"fee":500},{"from":10000,"to":50000,"fee":1000}]}`,
		http.StatusOK)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/fees", nil)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated request status = %d, want 401", w.Code)
	}

	var env testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Success {
		t.Error("401 envelope should have success=false")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, "POST", "/api/auth/login", `{"email":"aye@example.com","password":"not the password"}`, http.StatusUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, "POST", "/api/auth/logout", "", http.StatusOK)
	if w := ts.request(t, "GET", "/api/fees", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("request after logout status = %d, want 401", w.Code)
	}
}

func TestFeeBracketsRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	ts.seedBrackets(t)

	env := ts.do(t, "GET", "/api/fees", "", http.StatusOK)
	brackets, ok := env.Data.([]any)
	if !ok || len(brackets) != 2 {
		t.Fatalf("GET /api/fees data = %v, want 2 brackets", env.Data)
	}
	first := brackets[0].(map[string]any)
	if first["from"].(float64) != 1000 || first["fee"].(float64) != 500 {
		t.Errorf("first bracket = %v, want from 1000 fee 500", first)
	}
}

func TestReplaceFeesRejectsOverlap(t *testing.T) {
	ts := newTestServer(t)

	env := ts.do(t, "PUT", "/api/fees",
		`{"data":[{"from":1000,"to":10000,"fee":500},{"from":5000,"to":20000,"fee":800}]}`,
		http.StatusUnprocessableEntity)
	if len(env.Details) != 1 {
		t.Fatalf("details = %v, want one entry", env.Details)
	}
	if _, ok := env.Details[0]["from"]; !ok {
		t.Errorf("overlap error should be attached to the from field, got %v", env.Details[0])
	}
}

func TestFeeForAmount(t *testing.T) {
	ts := newTestServer(t)
	ts.seedBrackets(t)

	env := ts.do(t, "GET", "/api/fees/for-amount?amount=5000", "", http.StatusOK)
	bracket := env.Data.(map[string]any)
	if bracket["fee"].(float64) != 500 {
		t.Errorf("fee for 5000 = %v, want 500", bracket["fee"])
	}

	// Boundary amount falls in the higher bracket.
	env = ts.do(t, "GET", "/api/fees/for-amount?amount=10000", "", http.StatusOK)
	if env.Data.(map[string]any)["fee"].(float64) != 1000 {
		t.Errorf("fee for 10000 = %v, want 1000", env.Data)
	}

	// Comma-separated input is accepted.
	env = ts.do(t, "GET", "/api/fees/for-amount?amount=5,000", "", http.StatusOK)
	if env.Data.(map[string]any)["fee"].(float64) != 500 {
		t.Errorf("fee for 5,000 = %v, want 500", env.Data)
	}

	ts.do(t, "GET", "/api/fees/for-amount?amount=999", "", http.StatusNotFound)
}

func TestCreateRecord(t *testing.T) {
	ts := newTestServer(t)
	ts.seedBrackets(t)

	env := ts.do(t, "POST", "/api/records",
		`{"phoneNo":"0951234567","amount":"25,000","pay":"kbz","type":"pay","date":"2024-01-15"}`,
		http.StatusCreated)

	rec := env.Data.(map[string]any)
	if rec["amount"].(float64) != 25000 {
		t.Errorf("amount = %v, want 25000 (comma input normalized)", rec["amount"])
	}
	if rec["fee"].(float64) != 1000 {
		t.Errorf("fee = %v, want resolved 1000", rec["fee"])
	}
	if rec["entryPerson"] != "Aye Chan" {
		t.Errorf("entryPerson = %v, want session name", rec["entryPerson"])
	}
}

func TestCreateRecordValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.seedBrackets(t)

	// Bad phone number.
	env := ts.do(t, "POST", "/api/records",
		`{"phoneNo":"12ab","amount":5000,"pay":"kbz","type":"pay","date":"2024-01-15"}`,
		http.StatusUnprocessableEntity)
	if len(env.Details) != 1 {
		t.Fatalf("details = %v, want one entry", env.Details)
	}
	if _, ok := env.Details[0]["phoneNo"]; !ok {
		t.Errorf("error should be attached to phoneNo, got %v", env.Details[0])
	}

	// pay=other requires a description.
	env = ts.do(t, "POST", "/api/records",
		`{"phoneNo":"0951234567","amount":5000,"fee":1500,"pay":"other","type":"pay","date":"2024-01-15"}`,
		http.StatusUnprocessableEntity)
	if _, ok := env.Details[0]["description"]; !ok {
		t.Errorf("error should be attached to description, got %v", env.Details[0])
	}

	// pay=other never falls back to the bracket table, a manual fee is
	// required.
	env = ts.do(t, "POST", "/api/records",
		`{"phoneNo":"0951234567","amount":5000,"pay":"other","type":"pay","description":"misc","date":"2024-01-15"}`,
		http.StatusUnprocessableEntity)
	if _, ok := env.Details[0]["fee"]; !ok {
		t.Errorf("error should be attached to fee, got %v", env.Details[0])
	}

	// Amount not covered by any bracket.
	ts.do(t, "POST", "/api/records",
		`{"phoneNo":"0951234567","amount":999,"pay":"kbz","type":"pay","date":"2024-01-15"}`,
		http.StatusNotFound)

	// A malformed amount string names the amount field.
	env = ts.do(t, "POST", "/api/records",
		`{"phoneNo":"0951234567","amount":"25k","pay":"kbz","type":"pay","date":"2024-01-15"}`,
		http.StatusUnprocessableEntity)
	if _, ok := env.Details[0]["amount"]; !ok {
		t.Errorf("error should be attached to amount, got %v", env.Details[0])
	}

	// A malformed fee string names the fee field, not amount.
	env = ts.do(t, "POST", "/api/records",
		`{"phoneNo":"0951234567","amount":5000,"fee":"1,5oo","pay":"kbz","type":"pay","date":"2024-01-15"}`,
		http.StatusUnprocessableEntity)
	if _, ok := env.Details[0]["fee"]; !ok {
		t.Errorf("error should be attached to fee, got %v", env.Details[0])
	}
}

func TestRecentRecords(t *testing.T) {
	ts := newTestServer(t)
	ts.seedBrackets(t)

	for i := 0; i < 3; i++ {
		ts.do(t, "POST", "/api/records",
			`{"phoneNo":"0951234567","amount":5000,"pay":"kbz","type":"pay","date":"2024-01-15"}`,
			http.StatusCreated)
	}

	env := ts.do(t, "GET", "/api/records/recent?page=1&limit=2", "", http.StatusOK)
	data := env.Data.(map[string]any)
	records := data["records"].([]any)
	if len(records) != 2 {
		t.Errorf("records on page = %d, want 2", len(records))
	}
	pg := data["pagination"].(map[string]any)
	if pg["totalCount"].(float64) != 3 || pg["foundCount"].(float64) != 2 {
		t.Errorf("pagination = %v, want totalCount 3 foundCount 2", pg)
	}
}

func TestReport(t *testing.T) {
	ts := newTestServer(t)
	ts.seedBrackets(t)

	create := func(date string, amount int) {
		ts.do(t, "POST", "/api/records",
			fmt.Sprintf(`{"phoneNo":"0951234567","amount":%d,"pay":"kbz","type":"pay","date":"%s"}`, amount, date),
			http.StatusCreated)
	}
	create("2024-01-01", 5000)
	create("2024-01-01", 5000)
	create("2024-01-02", 20000)

	env := ts.do(t, "GET", "/api/records/report?startDate=2024-01-01&endDate=2024-01-31", "", http.StatusOK)
	data := env.Data.(map[string]any)
	groups := data["groups"].([]any)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}

	// Newest day first, with per-day totals.
	first := groups[0].(map[string]any)
	if first["date"] != "2024-01-02" {
		t.Errorf("first group date = %v, want 2024-01-02", first["date"])
	}
	second := groups[1].(map[string]any)
	if second["totalAmount"].(float64) != 10000 || second["totalFee"].(float64) != 1000 {
		t.Errorf("2024-01-01 totals = %v/%v, want 10000/1000", second["totalAmount"], second["totalFee"])
	}

	pg := data["pagination"].(map[string]any)
	if pg["totalCount"].(float64) != 3 {
		t.Errorf("totalCount = %v, want 3", pg["totalCount"])
	}

	// Inverted range fails before querying.
	ts.do(t, "GET", "/api/records/report?startDate=2024-02-01&endDate=2024-01-01", "", http.StatusBadRequest)

	// Empty range is not an error.
	env = ts.do(t, "GET", "/api/records/report?startDate=2025-01-01&endDate=2025-01-31", "", http.StatusOK)
	if env.Data.(map[string]any)["pagination"].(map[string]any)["totalCount"].(float64) != 0 {
		t.Error("empty range should report zero totalCount")
	}

	// An unknown channel filter is rejected, not silently empty.
	env = ts.do(t, "GET", "/api/records/report?startDate=2024-01-01&endDate=2024-01-31&pay=paypal", "",
		http.StatusUnprocessableEntity)
	if _, ok := env.Details[0]["pay"]; !ok {
		t.Errorf("error should be attached to pay, got %v", env.Details[0])
	}
}

func TestExportEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.seedBrackets(t)
	ts.do(t, "POST", "/api/records",
		`{"phoneNo":"0951234567","amount":5000,"pay":"kbz","type":"pay","date":"2024-01-15"}`,
		http.StatusCreated)

	w := ts.request(t, "POST", "/api/records/report/export",
		`{"startDate":"2024-01-01","endDate":"2024-01-31","fileType":"pdf"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d (body: %s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("export body does not start with a PDF header")
	}

	w = ts.request(t, "POST", "/api/records/report/export",
		`{"startDate":"2024-01-01","endDate":"2024-01-31","fileType":"excel"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("excel export status = %d", w.Code)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("excel export body does not look like an xlsx file")
	}

	ts.do(t, "POST", "/api/records/report/export",
		`{"startDate":"2024-01-01","endDate":"2024-01-31","fileType":"csv"}`,
		http.StatusBadRequest)
}

func TestTotalsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.seedBrackets(t)

	env := ts.do(t, "GET", "/api/records/total", "", http.StatusOK)
	totals := env.Data.(map[string]any)
	if totals["total"].(float64) != 0 || totals["fee"].(float64) != 0 {
		t.Errorf("empty totals = %v, want zeros", totals)
	}

	ts.do(t, "POST", "/api/records",
		`{"phoneNo":"0951234567","amount":5000,"pay":"kbz","type":"pay","date":"2024-01-15"}`,
		http.StatusCreated)

	env = ts.do(t, "GET", "/api/records/total", "", http.StatusOK)
	totals = env.Data.(map[string]any)
	if totals["total"].(float64) != 5000 || totals["fee"].(float64) != 500 {
		t.Errorf("totals = %v, want 5000/500", totals)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := ts.request(t, "GET", path, "")
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, w.Code)
		}
	}
}
