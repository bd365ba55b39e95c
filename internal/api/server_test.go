package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/castellan-io/castellan-core/internal/audit"
	"github.com/castellan-io/castellan-core/internal/infrastructure/config"
	"github.com/castellan-io/castellan-core/internal/infrastructure/logging"
	"github.com/castellan-io/castellan-core/internal/ownership"
)

// memAuditRepo is an in-memory audit repository for handler tests.
type memAuditRepo struct {
	entries []audit.Entry
}

func (m *memAuditRepo) Create(_ context.Context, entry *audit.Entry) error {
	e := *entry
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memAuditRepo) List(_ context.Context, filter audit.Filter) (*audit.ListResult, error) {
	var matched []audit.Entry
	for _, e := range m.entries {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.Owner != "" && e.PreviousOwner != filter.Owner && e.NewOwner != filter.Owner {
			continue
		}
		matched = append(matched, e)
	}
	return &audit.ListResult{Entries: matched, Total: len(matched)}, nil
}

// auditingSink records transitions in the audit repo, mirroring what the
// event broadcaster does in production.
type auditingSink struct {
	repo *memAuditRepo
}

func (s *auditingSink) OwnershipTransferred(ctx context.Context, t ownership.Transfer) error {
	action := audit.ActionTransfer
	switch {
	case t.Previous.IsZero():
		action = audit.ActionInitialize
	case t.New.IsZero():
		action = audit.ActionRenounce
	}
	return s.repo.Create(ctx, &audit.Entry{
		Action:        action,
		PreviousOwner: string(t.Previous),
		NewOwner:      string(t.New),
	})
}

// newTestServer builds a server over in-memory stores with owner preset.
func newTestServer(t *testing.T, initialOwner string) (*Server, http.Handler) {
	t.Helper()

	repo := &memAuditRepo{}
	store := ownership.NewMemoryStore()
	ownable := ownership.New(store, &auditingSink{repo: repo})

	if initialOwner != "" {
		if err := ownable.Initialize(context.Background(), ownership.OwnerID(initialOwner)); err != nil {
			t.Fatalf("initializing owner: %v", err)
		}
	}

	server, err := New(Deps{
		Config:    config.APIConfig{Host: "127.0.0.1", Port: 0},
		Logger:    logging.Default(),
		Ownable:   ownable,
		AuditRepo: repo,
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	return server, server.buildRouter()
}

func doRequest(handler http.Handler, method, path, caller, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if caller != "" {
		req.Header.Set(CallerHeader, caller)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeOwner(t *testing.T, rec *httptest.ResponseRecorder) ownerResponse {
	t.Helper()
	var resp ownerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Deps{Logger: logging.Default()})
	if err == nil {
		t.Error("New without ownership gate should fail")
	}

	_, err = New(Deps{})
	if err == nil {
		t.Error("New without logger should fail")
	}
}

func TestHealth(t *testing.T) {
	_, handler := newTestServer(t, "alice")

	rec := doRequest(handler, http.MethodGet, "/api/v1/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"version":"test"`) {
		t.Errorf("health body missing version: %s", rec.Body.String())
	}
}

func TestGetOwner(t *testing.T) {
	_, handler := newTestServer(t, "alice")

	rec := doRequest(handler, http.MethodGet, "/api/v1/owner", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	resp := decodeOwner(t, rec)
	if resp.Owner != "alice" || resp.Renounced {
		t.Errorf("owner = %+v, want alice, not renounced", resp)
	}
}

func TestGetOwner_Uninitialized(t *testing.T) {
	_, handler := newTestServer(t, "")

	resp := decodeOwner(t, doRequest(handler, http.MethodGet, "/api/v1/owner", "", ""))
	if resp.Owner != "" || !resp.Renounced {
		t.Errorf("owner = %+v, want empty and renounced flag set", resp)
	}
}

func TestTransferOwnership(t *testing.T) {
	_, handler := newTestServer(t, "alice")

	rec := doRequest(handler, http.MethodPost, "/api/v1/owner/transfer", "alice", `{"new_owner":"bob"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	resp := decodeOwner(t, doRequest(handler, http.MethodGet, "/api/v1/owner", "", ""))
	if resp.Owner != "bob" {
		t.Errorf("owner after transfer = %q, want bob", resp.Owner)
	}
}

func TestTransferOwnership_Errors(t *testing.T) {
	tests := []struct {
		name   string
		caller string
		body   string
		status int
	}{
		{"missing caller header", "", `{"new_owner":"bob"}`, http.StatusUnauthorized},
		{"malformed body", "alice", `{"new_owner":`, http.StatusBadRequest},
		{"empty new owner", "alice", `{"new_owner":""}`, http.StatusBadRequest},
		// Argument validation precedes the guard: even a stranger learns the
		// target is invalid, not that they lack standing.
		{"empty new owner, wrong caller", "mallory", `{"new_owner":""}`, http.StatusBadRequest},
		{"wrong caller", "mallory", `{"new_owner":"bob"}`, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, handler := newTestServer(t, "alice")

			rec := doRequest(handler, http.MethodPost, "/api/v1/owner/transfer", tt.caller, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}

			// Owner must be unchanged after any failure.
			resp := decodeOwner(t, doRequest(handler, http.MethodGet, "/api/v1/owner", "", ""))
			if resp.Owner != "alice" {
				t.Errorf("owner after failed transfer = %q, want alice", resp.Owner)
			}
		})
	}
}

func TestRenounceOwnership(t *testing.T) {
	_, handler := newTestServer(t, "alice")

	rec := doRequest(handler, http.MethodPost, "/api/v1/owner/renounce", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	resp := decodeOwner(t, doRequest(handler, http.MethodGet, "/api/v1/owner", "", ""))
	if resp.Owner != "" || !resp.Renounced {
		t.Errorf("owner after renounce = %+v, want renounced", resp)
	}

	// Renouncement is terminal: the previous owner has no standing left.
	rec = doRequest(handler, http.MethodPost, "/api/v1/owner/transfer", "alice", `{"new_owner":"bob"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("transfer after renounce status = %d, want 403", rec.Code)
	}
}

func TestRenounceOwnership_WrongCaller(t *testing.T) {
	_, handler := newTestServer(t, "alice")

	rec := doRequest(handler, http.MethodPost, "/api/v1/owner/renounce", "mallory", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestListAudit(t *testing.T) {
	_, handler := newTestServer(t, "alice")

	doRequest(handler, http.MethodPost, "/api/v1/owner/transfer", "alice", `{"new_owner":"bob"}`)
	doRequest(handler, http.MethodPost, "/api/v1/owner/renounce", "bob", "")

	rec := doRequest(handler, http.MethodGet, "/api/v1/audit", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result audit.ListResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding audit response: %v", err)
	}
	// initialize + transfer + renounce
	if result.Total != 3 {
		t.Errorf("total = %d, want 3", result.Total)
	}

	rec = doRequest(handler, http.MethodGet, "/api/v1/audit?action=renounce", "", "")
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding filtered audit response: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("filtered total = %d, want 1", result.Total)
	}
}

func TestListAudit_InvalidPagination(t *testing.T) {
	_, handler := newTestServer(t, "alice")

	rec := doRequest(handler, http.MethodGet, "/api/v1/audit?limit=abc", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doRequest(handler, http.MethodGet, "/api/v1/audit?offset=-1", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
