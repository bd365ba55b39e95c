package api

import (
	"encoding/json"
	"net/http"

	"github.com/castellan-io/castellan-core/internal/ownership"
)

// CallerHeader carries the caller's identity on mutating requests.
//
// Identity is asserted, not authenticated: this service gates a trusted
// deployment where callers are other services, and verifying who they are is
// the perimeter's job.
const CallerHeader = "X-Caller"

// ownerResponse is the payload for owner reads and successful mutations.
type ownerResponse struct {
	Owner     string `json:"owner"`
	Renounced bool   `json:"renounced"`
}

// transferRequest is the body for POST /owner/transfer.
type transferRequest struct {
	NewOwner string `json:"new_owner"`
}

// handleGetOwner returns the current owner.
//
// GET /api/v1/owner
func (s *Server) handleGetOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := s.ownable.Owner(r.Context())
	if err != nil {
		s.logger.Error("reading owner failed", "error", err)
		writeInternalError(w, "failed to read owner")
		return
	}

	writeJSON(w, http.StatusOK, ownerResponse{
		Owner:     string(owner),
		Renounced: owner.IsZero(),
	})
}

// handleTransferOwnership hands ownership to a new owner.
//
// POST /api/v1/owner/transfer
// Body: {"new_owner": "..."}
//
// Only the current owner may call this. An empty new owner is rejected
// before the guard runs, so the error reports the bad argument rather than
// the caller's standing.
func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.callerID(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	s.mutationMu.Lock()
	err := s.ownable.TransferOwnership(r.Context(), caller, ownership.OwnerID(req.NewOwner))
	s.mutationMu.Unlock()
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ownerResponse{Owner: req.NewOwner})
}

// handleRenounceOwnership permanently abandons ownership.
//
// POST /api/v1/owner/renounce
//
// Only the current owner may call this. There is no way back: every guarded
// operation fails once ownership is renounced.
func (s *Server) handleRenounceOwnership(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.callerID(w, r)
	if !ok {
		return
	}

	s.mutationMu.Lock()
	err := s.ownable.RenounceOwnership(r.Context(), caller)
	s.mutationMu.Unlock()
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ownerResponse{Owner: "", Renounced: true})
}

// callerID extracts the caller identity from the request header. On a
// missing header it writes a 401 response and reports false.
func (s *Server) callerID(w http.ResponseWriter, r *http.Request) (ownership.OwnerID, bool) {
	caller := r.Header.Get(CallerHeader)
	if caller == "" {
		writeUnauthorized(w, CallerHeader+" header is required")
		return "", false
	}
	return ownership.OwnerID(caller), true
}
