package api

import (
	"net/http"
	"strconv"

	"github.com/castellan-io/castellan-core/internal/audit"
)

// handleListAudit returns the audit trail, newest first.
//
// GET /api/v1/audit?action=transfer&owner=alice&limit=50&offset=0
//
// The owner filter matches either side of a transition, so a single query
// answers "everything that ever involved this owner".
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := audit.Filter{
		Action: q.Get("action"),
		Owner:  q.Get("owner"),
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			writeBadRequest(w, "offset must be a non-negative integer")
			return
		}
		filter.Offset = offset
	}

	result, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing audit entries failed", "error", err)
		writeInternalError(w, "failed to list audit entries")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
