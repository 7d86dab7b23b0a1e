/*
handlers.go - HTTP handlers for the inventory counting API

PURPOSE:
  Exposes the counting domain over REST. Handles HTTP request/response
  and JSON serialization, delegates everything else to the domain
  stores.

ENDPOINTS:
  Sessions:
    GET    /api/sessions              List sessions (newest first)
    POST   /api/sessions              Create session
    DELETE /api/sessions?key=&id=     Admin: delete one session (or all)

  Counts:
    GET    /api/counts?sessionId=     List count rows
    PATCH  /api/counts                Set/clear one row's counted qty
    POST   /api/counts-seed           Bulk upsert rows from an upload

  Destructions:
    GET    /api/destructions?sessionId=        List write-off lines
    POST   /api/destructions                   Append a line
    DELETE /api/destructions?sessionId=&id=    Remove a line

  Mapping:
    GET    /api/mapping?sessionId=    Stored column mapping (or null)
    PUT    /api/mapping               Store a mapping
    POST   /api/mapping/detect        Auto-detect from headers

  Scanning:
    POST   /api/scan                  Match a code and increment

  Reports:
    GET    /api/reports/counts.csv?sessionId=&city=
    GET    /api/reports/destructions.csv?sessionId=

  Admin:
    GET    /api/admin-wipe?key=&confirm=yes    Wipe all namespaces

ERROR HANDLING:
  Domain errors map to statuses in writeDomainError:
  - 400: validation (missing sessionId, empty name/sku, malformed body)
  - 401: admin key missing or wrong
  - 404: count row id not found
  - 405: verb not implemented for the endpoint (router-level)
  - 500: storage failures, surfaced once, never retried

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharbatly/count-engine/csvmap"
	"github.com/sharbatly/count-engine/inventory"
	"github.com/sharbatly/count-engine/report"
	"github.com/sharbatly/count-engine/scan"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry     *inventory.Registry
	Counts       *inventory.CountStore
	Destructions *inventory.Ledger
	Mappings     *inventory.MappingStore

	AdminKey string
	Log      *logrus.Logger
}

// NewHandler wires a handler over the domain stores.
func NewHandler(reg *inventory.Registry, counts *inventory.CountStore, ledger *inventory.Ledger, mappings *inventory.MappingStore, adminKey string, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		Registry:     reg,
		Counts:       counts,
		Destructions: ledger,
		Mappings:     mappings,
		AdminKey:     adminKey,
		Log:          log,
	}
}

// authorized checks the admin shared secret. An unset server-side key
// disables admin operations entirely.
func (h *Handler) authorized(r *http.Request) bool {
	key := r.URL.Query().Get("key")
	if h.AdminKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(h.AdminKey)) == 1
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// ListSessions returns all sessions, newest first.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Registry.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// CreateSession creates a new counting session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	session, err := h.Registry.Create(r.Context(), req.Name, req.City)
	if err != nil {
		h.writeDomainError(w, err, "Failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// DeleteSessions deletes one session (query id given) or every key in
// every namespace. Admin only.
func (h *Handler) DeleteSessions(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		result, err := h.Registry.Delete(r.Context(), id)
		if err != nil {
			h.writeDomainError(w, err, "Failed to delete session")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":                true,
			"mode":              "single",
			"sessionId":         result.SessionID,
			"deletedRelated":    result.DeletedRelated,
			"sessionsRemaining": result.SessionsRemaining,
		})
		return
	}

	summary := h.Registry.DeleteAll(r.Context())
	deleted := 0
	for _, wipe := range summary {
		deleted += wipe.Deleted
	}
	h.Log.WithField("deleted", deleted).Warn("all sessions deleted")
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"mode":    "all",
		"deleted": deleted,
		"summary": summary,
	})
}

// =============================================================================
// COUNT HANDLERS
// =============================================================================

// ListCounts returns the full row sequence for a session.
func (h *Handler) ListCounts(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	rows, err := h.Counts.GetAll(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err, "Failed to list counts")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// PatchCount sets or clears one row's counted quantity.
func (h *Handler) PatchCount(w http.ResponseWriter, r *http.Request) {
	var req PatchCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == nil {
		writeError(w, http.StatusBadRequest, "id required", nil)
		return
	}

	row, err := h.Counts.PatchCount(r.Context(), req.SessionID, *req.ID, toNullableNumber(req.CountedQty))
	if err != nil {
		h.writeDomainError(w, err, "Failed to patch count")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// SeedCounts bulk-upserts normalized rows into a session.
func (h *Handler) SeedCounts(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Rows == nil {
		writeError(w, http.StatusBadRequest, "sessionId and rows[] required", nil)
		return
	}

	total, err := h.Counts.Seed(r.Context(), req.SessionID, toSeedRows(req.Rows))
	if err != nil {
		h.writeDomainError(w, err, "Failed to seed counts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"inserted": total})
}

// =============================================================================
// DESTRUCTION HANDLERS
// =============================================================================

// ListDestructions returns a session's write-off lines.
func (h *Handler) ListDestructions(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	lines, err := h.Destructions.List(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err, "Failed to list destructions")
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// AddDestruction appends a write-off line.
func (h *Handler) AddDestruction(w http.ResponseWriter, r *http.Request) {
	var req AddDestructionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	line, err := h.Destructions.Add(r.Context(), req.SessionID, req.SKU, req.Name, toNumber(req.Qty), req.Reason)
	if err != nil {
		h.writeDomainError(w, err, "Failed to add destruction")
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

// RemoveDestruction removes a write-off line by id. Idempotent.
func (h *Handler) RemoveDestruction(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "sessionId and id required", nil)
		return
	}

	if err := h.Destructions.Remove(r.Context(), sessionID, id); err != nil {
		h.writeDomainError(w, err, "Failed to remove destruction")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// =============================================================================
// MAPPING HANDLERS
// =============================================================================

// GetMapping returns the stored column mapping, or null.
func (h *Handler) GetMapping(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	mapping, err := h.Mappings.Get(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err, "Failed to get mapping")
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}

// PutMapping stores the column mapping for a session.
func (h *Handler) PutMapping(w http.ResponseWriter, r *http.Request) {
	var req PutMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Mappings.Put(r.Context(), req.SessionID, req.Mapping); err != nil {
		h.writeDomainError(w, err, "Failed to store mapping")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// DetectMapping auto-detects a column mapping from uploaded headers.
func (h *Handler) DetectMapping(w http.ResponseWriter, r *http.Request) {
	var req DetectMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Headers) == 0 {
		writeError(w, http.StatusBadRequest, "headers required", nil)
		return
	}

	mapping, ok := csvmap.Detect(req.Headers)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "no mapping found", nil)
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}

// =============================================================================
// SCAN HANDLER
// =============================================================================

// Scan matches a scanned code against the session's rows and, on a
// match, increments the row's counted quantity. This is a read-then-
// write over the session document; concurrent scanners race and the
// last full-document write wins.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code required", nil)
		return
	}

	rows, err := h.Counts.GetAll(r.Context(), req.SessionID)
	if err != nil {
		h.writeDomainError(w, err, "Failed to load counts")
		return
	}

	row, code := scan.Match(rows, req.Code, req.City)
	if row == nil {
		writeJSON(w, http.StatusOK, ScanResponse{Matched: false, Code: code})
		return
	}

	next := scan.NextCount(row)
	updated, err := h.Counts.PatchCount(r.Context(), req.SessionID, row.ID, &next)
	if err != nil {
		h.writeDomainError(w, err, "Failed to increment count")
		return
	}
	writeJSON(w, http.StatusOK, ScanResponse{Matched: true, Code: code, Row: &updated})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// CountsReport streams the reconciliation report CSV.
func (h *Handler) CountsReport(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	city := r.URL.Query().Get("city")

	rows, err := h.Counts.GetAll(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err, "Failed to load counts")
		return
	}
	lines, err := h.Destructions.List(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err, "Failed to load destructions")
		return
	}

	csvBytes, err := report.CountsCSV(rows, lines, city)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}
	writeCSV(w, fmt.Sprintf("count_report_%s.csv", time.Now().UTC().Format("2006-01-02")), csvBytes)
}

// DestructionsReport streams the write-off lines CSV.
func (h *Handler) DestructionsReport(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")

	lines, err := h.Destructions.List(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, err, "Failed to load destructions")
		return
	}

	csvBytes, err := report.DestructionsCSV(lines)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}
	writeCSV(w, fmt.Sprintf("destructions_%s.csv", time.Now().UTC().Format("2006-01-02")), csvBytes)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// AdminWipe clears every key in every namespace. Requires the admin key
// and an explicit confirm=yes.
func (h *Handler) AdminWipe(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	if r.URL.Query().Get("confirm") != "yes" {
		writeError(w, http.StatusBadRequest,
			"Safety check: add &confirm=yes to actually wipe", nil)
		return
	}

	summary := h.Registry.DeleteAll(r.Context())
	h.Log.WithField("summary", summary).Warn("admin wipe executed")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "summary": summary})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// writeDomainError maps domain error categories onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case inventory.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case inventory.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	default:
		h.Log.WithError(err).Error(fallback)
		writeError(w, http.StatusInternalServerError, fallback, err)
	}
}
