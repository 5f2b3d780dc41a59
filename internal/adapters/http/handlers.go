package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"svw.info/wordladder/internal/domain"
	"svw.info/wordladder/internal/usecase"
)

// maxBatch caps request sizes for batch and balanced endpoints.
const maxBatch = 500

type Handler struct {
	UC *usecase.Service
}

func New(uc *usecase.Service) *Handler { return &Handler{UC: uc} }

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate", h.handleGenerate)
	mux.HandleFunc("/api/batch", h.handleBatch)
	mux.HandleFunc("/api/balanced", h.handleBalanced)
	mux.HandleFunc("/api/verify", h.handleVerify)
	mux.HandleFunc("/api/hint", h.handleHint)
	mux.HandleFunc("/api/save", h.handleSave)
	mux.HandleFunc("/api/load", h.handleLoad)
	mux.HandleFunc("/api/list", h.handleList)
	mux.HandleFunc("/health", handleHealth)
}

type errorResp struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientBaseWords),
		errors.Is(err, domain.ErrQuotaUnmet),
		errors.Is(err, domain.ErrNoLadder):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResp{Error: err.Error()})
}

// begin sets the JSON content type and enforces the method. It reports
// whether the handler should continue.
func begin(w http.ResponseWriter, r *http.Request, method string) bool {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != method {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// decode reads a JSON body. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// parseDifficulty defaults to medium when s is empty.
func parseDifficulty(s string) (domain.Difficulty, error) {
	if strings.TrimSpace(s) == "" {
		return domain.Medium, nil
	}
	return domain.ParseDifficulty(s)
}

func normalizeWord(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func checkCount(w http.ResponseWriter, n int) bool {
	if n < 1 || n > maxBatch {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "count must be between 1 and 500"})
		return false
	}
	return true
}

// ---- Generate ----

type generateReq struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type generateResp struct {
	Puzzle     domain.Puzzle `json:"puzzle"`
	Steps      int           `json:"steps"`
	DurationMs int64         `json:"durationMs"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req generateReq
	if !decode(w, r, &req) {
		return
	}
	started := time.Now()
	p, err := h.UC.Generate(r.Context(), normalizeWord(req.Start), normalizeWord(req.End))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResp{Puzzle: p, Steps: p.Steps(), DurationMs: time.Since(started).Milliseconds()})
}

// ---- Batch ----

type batchReq struct {
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty,omitempty"`
}

type batchResp struct {
	Puzzles    []domain.Puzzle `json:"puzzles"`
	Attempts   int             `json:"attempts"`
	DurationMs int64           `json:"durationMs"`
	Error      string          `json:"error,omitempty"`
}

// handleBatch returns the partial batch alongside the error when a quota is
// missed.
func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	req := batchReq{Count: 1}
	if !decode(w, r, &req) || !checkCount(w, req.Count) {
		return
	}
	d, err := parseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	ps, st, err := h.UC.Batch(r.Context(), req.Count, d)
	resp := batchResp{Puzzles: ps, Attempts: st.Attempts, DurationMs: st.Duration.Milliseconds()}
	if resp.Puzzles == nil {
		resp.Puzzles = []domain.Puzzle{}
	}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = statusFor(err)
	}
	writeJSON(w, status, resp)
}

// ---- Balanced ----

type balancedReq struct {
	Count  int            `json:"count"`
	Ratios *domain.Ratios `json:"ratios,omitempty"`
}

type balancedResp struct {
	Puzzles []domain.Puzzle `json:"puzzles"`
	Counts  map[string]int  `json:"counts"`
}

func (h *Handler) handleBalanced(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	req := balancedReq{Count: 10}
	if !decode(w, r, &req) || !checkCount(w, req.Count) {
		return
	}
	ratios := domain.DefaultRatios
	if req.Ratios != nil {
		ratios = *req.Ratios
	}
	ps, err := h.UC.Balanced(r.Context(), req.Count, ratios)
	if err != nil {
		writeError(w, err)
		return
	}
	counts := map[string]int{}
	for _, p := range ps {
		counts[p.Difficulty().String()]++
	}
	writeJSON(w, http.StatusOK, balancedResp{Puzzles: ps, Counts: counts})
}

// ---- Verify ----

type verifyReq struct {
	Puzzle string `json:"puzzle"`
}
type verifyResp struct {
	OK bool `json:"ok"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req verifyReq
	if !decode(w, r, &req) {
		return
	}
	ok, err := h.UC.Verify(r.Context(), req.Puzzle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResp{OK: ok})
}

// ---- Hint ----

type hintReq struct {
	Current string `json:"current"`
	Target  string `json:"target"`
}
type hintResp struct {
	Found bool        `json:"found"`
	Hint  domain.Hint `json:"hint"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req hintReq
	if !decode(w, r, &req) {
		return
	}
	req.Current, req.Target = normalizeWord(req.Current), normalizeWord(req.Target)
	if req.Current == "" || req.Target == "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "current and target are required"})
		return
	}
	hh, ok, err := h.UC.Hint(r.Context(), req.Current, req.Target)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hintResp{Found: ok, Hint: hh})
}

// ---- Save / Load / List ----

type saveResp struct {
	ID string `json:"id"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var rec domain.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if err := h.UC.Save(r.Context(), &rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResp{ID: rec.ID})
}

type loadReq struct {
	ID string `json:"id"`
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodPost) {
		return
	}
	var req loadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid JSON or missing id"})
		return
	}
	rec, err := h.UC.Load(r.Context(), req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type listResp struct {
	Puzzles []domain.PuzzleMeta `json:"puzzles"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodGet) {
		return
	}
	ps, err := h.UC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ps == nil {
		ps = []domain.PuzzleMeta{}
	}
	writeJSON(w, http.StatusOK, listResp{Puzzles: ps})
}

// ---- Health ----

type healthResp struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	GoVersion string `json:"goVersion"`
}

var startTime = time.Now()

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if !begin(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, healthResp{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		GoVersion: runtime.Version(),
	})
}
