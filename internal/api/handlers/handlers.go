package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/spendlens/internal/advisor"
	"github.com/dvloznov/spendlens/internal/analytics"
	"github.com/dvloznov/spendlens/internal/api/middleware"
	"github.com/dvloznov/spendlens/internal/categorize"
	"github.com/dvloznov/spendlens/internal/export"
	"github.com/dvloznov/spendlens/internal/session"
	"github.com/dvloznov/spendlens/internal/table"
)

const maxUploadBytes = 10 << 20

// AnalysisHandler serves the transaction analysis endpoints. All state lives
// in per-caller sessions; the handler itself is stateless apart from the
// session store.
type AnalysisHandler struct {
	sessions *session.Store
	coach    advisor.Generator
	log      zerolog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(sessions *session.Store, coach advisor.Generator, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		sessions: sessions,
		coach:    coach,
		log:      log,
	}
}

// Upload handles POST /api/upload. The CSV arrives as multipart form data
// under the "file" field. A new session is created for every upload; its id
// comes back in the response and must accompany subsequent requests.
func (h *AnalysisHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "File field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read file")
		return
	}
	if len(content) > maxUploadBytes {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	sess := h.sessions.Create()
	result := sess.Load(r.Context(), content, header.Filename)

	h.log.Info().
		Str("session_id", sess.ID()).
		Str("filename", header.Filename).
		Bool("success", result.Success).
		Str("format", result.Format).
		Msg("Upload processed")

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}

	middleware.WriteJSON(w, status, map[string]any{
		"session_id":     sess.ID(),
		"result":         result,
		"format_display": result.FormatDisplay(),
	})
}

// Report handles GET /api/report.
func (h *AnalysisHandler) Report(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	result := sess.Result()
	if result == nil {
		middleware.WriteError(w, http.StatusConflict, "No transactions loaded. Upload a CSV first.")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"result":         result,
		"format_display": result.FormatDisplay(),
	})
}

// Summary handles GET /api/summary.
func (h *AnalysisHandler) Summary(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, analytics.Summary(t))
}

// Categories handles GET /api/categories.
func (h *AnalysisHandler) Categories(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}

	totals := categorize.Summary(t)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"categories": totals,
		"count":      len(totals),
	})
}

// Trends handles GET /api/trends.
func (h *AnalysisHandler) Trends(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}

	trends := analytics.MonthlyTrends(t)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"trends": trends,
		"count":  len(trends),
	})
}

// Extremes handles GET /api/extremes. The threshold query parameter
// overrides the default of 1000.
func (h *AnalysisHandler) Extremes(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}

	threshold := analytics.DefaultExtremeThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid threshold")
			return
		}
		threshold = parsed
	}

	extremes := analytics.FlagExtremes(t, threshold)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"extremes":  extremes,
		"count":     len(extremes),
		"threshold": threshold,
	})
}

// Advice handles POST /api/advice. The optional body carries a monthly
// savings goal and a tone for the coaching text.
func (h *AnalysisHandler) Advice(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}

	var req struct {
		Goal *float64 `json:"goal"`
		Tone string   `json:"tone"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Goal != nil && *req.Goal <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Savings goal must be positive")
		return
	}

	summary := analytics.Summary(t)
	categories := categorize.Summary(t)
	payload := advisor.BuildSummaryPayload(summary, categories, req.Goal)
	prompt := advisor.BuildCoachingPrompt(summary, categories, req.Goal, req.Tone)

	text, err := h.coach.Generate(r.Context(), prompt)
	if err != nil {
		h.log.Warn().Err(err).Msg("Advice generation failed")
		middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":   err.Error(),
			"summary": payload,
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"advice":  text,
		"summary": payload,
	})
}

// Export handles GET /api/export. The format query parameter selects csv
// (default) or json.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	stamp := time.Now().Format("20060102")
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=transactions-%s.csv", stamp))
		if err := export.WriteCSV(w, t); err != nil {
			h.log.Error().Err(err).Msg("CSV export failed")
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=transactions-%s.json", stamp))
		if err := export.WriteJSON(w, t); err != nil {
			h.log.Error().Err(err).Msg("JSON export failed")
		}
	default:
		middleware.WriteError(w, http.StatusBadRequest, "Invalid export format")
	}
}

// DeleteSession handles DELETE /api/session.
func (h *AnalysisHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	h.sessions.Delete(sess.ID())
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Health handles GET /health.
func (h *AnalysisHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	})
}

// session resolves the caller's session from the X-Session-ID header or the
// session query parameter. On failure it writes the error response and
// returns ok=false.
func (h *AnalysisHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.Header.Get("X-Session-ID")
	if id == "" {
		id = r.URL.Query().Get("session")
	}
	if id == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Session ID is required")
		return nil, false
	}

	sess, ok := h.sessions.Get(id)
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

// table resolves the session and its loaded transaction table.
func (h *AnalysisHandler) table(w http.ResponseWriter, r *http.Request) (*table.Table, bool) {
	sess, ok := h.session(w, r)
	if !ok {
		return nil, false
	}

	t := sess.Table()
	if t == nil {
		middleware.WriteError(w, http.StatusConflict, "No transactions loaded. Upload a CSV first.")
		return nil, false
	}
	return t, true
}
