package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/render"
	"fintrack/internal/report"
)

var errUnknownReportKind = errors.New("unknown report kind")

// handleReport serves one aggregated period report. The response keeps
// the period label under a kind-specific key (date, week, month, year).
func (s *Server) handleReport(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := userIDFrom(ctx)

		rep, err := s.assembleCached(ctx, kind, userID, r)
		if err != nil {
			s.writeReportError(ctx, w, kind, err)
			return
		}
		respondJSON(w, http.StatusOK, reportPayload(rep))
	}
}

// handleReportExport streams the report as a CSV download.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)
	kind := r.PathValue("kind")

	if format := r.URL.Query().Get("format"); format != "" && format != "csv" {
		respondError(w, http.StatusBadRequest, "Unsupported export format")
		return
	}

	rep, err := s.assembleCached(ctx, kind, userID, r)
	if err != nil {
		s.writeReportError(ctx, w, kind, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+render.Filename(rep)+`"`)
	if err := render.WriteCSV(w, rep); err != nil {
		slog.ErrorContext(ctx, "CSV export failed",
			applog.FieldError, err,
			applog.FieldUserID, userID,
			applog.FieldPeriod, kind)
	}
}

// assembleCached serves from the per-user report cache when possible.
func (s *Server) assembleCached(ctx context.Context, kind, userID string, r *http.Request) (*report.Report, error) {
	anchor := reportAnchor(kind, r)
	key := reportCacheKey(userID, kind, anchor, time.Now().UTC())

	if rep, ok := s.reportCache.Get(key); ok {
		slog.DebugContext(ctx, "Report cache hit", applog.FieldUserID, userID, applog.FieldPeriod, kind)
		return rep, nil
	}

	rep, err := s.assemble(ctx, kind, userID, anchor)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(key, rep)
	return rep, nil
}

func (s *Server) assemble(ctx context.Context, kind, userID, anchor string) (*report.Report, error) {
	switch kind {
	case "daily":
		return s.reports.Daily(ctx, userID, anchor)
	case "weekly":
		return s.reports.Weekly(ctx, userID, anchor)
	case "monthly":
		return s.reports.Monthly(ctx, userID, anchor)
	case "annual":
		return s.reports.Annual(ctx, userID, anchor)
	default:
		return nil, errUnknownReportKind
	}
}

// reportCacheKey pins anchorless requests to the current period, so a
// cached "today" report cannot outlive a date rollover within the TTL.
func reportCacheKey(userID, kind, anchor string, now time.Time) string {
	if anchor == "" {
		switch kind {
		case "monthly":
			anchor = now.Format("2006-01")
		case "annual":
			anchor = now.Format("2006")
		default:
			anchor = now.Format("2006-01-02")
		}
	}
	return userID + "/" + kind + "/" + anchor
}

// reportAnchor picks the query parameter that anchors each period kind.
func reportAnchor(kind string, r *http.Request) string {
	switch kind {
	case "monthly":
		return r.URL.Query().Get("month")
	case "annual":
		return r.URL.Query().Get("year")
	default:
		return r.URL.Query().Get("date")
	}
}

func (s *Server) writeReportError(ctx context.Context, w http.ResponseWriter, kind string, err error) {
	logger := applog.FromContext(ctx)
	switch {
	case errors.Is(err, errUnknownReportKind):
		respondError(w, http.StatusNotFound, "Unknown report type")
	case errors.Is(err, report.ErrInvalidPeriodAnchor):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, report.ErrReportUnavailable):
		logger.ErrorContext(ctx, "Report store unavailable", applog.FieldError, err, applog.FieldPeriod, kind)
		respondError(w, http.StatusServiceUnavailable, "Report temporarily unavailable")
	default:
		logger.ErrorContext(ctx, "Report assembly failed", applog.FieldError, err, applog.FieldPeriod, kind)
		respondError(w, http.StatusInternalServerError, "Failed to fetch "+kind+" report")
	}
}

// reportPayload shapes the JSON response. Annual reports expose the
// monthly breakdown instead of a flat transaction list.
func reportPayload(rep *report.Report) map[string]any {
	payload := map[string]any{
		"totalCredits": rep.Credits,
		"totalDebits":  rep.Debits,
		"balance":      rep.Balance,
	}

	switch rep.Kind {
	case report.Daily:
		payload["date"] = rep.Label
	case report.Weekly:
		payload["week"] = rep.Label
	case report.Monthly:
		payload["month"] = rep.Label
	case report.Annual:
		year, _ := strconv.Atoi(rep.Label)
		payload["year"] = year
	}

	if rep.Kind == report.Annual {
		months := rep.Months
		if months == nil {
			months = []report.MonthBucket{}
		}
		payload["monthlyData"] = months
		return payload
	}

	txs := rep.Transactions
	if txs == nil {
		txs = []core.Transaction{}
	}
	payload["transactions"] = txs
	return payload
}
