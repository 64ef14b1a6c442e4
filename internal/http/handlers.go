package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"lcgrants/internal/core"
	"lcgrants/internal/filter"
	applog "lcgrants/internal/log"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type filtersData struct {
	Min           string
	Max           string
	AmountMin     string
	AmountMax     string
	Tagging       []option
	Sources       []option
	Categories    []option
	Subcategories []option
	IsDefault     bool
	Matched       int
}

type pageData struct {
	Title      string
	Source     string
	Rows       int
	GrandTotal string
	Filters    filtersData
}

func (s *Server) filtersData(st filter.State, matched int) filtersData {
	lim := st.Limits()
	d := filtersData{
		Min:       lim.Min.String(),
		Max:       lim.Max.String(),
		AmountMin: st.AmountMin.String(),
		AmountMax: st.AmountMax.String(),
		IsDefault: st.IsDefault(),
		Matched:   matched,
	}
	for _, t := range core.TaggingStatuses() {
		d.Tagging = append(d.Tagging, option{Value: string(t), Label: t.Label(), Selected: st.HasTagging(t)})
	}
	for _, src := range core.DataSources() {
		d.Sources = append(d.Sources, option{Value: string(src), Label: src.Label(), Selected: st.HasSource(src)})
	}
	for _, e := range s.categories.Entries() {
		d.Categories = append(d.Categories, option{Value: e.Code, Label: e.Label, Selected: e.Code == st.Category})
	}
	for _, sub := range s.ds.SubcategoryOptions() {
		d.Subcategories = append(d.Subcategories, option{Value: sub, Label: sub, Selected: sub == st.Subcategory})
	}
	return d
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	data := pageData{
		Title:      "Long Covid grants",
		Source:     s.ds.Source(),
		Rows:       s.ds.Len(),
		GrandTotal: core.FormatGBP(s.ds.GrandTotal()),
		Filters:    s.filtersData(sess.State(), sess.View().Len()),
	}
	s.renderPartial(w, r, "index.html", data, nil)
}

func (s *Server) handleFiltersPartial(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.renderPartial(w, r, "filters", s.filtersData(sess.State(), sess.View().Len()), nil)
}

// handleUpdateFilters applies any subset of the five criteria. A rejected
// update leaves the session's state untouched; a form naming no criterion
// re-renders the form without announcing a change.
func (s *Server) handleUpdateFilters(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.logger.WarnContext(r.Context(), "Parse form error", applog.FieldError, err)
		BadRequestError("Malformed filter request").Write(w)
		return
	}

	sess := s.session(w, r)
	upd, err := ParseFilterForm(r.PostForm)
	if err == nil && upd.Empty() {
		s.renderPartial(w, r, "filters", s.filtersData(sess.State(), sess.View().Len()), nil)
		return
	}
	if err == nil {
		err = sess.Update(upd.Apply)
	}
	if err != nil {
		if errors.Is(err, filter.ErrInvalidFilter) {
			s.logger.InfoContext(r.Context(), "Filter update rejected",
				applog.FieldSessionID, sess.ID, applog.FieldError, err)
			UnprocessableEntityError(err.Error()).
				TriggerErrorNotification("Invalid filter: " + err.Error()).
				Write(w)
			return
		}
		s.structured.LogError(r.Context(), "Filter update failed", err, applog.ComponentFilter, applog.OpFilter,
			applog.NewFields().WithSessionID(sess.ID))
		InternalServerError("Failed to update filters").Write(w)
		return
	}

	st := sess.State()
	matched := sess.View().Len()
	s.structured.LogFiltersApplied(r.Context(), sess.ID, st.Key(), matched)
	s.renderPartial(w, r, "filters", s.filtersData(st, matched),
		NewHTMXResponse().TriggerFiltersChanged(st.Key(), matched))
}

// handleResetFilters restores the defaults and returns the re-rendered form
// so every widget shows them.
func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Reset()

	st := sess.State()
	matched := sess.View().Len()
	s.logger.InfoContext(r.Context(), "Filters reset",
		applog.FieldSessionID, sess.ID, applog.FieldOperation, applog.OpReset)
	s.renderPartial(w, r, "filters", s.filtersData(st, matched),
		NewHTMXResponse().TriggerFiltersChanged(st.Key(), matched))
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether the dataset is loaded and the source is
// reachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	checks["dataset"] = map[string]interface{}{
		"source": s.ds.Source(),
		"grants": s.ds.Len(),
		"status": "ok",
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["source"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["source"] = "ok"
		}
	}

	checks["sessions"] = map[string]interface{}{
		"active": s.sessions.Len(),
		"status": "ok",
	}
	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	traceMetrics := s.tracer.GetMetrics()
	rateMetrics := s.rateLimiter.GetMetrics()
	secMetrics := s.detector.GetMetrics()

	metric := func(name, kind, help string, value interface{}) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}
	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_request_duration_avg_ms", "gauge", "Average request duration", traceMetrics.AverageResponseTime.Milliseconds())
	metric("rate_limit_hits_total", "counter", "Requests rejected by the rate limiter", rateMetrics.TotalHits)
	metric("rate_limit_clients", "gauge", "Clients tracked by the rate limiter", rateMetrics.ClientCount)
	metric("security_suspicious_requests_total", "counter", "Requests flagged as suspicious", secMetrics.SuspiciousRequests)
	metric("security_blocked_requests_total", "counter", "Requests rejected outright", secMetrics.BlockedRequests)
	metric("sessions_active", "gauge", "Live dashboard sessions", s.sessions.Len())
	metric("dataset_grants", "gauge", "Grants in the loaded dataset", s.ds.Len())

	if s.caches != nil {
		sizes := s.caches.Sizes()
		names := make([]string, 0, len(sizes))
		for name := range sizes {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(w, "# HELP cache_entries Entries per cache\n# TYPE cache_entries gauge\n")
		for _, name := range names {
			fmt.Fprintf(w, "cache_entries{cache=%q} %d\n", name, sizes[name])
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
