package http

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"txdash/internal/dataset"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().BodyJSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).Round(time.Second).String(),
	}).Write(w)
}

// handleReady is the readiness probe: 200 only once the dataset is loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := s.dashboard.Status()
	checks := map[string]any{}
	httpStatus := http.StatusOK

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	ds := map[string]any{"state": status.State.String()}
	switch status.State {
	case dataset.StateReady:
		ds["customers"] = status.Customers
		ds["transactions"] = status.Transactions
		ds["loaded_at"] = status.LoadedAt.Format(time.RFC3339)
	case dataset.StateError:
		ds["error"] = loadErrorMessage(status.Err)
		httpStatus = http.StatusServiceUnavailable
	default:
		httpStatus = http.StatusServiceUnavailable
	}
	checks["dataset"] = ds
	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.ActiveClients()}

	state := "ready"
	if httpStatus != http.StatusOK {
		state = "not_ready"
	}
	NewHTMXResponse().Status(httpStatus).BodyJSON(map[string]any{
		"status":    state,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	traceMetrics := s.traceMiddleware.GetMetrics()
	limitMetrics := s.rateLimiter.GetMetrics()
	status := s.dashboard.Status()

	metric(w, "http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric(w, "http_client_errors_total", "counter", "Responses with a 4xx status", traceMetrics.ClientErrors)
	metric(w, "http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors)
	metric(w, "http_response_time_avg_microseconds", "gauge", "Average response time", traceMetrics.AverageResponseTime)
	metric(w, "dashboard_page_views_total", "counter", "Full page renders", s.appMetrics.pageViews.Load())
	metric(w, "dashboard_partial_renders_total", "counter", "Table partial renders", s.appMetrics.partialRenders.Load())
	metric(w, "dashboard_api_requests_total", "counter", "JSON API requests", s.appMetrics.apiRequests.Load())
	metric(w, "dashboard_render_errors_total", "counter", "Template execution failures", s.appMetrics.renderErrors.Load())
	metric(w, "rate_limit_hits_total", "counter", "Requests rejected by the rate limiter", limitMetrics.TotalHits)
	metric(w, "active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", limitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP dataset_state Dataset lifecycle state (1 for the current state)\n")
	fmt.Fprintf(w, "# TYPE dataset_state gauge\n")
	for _, st := range []dataset.State{dataset.StateLoading, dataset.StateReady, dataset.StateError} {
		v := 0
		if st == status.State {
			v = 1
		}
		fmt.Fprintf(w, "dataset_state{state=%q} %d\n", st.String(), v)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "# HELP dataset_rows Loaded rows by kind\n")
	fmt.Fprintf(w, "# TYPE dataset_rows gauge\n")
	fmt.Fprintf(w, "dataset_rows{kind=\"customers\"} %d\n", status.Customers)
	fmt.Fprintf(w, "dataset_rows{kind=\"transactions\"} %d\n\n", status.Transactions)

	stats := s.dashboard.CacheStats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "# HELP cache_hits_total Derived view cache hits\n")
	fmt.Fprintf(w, "# TYPE cache_hits_total counter\n")
	for _, name := range names {
		fmt.Fprintf(w, "cache_hits_total{cache=%q} %d\n", name, stats[name].Hits)
	}
	fmt.Fprintf(w, "\n# HELP cache_misses_total Derived view cache misses\n")
	fmt.Fprintf(w, "# TYPE cache_misses_total counter\n")
	for _, name := range names {
		fmt.Fprintf(w, "cache_misses_total{cache=%q} %d\n", name, stats[name].Misses)
	}
	fmt.Fprintf(w, "\n# HELP cache_entries Current cache entries\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	for _, name := range names {
		fmt.Fprintf(w, "cache_entries{cache=%q} %d\n", name, stats[name].Size)
	}

	fmt.Fprintf(w, "\n# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.appMetrics.uptime).Seconds())
}

func metric(w http.ResponseWriter, name, kind, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	fmt.Fprintf(w, "%s %d\n\n", name, value)
}
