package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wastewatch/internal/metrics"
	"wastewatch/internal/model"
	"wastewatch/internal/opt"
	"wastewatch/internal/store"
)

// OptimizeRouteHandler handles POST /v1/optimize-route
func (s *Server) OptimizeRouteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateRouteRequest(&req); err != nil {
		metrics.OptimizeRuns.WithLabelValues("invalid").Inc()
		writeTypedProblem(w, http.StatusBadRequest, problemInvalidInput, "Invalid request", err.Error(), r.URL.Path)
		return
	}
	stops := make([]opt.Point, len(req.Locations))
	for i, l := range req.Locations {
		stops[i] = opt.Point{Lat: l.Lat, Lng: l.Lng}
	}
	start := time.Now()
	res, err := s.Pool.Optimize(r.Context(), stops)
	if err != nil {
		switch {
		case errors.Is(err, opt.ErrInvalidInput):
			metrics.OptimizeRuns.WithLabelValues("invalid").Inc()
			writeTypedProblem(w, http.StatusBadRequest, problemInvalidInput, "Invalid request", err.Error(), r.URL.Path)
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			metrics.OptimizeRuns.WithLabelValues("busy").Inc()
			writeTypedProblem(w, http.StatusServiceUnavailable, problemOptimizerBusy, "Optimizer busy", "all optimizer workers are in use", r.URL.Path)
		default:
			metrics.OptimizeRuns.WithLabelValues("failed").Inc()
			writeTypedProblem(w, http.StatusInternalServerError, problemSolverFailure, "No route solution found", err.Error(), r.URL.Path)
		}
		return
	}
	metrics.OptimizeRuns.WithLabelValues("ok").Inc()
	metrics.OptimizeStops.Observe(float64(len(stops)))
	metrics.OptimizePasses.Observe(float64(res.Passes))
	metrics.OptimizeDuration.Observe(time.Since(start).Seconds())

	route := make([]model.Location, len(res.Stops))
	for i, p := range res.Stops {
		route[i] = model.Location{Lat: p.Lat, Lng: p.Lng}
	}
	writeJSON(w, http.StatusOK, model.RouteResponse{RouteOrder: res.Order, Route: route})
}

// LatestHandler handles GET /v1/bins/latest: the freshest reading per bin,
// served from the same cache that seeds live-stream snapshots.
func (s *Server) LatestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.Latest.List())
}

// BinsHandler handles GET /v1/bins
func (s *Server) BinsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	bins, err := s.Store.ListBins(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List bins failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, bins)
}

// BinByIDHandler dispatches /v1/bins/{id}/{kpi|forecast|history|alerts|events/stream}
func (s *Server) BinByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/bins/")
	if rest == r.URL.Path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing bin id", r.URL.Path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" || len(parts) < 2 {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if len(parts) > 2 && parts[1] == "events" && parts[2] == "stream" {
		s.binEventsStream(w, r, id)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch parts[1] {
	case "kpi":
		kpi, err := s.Store.GetKPI(r.Context(), id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeProblem(w, http.StatusNotFound, "Bin not found", "no sensor data for bin "+id, r.URL.Path)
		case errors.Is(err, store.ErrNoPickup):
			writeProblem(w, http.StatusNotFound, "No pickup prediction", "no scheduled pickup for bin "+id, r.URL.Path)
		case err != nil:
			writeProblem(w, http.StatusInternalServerError, "KPI lookup failed", err.Error(), r.URL.Path)
		default:
			writeJSON(w, http.StatusOK, kpi)
		}
	case "forecast":
		fc, err := s.Store.GetForecast(r.Context(), id)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Forecast lookup failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, fc)
	case "history":
		limit := s.Cfg.HistoryLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		hist, err := s.Store.GetHistory(r.Context(), id, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "History lookup failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, hist)
	case "alerts":
		alerts, err := s.Store.GetAlerts(r.Context(), id)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Alerts lookup failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, model.AlertsResponse{Alerts: alerts})
	default:
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
	}
}

// binEventsStream serves SSE for live bin events.
func (s *Server) binEventsStream(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// subscribe
	ch := s.Broker.Subscribe(id)
	defer s.Broker.Unsubscribe(id, ch)
	// snapshot, so late joiners see current state before deltas
	if latest, ok := s.Latest.Get(id); ok {
		b, _ := json.Marshal(latest)
		fmt.Fprintf(w, "event: bin.snapshot\n")
		fmt.Fprintf(w, "data: %s\n\n", string(b))
	}
	fmt.Fprintf(w, "event: heartbeat\n")
	fmt.Fprintf(w, "data: {\"binId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
	flusher.Flush()
	// stream loop
	notify := r.Context().Done()
	for {
		select {
		case <-notify:
			return
		case evt := <-ch:
			b, _ := json.Marshal(evt.Data)
			fmt.Fprintf(w, "event: %s\n", evt.Type)
			fmt.Fprintf(w, "data: %s\n\n", string(b))
			flusher.Flush()
		case <-time.After(15 * time.Second):
			fmt.Fprintf(w, "event: heartbeat\n")
			fmt.Fprintf(w, "data: {\"binId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
			flusher.Flush()
		}
	}
}

// ReadingsHandler handles POST /v1/readings (sensor ingest)
func (s *Server) ReadingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.Keys.Verify(r.Header.Get("X-API-Key")) {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid sensor API key", r.URL.Path)
		return
	}
	var in model.ReadingIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateReading(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid reading", err.Error(), r.URL.Path)
		return
	}
	ts := time.Now().UTC()
	if in.TS != "" {
		parsed, err := time.Parse(time.RFC3339, in.TS)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid reading", "ts must be RFC3339: "+err.Error(), r.URL.Path)
			return
		}
		ts = parsed.UTC()
	}
	id, err := s.Store.InsertReading(r.Context(), model.Reading{
		BinID:     in.BinID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Fill:      in.Fill,
		CH4:       in.CH4,
		NH3:       in.NH3,
		Timestamp: ts,
	})
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Store reading failed", err.Error(), r.URL.Path)
		return
	}
	tsStr := ts.Format(time.RFC3339)
	s.Latest.Upsert(in.BinID, in.Latitude, in.Longitude, in.Fill, in.CH4, in.NH3, tsStr)
	s.Broker.Publish(in.BinID, BinEvent{Type: "bin.reading", Data: map[string]any{
		"binId": in.BinID,
		"fill":  in.Fill,
		"ch4":   in.CH4,
		"nh3":   in.NH3,
		"ts":    tsStr,
	}})
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// Check DB connectivity when using Postgres store
	type pinger interface{ Ping(ctx context.Context) error }
	if pg, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, 200, map[string]string{"status": "ready"})
}
