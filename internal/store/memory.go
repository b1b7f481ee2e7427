package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"wastewatch/internal/model"
)

// Memory is a simple in-memory store used when no database URL is set.
// Readings are kept per bin in insertion order; predictions are seeded by
// tests and dev fixtures via AddPrediction.
type Memory struct {
	mu          sync.Mutex
	readings    map[string][]model.Reading // binID -> readings, oldest first
	predictions map[string][]model.Prediction
	binOrder    []string // insertion order of first sighting, for stable listings
}

func NewMemory() *Memory {
	return &Memory{
		readings:    map[string][]model.Reading{},
		predictions: map[string][]model.Prediction{},
	}
}

func (m *Memory) ListBins(ctx context.Context) ([]model.BinInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := append([]string(nil), m.binOrder...)
	sort.Strings(ids)
	out := make([]model.BinInfo, 0, len(ids))
	for _, id := range ids {
		rs := m.readings[id]
		if len(rs) == 0 {
			continue
		}
		latest := latestOf(rs)
		out = append(out, model.BinInfo{ID: id, Latitude: latest.Latitude, Longitude: latest.Longitude})
	}
	return out, nil
}

// latestOf picks the reading with the newest timestamp; readings may arrive
// out of order when a sensor backfills with an explicit ts.
func latestOf(rs []model.Reading) model.Reading {
	latest := rs[0]
	for _, r := range rs[1:] {
		if r.Timestamp.After(latest.Timestamp) {
			latest = r
		}
	}
	return latest
}

func (m *Memory) GetKPI(ctx context.Context, binID string) (model.KPI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs := m.readings[binID]
	if len(rs) == 0 {
		return model.KPI{}, ErrNotFound
	}
	latest := latestOf(rs)
	var next *time.Time
	for _, p := range m.predictions[binID] {
		if !p.NeedPickup {
			continue
		}
		if next == nil || p.Time.Before(*next) {
			t := p.Time
			next = &t
		}
	}
	if next == nil {
		return model.KPI{}, ErrNoPickup
	}
	return model.KPI{CurrentFill: latest.Fill, NextPickup: *next, CH4: latest.CH4, NH3: latest.NH3}, nil
}

func (m *Memory) GetForecast(ctx context.Context, binID string) ([]model.ForecastPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps := append([]model.Prediction(nil), m.predictions[binID]...)
	sort.Slice(ps, func(i, j int) bool { return ps[i].Time.Before(ps[j].Time) })
	out := make([]model.ForecastPoint, 0, len(ps))
	for _, p := range ps {
		out = append(out, model.ForecastPoint{Timestamp: p.Time, Fill: p.Fill, CH4: p.CH4, NH3: p.NH3, Type: "forecast"})
	}
	return out, nil
}

func (m *Memory) GetHistory(ctx context.Context, binID string, limit int) ([]model.HistoryPoint, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Newest first by timestamp, not insertion order.
	rs := append([]model.Reading(nil), m.readings[binID]...)
	sort.Slice(rs, func(i, j int) bool { return rs[i].Timestamp.After(rs[j].Timestamp) })
	if len(rs) > limit {
		rs = rs[:limit]
	}
	out := make([]model.HistoryPoint, 0, len(rs))
	for _, r := range rs {
		out = append(out, model.HistoryPoint{Timestamp: r.Timestamp, Fill: r.Fill, CH4: r.CH4, NH3: r.NH3, Type: "sensor"})
	}
	return out, nil
}

func (m *Memory) GetAlerts(ctx context.Context, binID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	needPickup, gas := false, false
	for _, p := range m.predictions[binID] {
		needPickup = needPickup || p.NeedPickup
		gas = gas || p.GasExceeded
	}
	alerts := []string{}
	if needPickup {
		alerts = append(alerts, "Pickup needed")
	}
	if gas {
		alerts = append(alerts, "Gas threshold exceeded")
	}
	return alerts, nil
}

func (m *Memory) InsertReading(ctx context.Context, r model.Reading) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, seen := m.readings[r.BinID]; !seen {
		m.binOrder = append(m.binOrder, r.BinID)
	}
	m.readings[r.BinID] = append(m.readings[r.BinID], r)
	return r.ID, nil
}

// AddPrediction seeds a forecast row. Fixture helper for tests and dev runs.
func (m *Memory) AddPrediction(p model.Prediction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions[p.BinID] = append(m.predictions[p.BinID], p)
}
