package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"wastewatch/internal/model"
)

func seedMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := m.InsertReading(context.Background(), model.Reading{
			BinID:     "bin-1",
			Latitude:  -6.2,
			Longitude: 106.8,
			Fill:      float64(40 + 10*i),
			CH4:       1.5,
			NH3:       0.4,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("InsertReading: %v", err)
		}
	}
	return m
}

func TestMemoryListBinsSorted(t *testing.T) {
	m := NewMemory()
	for _, id := range []string{"bin-2", "bin-1"} {
		if _, err := m.InsertReading(context.Background(), model.Reading{BinID: id, Latitude: 1, Longitude: 2}); err != nil {
			t.Fatalf("InsertReading: %v", err)
		}
	}
	bins, err := m.ListBins(context.Background())
	if err != nil {
		t.Fatalf("ListBins: %v", err)
	}
	if len(bins) != 2 || bins[0].ID != "bin-1" || bins[1].ID != "bin-2" {
		t.Fatalf("bins = %+v, want bin-1 then bin-2", bins)
	}
}

func TestMemoryKPI(t *testing.T) {
	m := seedMemory(t)

	if _, err := m.GetKPI(context.Background(), "no-such-bin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown bin err = %v, want ErrNotFound", err)
	}
	if _, err := m.GetKPI(context.Background(), "bin-1"); !errors.Is(err, ErrNoPickup) {
		t.Fatalf("no prediction err = %v, want ErrNoPickup", err)
	}

	later := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	m.AddPrediction(model.Prediction{BinID: "bin-1", Time: later, NeedPickup: true})
	m.AddPrediction(model.Prediction{BinID: "bin-1", Time: earlier, NeedPickup: true})
	m.AddPrediction(model.Prediction{BinID: "bin-1", Time: earlier.Add(-time.Hour)}) // not a pickup

	kpi, err := m.GetKPI(context.Background(), "bin-1")
	if err != nil {
		t.Fatalf("GetKPI: %v", err)
	}
	if kpi.CurrentFill != 60 {
		t.Fatalf("CurrentFill = %v, want latest reading 60", kpi.CurrentFill)
	}
	if !kpi.NextPickup.Equal(earlier) {
		t.Fatalf("NextPickup = %v, want earliest pickup %v", kpi.NextPickup, earlier)
	}
}

func TestMemoryForecastSortedAscending(t *testing.T) {
	m := NewMemory()
	t2 := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	t1 := t2.Add(-time.Hour)
	m.AddPrediction(model.Prediction{BinID: "b", Time: t2, Fill: 80})
	m.AddPrediction(model.Prediction{BinID: "b", Time: t1, Fill: 70})

	fc, err := m.GetForecast(context.Background(), "b")
	if err != nil {
		t.Fatalf("GetForecast: %v", err)
	}
	if len(fc) != 2 || !fc[0].Timestamp.Equal(t1) || !fc[1].Timestamp.Equal(t2) {
		t.Fatalf("forecast not ascending: %+v", fc)
	}
	for _, p := range fc {
		if p.Type != "forecast" {
			t.Fatalf("Type = %q, want forecast", p.Type)
		}
	}
}

func TestMemoryHistoryNewestFirstWithLimit(t *testing.T) {
	m := seedMemory(t)

	hist, err := m.GetHistory(context.Background(), "bin-1", 2)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("len = %d, want 2", len(hist))
	}
	if !hist[0].Timestamp.After(hist[1].Timestamp) {
		t.Fatalf("history not newest-first: %+v", hist)
	}
	if hist[0].Fill != 60 {
		t.Fatalf("latest fill = %v, want 60", hist[0].Fill)
	}
	if hist[0].Type != "sensor" {
		t.Fatalf("Type = %q, want sensor", hist[0].Type)
	}
}

func TestMemoryHistoryOrdersByTimestampNotInsertion(t *testing.T) {
	m := NewMemory()
	newer := time.Date(2025, 6, 1, 13, 37, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	// Insert the newer reading first, then a backfill with an older ts.
	for _, r := range []model.Reading{
		{BinID: "b", Fill: 50, Timestamp: newer},
		{BinID: "b", Fill: 40, Timestamp: older},
	} {
		if _, err := m.InsertReading(context.Background(), r); err != nil {
			t.Fatalf("InsertReading: %v", err)
		}
	}
	hist, err := m.GetHistory(context.Background(), "b", 10)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(hist) != 2 || !hist[0].Timestamp.Equal(newer) || !hist[1].Timestamp.Equal(older) {
		t.Fatalf("history not newest-first by timestamp: %+v", hist)
	}

	// The KPI latest reading follows timestamps too.
	m.AddPrediction(model.Prediction{BinID: "b", Time: newer.Add(time.Hour), NeedPickup: true})
	kpi, err := m.GetKPI(context.Background(), "b")
	if err != nil {
		t.Fatalf("GetKPI: %v", err)
	}
	if kpi.CurrentFill != 50 {
		t.Fatalf("CurrentFill = %v, want 50 from the newer reading", kpi.CurrentFill)
	}
}

func TestMemoryHistoryClampsOversizedLimit(t *testing.T) {
	m := NewMemory()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		_, err := m.InsertReading(context.Background(), model.Reading{
			BinID: "b", Fill: float64(i), Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("InsertReading: %v", err)
		}
	}
	hist, err := m.GetHistory(context.Background(), "b", 1000000000)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(hist) != 100 {
		t.Fatalf("len = %d, want oversized limit clamped to 100", len(hist))
	}
}

func TestMemoryAlerts(t *testing.T) {
	m := NewMemory()
	alerts, err := m.GetAlerts(context.Background(), "b")
	if err != nil {
		t.Fatalf("GetAlerts: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("alerts = %v, want empty", alerts)
	}

	m.AddPrediction(model.Prediction{BinID: "b", Time: time.Now(), NeedPickup: true})
	m.AddPrediction(model.Prediction{BinID: "b", Time: time.Now(), GasExceeded: true})
	alerts, err = m.GetAlerts(context.Background(), "b")
	if err != nil {
		t.Fatalf("GetAlerts: %v", err)
	}
	want := []string{"Pickup needed", "Gas threshold exceeded"}
	if !reflect.DeepEqual(alerts, want) {
		t.Fatalf("alerts = %v, want %v", alerts, want)
	}
}

func TestMemoryInsertReadingAssignsIDAndTimestamp(t *testing.T) {
	m := NewMemory()
	id, err := m.InsertReading(context.Background(), model.Reading{BinID: "b", Fill: 10})
	if err != nil {
		t.Fatalf("InsertReading: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated ID")
	}
	hist, err := m.GetHistory(context.Background(), "b", 0)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(hist) != 1 || hist[0].Timestamp.IsZero() {
		t.Fatalf("history = %+v, want one row with timestamp set", hist)
	}
}
