package store

import (
	"context"
	"errors"

	"wastewatch/internal/model"
)

// Store is the persistence interface used by the API server.
type Store interface {
	// Bins
	ListBins(ctx context.Context) ([]model.BinInfo, error)

	// Per-bin dashboard data
	GetKPI(ctx context.Context, binID string) (model.KPI, error)
	GetForecast(ctx context.Context, binID string) ([]model.ForecastPoint, error)
	GetHistory(ctx context.Context, binID string, limit int) ([]model.HistoryPoint, error)
	GetAlerts(ctx context.Context, binID string) ([]string, error)

	// Sensor ingest
	InsertReading(ctx context.Context, r model.Reading) (string, error)
}

var (
	// ErrNotFound reports an unknown bin (no sensor data at all).
	ErrNotFound = errors.New("not found")
	// ErrNoPickup reports a known bin with no scheduled pickup prediction.
	ErrNoPickup = errors.New("no pickup scheduled")
)
