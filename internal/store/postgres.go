package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"wastewatch/internal/model"
)

// Postgres backs the dashboard with the sensor_data and predictions tables
// populated by the collector pipeline.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Ping reports database connectivity; used by the readiness probe.
func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// MigrateDir applies *.sql files from dir in lexical order (dev helper).
func (p *Postgres) MigrateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		sqlText, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if _, err := p.db.Exec(string(sqlText)); err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
	}
	return nil
}

func (p *Postgres) ListBins(ctx context.Context) ([]model.BinInfo, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT DISTINCT lokasi_id, latitude, longitude FROM sensor_data ORDER BY lokasi_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.BinInfo{}
	for rows.Next() {
		var b model.BinInfo
		if err := rows.Scan(&b.ID, &b.Latitude, &b.Longitude); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (p *Postgres) GetKPI(ctx context.Context, binID string) (model.KPI, error) {
	var k model.KPI
	row := p.db.QueryRowContext(ctx,
		`SELECT fill_percentage, ch4, nh3 FROM sensor_data WHERE lokasi_id=$1 ORDER BY timestamp DESC LIMIT 1`, binID)
	if err := row.Scan(&k.CurrentFill, &k.CH4, &k.NH3); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.KPI{}, ErrNotFound
		}
		return model.KPI{}, err
	}
	row = p.db.QueryRowContext(ctx,
		`SELECT prediction_time FROM predictions WHERE lokasi_id=$1 AND need_pickup=TRUE ORDER BY prediction_time ASC LIMIT 1`, binID)
	if err := row.Scan(&k.NextPickup); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.KPI{}, ErrNoPickup
		}
		return model.KPI{}, err
	}
	return k, nil
}

func (p *Postgres) GetForecast(ctx context.Context, binID string) ([]model.ForecastPoint, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT prediction_time, fill_percentage, ch4, nh3 FROM predictions WHERE lokasi_id=$1 ORDER BY prediction_time ASC`, binID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ForecastPoint{}
	for rows.Next() {
		f := model.ForecastPoint{Type: "forecast"}
		if err := rows.Scan(&f.Timestamp, &f.Fill, &f.CH4, &f.NH3); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (p *Postgres) GetHistory(ctx context.Context, binID string, limit int) ([]model.HistoryPoint, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT timestamp, fill_percentage, ch4, nh3 FROM sensor_data WHERE lokasi_id=$1 ORDER BY timestamp DESC LIMIT $2`, binID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.HistoryPoint{}
	for rows.Next() {
		h := model.HistoryPoint{Type: "sensor"}
		if err := rows.Scan(&h.Timestamp, &h.Fill, &h.CH4, &h.NH3); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (p *Postgres) GetAlerts(ctx context.Context, binID string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT 'Pickup needed' FROM predictions WHERE lokasi_id=$1 AND need_pickup=TRUE UNION `+
			`SELECT 'Gas threshold exceeded' FROM predictions WHERE lokasi_id=$1 AND gas_exceeded_threshold=TRUE`, binID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	alerts := []string{}
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	sort.Strings(alerts)
	return alerts, rows.Err()
}

func (p *Postgres) InsertReading(ctx context.Context, r model.Reading) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO sensor_data (id, lokasi_id, latitude, longitude, timestamp, fill_percentage, ch4, nh3) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.ID, r.BinID, r.Latitude, r.Longitude, r.Timestamp, r.Fill, r.CH4, r.NH3)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}
