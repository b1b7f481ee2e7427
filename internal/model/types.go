// Package model holds the wire and storage types of the WasteWatch API.
package model

import "time"

// Location is a latitude/longitude pair in degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteRequest asks for an optimized pickup order over at least two stops.
type RouteRequest struct {
	Locations []Location `json:"locations"`
}

// RouteResponse carries the visiting order (original indices) and the
// locations reordered accordingly.
type RouteResponse struct {
	RouteOrder []int      `json:"route_order"`
	Route      []Location `json:"route"`
}

// BinInfo identifies a bin and its position.
type BinInfo struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// KPI is the current dashboard summary for one bin.
type KPI struct {
	CurrentFill float64   `json:"current_fill"`
	NextPickup  time.Time `json:"next_pickup"`
	CH4         float64   `json:"ch4"`
	NH3         float64   `json:"nh3"`
}

// ForecastPoint is one predicted fill/gas sample. Type is always "forecast".
type ForecastPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Fill      float64   `json:"fill"`
	CH4       float64   `json:"ch4"`
	NH3       float64   `json:"nh3"`
	Type      string    `json:"type"`
}

// HistoryPoint is one stored sensor sample. Type is always "sensor".
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Fill      float64   `json:"fill"`
	CH4       float64   `json:"ch4"`
	NH3       float64   `json:"nh3"`
	Type      string    `json:"type"`
}

// AlertsResponse lists active textual alert codes for a bin.
type AlertsResponse struct {
	Alerts []string `json:"alerts"`
}

// ReadingIn is a sensor reading pushed by a collector.
type ReadingIn struct {
	BinID     string  `json:"binId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Fill      float64 `json:"fill"`
	CH4       float64 `json:"ch4"`
	NH3       float64 `json:"nh3"`
	TS        string  `json:"ts,omitempty"` // RFC3339; defaults to now
}

// Reading is a stored sensor reading.
type Reading struct {
	ID        string    `json:"id"`
	BinID     string    `json:"binId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Fill      float64   `json:"fill"`
	CH4       float64   `json:"ch4"`
	NH3       float64   `json:"nh3"`
	Timestamp time.Time `json:"timestamp"`
}

// Prediction is one forecast row for a bin, including the pickup and gas
// flags the alert queries inspect.
type Prediction struct {
	BinID       string
	Time        time.Time
	Fill        float64
	CH4         float64
	NH3         float64
	NeedPickup  bool
	GasExceeded bool
}
