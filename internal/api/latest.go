package api

import (
	"sort"
	"sync"
)

// LatestReading holds the latest known reading for a bin.
type LatestReading struct {
	BinID string  `json:"binId"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Fill  float64 `json:"fill"`
	CH4   float64 `json:"ch4"`
	NH3   float64 `json:"nh3"`
	TS    string  `json:"ts"`
}

// LatestCache stores the most recent reading per bin, used to seed live
// streams with a snapshot before deltas arrive.
type LatestCache struct {
	mu sync.Mutex
	m  map[string]LatestReading
}

// NewLatestCache constructs a LatestCache.
func NewLatestCache() *LatestCache { return &LatestCache{m: map[string]LatestReading{}} }

// Upsert stores or updates the latest reading for a bin.
func (c *LatestCache) Upsert(binID string, lat, lng, fill, ch4, nh3 float64, ts string) {
	if binID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[binID] = LatestReading{BinID: binID, Lat: lat, Lng: lng, Fill: fill, CH4: ch4, NH3: nh3, TS: ts}
}

// Get returns the latest reading for a bin, if any.
func (c *LatestCache) Get(binID string) (LatestReading, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[binID]
	return v, ok
}

// List returns latest readings for all bins, sorted by bin id.
func (c *LatestCache) List() []LatestReading {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LatestReading, 0, len(c.m))
	for _, v := range c.m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BinID < out[j].BinID })
	return out
}
