package api

import (
	"encoding/json"
	"net/http"
	"time"

	"wastewatch/internal/buildinfo"
)

func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"addr":           s.Cfg.Addr,
			"historyLimit":   s.Cfg.HistoryLimit,
			"rateRps":        s.Cfg.RateRPS,
			"rateBurst":      s.Cfg.RateBurst,
			"optimizer":      s.Cfg.Optimizer,
			"sensorAuthOpen": s.Keys.Open(),
			"hasDatabaseUrl": s.Cfg.DatabaseURL != "",
			"hasRedisUrl":    s.Cfg.RedisURL != "",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
