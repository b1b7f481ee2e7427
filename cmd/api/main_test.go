package main

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wastewatch/internal/api"
	"wastewatch/internal/config"
)

// streamRecorder implements Flusher and Hijacker so handlers can assert the
// writer keeps its streaming capabilities through the middleware chain.
type streamRecorder struct {
	*httptest.ResponseRecorder
}

func (r *streamRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return nil, nil, http.ErrNotSupported
}

func TestLogMiddlewareKeepsStreamingInterfaces(t *testing.T) {
	var gotFlusher, gotHijacker bool
	h := logMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, gotFlusher = w.(http.Flusher)
		_, gotHijacker = w.(http.Hijacker)
		w.WriteHeader(http.StatusOK)
	}))
	rec := &streamRecorder{ResponseRecorder: httptest.NewRecorder()}
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bins/b1/events/stream", nil))
	if !gotFlusher || !gotHijacker {
		t.Fatalf("flusher=%v hijacker=%v, want both preserved", gotFlusher, gotHijacker)
	}
}

func TestSSEThroughMiddlewareChain(t *testing.T) {
	cfg := config.Config{Addr: ":0", HistoryLimit: 100, Optimizer: config.OptimizerConfig{Workers: 1, TimeoutMs: 2000}}
	srvDeps, err := api.NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/bins/", srvDeps.BinByIDHandler)
	handler := requestIDMiddleware(corsMiddleware(logMiddleware(mux)))

	req := httptest.NewRequest(http.MethodGet, "/v1/bins/bin-1/events/stream", nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	req = req.WithContext(ctx)

	rec := &streamRecorder{ResponseRecorder: httptest.NewRecorder()}
	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	srvDeps.Broker.Publish("bin-1", api.BinEvent{Type: "bin.reading", Data: map[string]any{"fill": 42.0}})

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if bytes.Contains(rec.Body.Bytes(), []byte("event: bin.reading")) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("handler did not exit after cancel")
	}
	body := rec.Body.String()
	if rec.Code != http.StatusOK || bytes.Contains(rec.Body.Bytes(), []byte("Streaming unsupported")) {
		t.Fatalf("stream failed behind middleware: code=%d body=%s", rec.Code, body)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("event: bin.reading")) {
		t.Fatalf("missing published event, body=%s", body)
	}
}

func TestMetricsPathNormalizesBinIDs(t *testing.T) {
	cases := map[string]string{
		"/v1/bins":                    "/v1/bins",
		"/v1/bins/b-42":               "/v1/bins/{id}",
		"/v1/bins/b-42/kpi":           "/v1/bins/{id}/kpi",
		"/v1/bins/b-42/events/stream": "/v1/bins/{id}/events/stream",
		"/v1/optimize-route":          "/v1/optimize-route",
		"/healthz":                    "/healthz",
	}
	for in, want := range cases {
		if got := metricsPath(in); got != want {
			t.Fatalf("metricsPath(%q) = %q, want %q", in, got, want)
		}
	}
}
