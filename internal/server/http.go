package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
)

const maxControlBody = 1 << 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler returns the HTTP API. A nil gatherer serves the default Prometheus
// registry on /metrics.
func (h *Host) Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stats", h.handleStats)
	mux.HandleFunc("GET /system", h.handleSystem)
	mux.HandleFunc("POST /control", h.handleControl)
	mux.HandleFunc("GET /ws", h.handleWebSocket)
	if gatherer == nil {
		mux.Handle("GET /metrics", promhttp.Handler())
	} else {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Host) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Statistics())
}

func (h *Host) handleSystem(w http.ResponseWriter, r *http.Request) {
	sys := h.Snapshot()
	if sys == nil {
		writeError(w, http.StatusNotFound, engine.ErrNoActiveSystem)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := celestial.Encode(w, sys, celestial.FormatJSON); err != nil {
		h.log.Error("encode system", "error", err)
	}
}

func (h *Host) handleControl(w http.ResponseWriter, r *http.Request) {
	var c Command
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxControlBody)).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if err := h.Apply(c); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Statistics())
}

// handleWebSocket pushes Statistics every PushEvery and applies any Command
// the client sends. Rejected commands are reported as {"error": ...}.
func (h *Host) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// gorilla allows one concurrent writer; replies from the reader share
	// the push loop's lock.
	var writeMu sync.Mutex
	send := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		return conn.WriteJSON(v)
	}

	go func() {
		defer cancel()
		for {
			var c Command
			if err := conn.ReadJSON(&c); err != nil {
				return
			}
			if err := h.Apply(c); err != nil {
				if send(map[string]string{"error": err.Error()}) != nil {
					return
				}
			}
		}
	}()

	ticker := time.NewTicker(h.pushEvery)
	defer ticker.Stop()
	for {
		if err := send(h.Statistics()); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		case <-ticker.C:
		}
	}
}

// ListenAndServe runs the tick loop and the HTTP API on addr until ctx is
// done, then shuts both down.
func (h *Host) ListenAndServe(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(gatherer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := h.Loop(loopCtx); err != nil {
			h.log.Error("tick loop", "error", err)
		}
	}()

	errc := make(chan error, 1)
	go func() {
		h.log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		h.log.Warn("http shutdown", "error", err)
	}
	stopLoop()
	wg.Wait()
	return serveErr
}
