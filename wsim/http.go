package wsim

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gorilla/mux"
)

// HTTPServer serves read-only views of a simulated election.
type HTTPServer struct {
	done chan struct{}
}

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	Listener net.Listener

	Sim *Simulator
}

// NewHTTPServer starts serving on the configured listener.
// The server shuts down when ctx is canceled.
func NewHTTPServer(ctx context.Context, log *slog.Logger, cfg HTTPServerConfig) *HTTPServer {
	srv := &http.Server{
		Handler: newMux(log, cfg),

		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	h := &HTTPServer{
		done: make(chan struct{}),
	}
	go h.serve(log, cfg.Listener, srv)
	go h.waitForShutdown(ctx, srv)

	return h
}

// Wait blocks until the server has stopped serving.
func (h *HTTPServer) Wait() {
	<-h.done
}

func (h *HTTPServer) waitForShutdown(ctx context.Context, srv *http.Server) {
	select {
	case <-h.done:
		// Serve already returned; nothing to close.
		return
	case <-ctx.Done():
		// Inspection responses are small snapshots,
		// so close outright instead of draining in-flight requests.
		_ = srv.Close()
	}
}

func (h *HTTPServer) serve(log *slog.Logger, ln net.Listener, srv *http.Server) {
	defer close(h.done)

	if err := srv.Serve(ln); err != nil {
		if errors.Is(err, net.ErrClosed) || errors.Is(err, http.ErrServerClosed) {
			log.Info("Inspection server stopped")
		} else {
			log.Info("Inspection server stopped due to error", "err", err)
		}
	}
}

func newMux(log *slog.Logger, cfg HTTPServerConfig) http.Handler {
	h := inspectHandler{log: log, sim: cfg.Sim}

	r := mux.NewRouter()
	r.HandleFunc("/state", h.HandleState).Methods("GET")
	r.HandleFunc("/schedule", h.HandleSchedule).Methods("GET")
	r.HandleFunc("/validators", h.HandleValidators).Methods("GET")
	return r
}

type inspectHandler struct {
	log *slog.Logger
	sim *Simulator
}

func (h inspectHandler) HandleState(w http.ResponseWriter, req *http.Request) {
	h.writeJSON(w, h.sim.Snapshot())
}

func (h inspectHandler) HandleSchedule(w http.ResponseWriter, req *http.Request) {
	snap := h.sim.Snapshot()
	h.writeJSON(w, struct {
		ScheduleReady    bool              `json:"schedule_ready"`
		ProposerTrackers []wcrypto.Tracker `json:"whisk_proposer_trackers"`
	}{
		ScheduleReady:    snap.ScheduleReady,
		ProposerTrackers: snap.ProposerTrackers,
	})
}

func (h inspectHandler) HandleValidators(w http.ResponseWriter, req *http.Request) {
	h.writeJSON(w, h.sim.Snapshot().Validators)
}

func (h inspectHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Info("Failed to encode inspection response", "err", err)
	}
}
