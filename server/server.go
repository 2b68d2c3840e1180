// Package server exposes a running simulation over HTTP: a snapshot
// poll endpoint, a deposit-totals endpoint, and a websocket feed that
// pushes a Snapshot to every connected viewer as the match progresses.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	channerics "github.com/niceyeti/channerics/channels"

	"goldrush/simulation"
	"goldrush/snapshot"
)

// Server wires a running *simulation.Controller to an HTTP router.
type Server struct {
	addr       string
	controller *simulation.Controller
	router     *mux.Router
	snapshots  *hub[snapshot.Snapshot]
}

// New builds a Server for controller, routed under addr. It does not
// start listening; call Serve for that.
func New(addr string, controller *simulation.Controller) *Server {
	s := &Server{
		addr:       addr,
		controller: controller,
		snapshots:  newHub[snapshot.Snapshot](),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveWebsocket)
	r.HandleFunc("/api/snapshot", s.serveSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/deposits", s.serveDeposits).Methods(http.MethodGet)
	return r
}

// Serve blocks, running the HTTP server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("serve: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), closeGracePeriod)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Publish pushes snap to every connected viewer. It never blocks: a
// viewer that can't keep up simply misses intermediate snapshots, per
// client.publish's own rate limiting.
func (s *Server) Publish(snap snapshot.Snapshot) {
	s.snapshots.broadcast(snap)
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	updates := s.snapshots.subscribe()
	defer s.snapshots.unsubscribe(updates)

	cli, err := newClient[snapshot.Snapshot](updates, w, r)
	if err != nil {
		log.Println("websocket upgrade:", err)
		return
	}
	defer cli.ws.close()

	if err := cli.sync(); err != nil {
		log.Println("viewer disconnect:", err)
	}
}

func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := snapshot.Build(s.controller)
	writeJSON(w, snap)
}

func (s *Server) serveDeposits(w http.ResponseWriter, r *http.Request) {
	red, blue := s.controller.DepositTotals()
	writeJSON(w, struct {
		Red  int `json:"red"`
		Blue int `json:"blue"`
	}{Red: red, Blue: blue})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

const indexPage = `<!doctype html>
<html>
<head><title>gold rush</title></head>
<body>
<p>Connect a viewer to <code>/ws</code> for a live snapshot feed, or poll
<code>/api/snapshot</code> and <code>/api/deposits</code> directly.</p>
</body>
</html>`

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(indexPage))
}

// RunSimulation steps controller at the given step rate, publishing a
// snapshot after every step, until steps have elapsed or ctx is
// cancelled. It returns the step count actually reached.
func RunSimulation(ctx context.Context, s *Server, stepRate time.Duration, steps int) int {
	ticks := channerics.NewTicker(ctx.Done(), stepRate)

	for i := 0; i < steps; i++ {
		if _, ok := <-ticks; !ok {
			return i
		}
		s.controller.Step()
		s.Publish(snapshot.Build(s.controller))
	}
	return steps
}
