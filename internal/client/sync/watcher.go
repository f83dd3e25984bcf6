package sync

import (
	"context"
	"time"
)

// ConnState is the probed reachability of the remote service.
type ConnState string

const (
	StateUnknown ConnState = "unknown"
	StateOnline  ConnState = "online"
	StateOffline ConnState = "offline"
)

// Watcher probes the remote service on an interval and triggers a queue
// drain on every offline-to-online transition. It is the only background
// goroutine the client runs; overlapping triggers are coalesced by the
// engine's in-flight guard.
type Watcher struct {
	engine   *Engine
	interval time.Duration
	state    ConnState
}

func NewWatcher(e *Engine, interval time.Duration) *Watcher {
	return &Watcher{engine: e, interval: interval, state: StateUnknown}
}

// Run blocks until ctx is done. Each tick pings with a short deadline; a
// failed ping only flips the state, it never touches the queue.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := w.engine.client.Ping(pingCtx)
	cancel()

	prev := w.state
	if err != nil {
		w.state = StateOffline
		return
	}
	w.state = StateOnline
	if prev != StateOnline {
		w.engine.log.Info(ctx, "connectivity regained, draining queue")
		if _, err := w.engine.FlushAll(ctx); err != nil {
			w.engine.log.Error(ctx, "drain after reconnect failed", "err", err)
		}
	}
}

// State reports the last probed state.
func (w *Watcher) State() ConnState { return w.state }
