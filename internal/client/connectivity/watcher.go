package connectivity

import (
	"context"
	"time"
)

// Pinger probes server reachability; a non-nil error means unreachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Watcher periodically pings the server and flips a Status accordingly.
type Watcher struct {
	status      *Status
	pinger      Pinger
	interval    time.Duration
	pingTimeout time.Duration
}

func NewWatcher(status *Status, pinger Pinger, interval time.Duration) *Watcher {
	return &Watcher{
		status:      status,
		pinger:      pinger,
		interval:    interval,
		pingTimeout: 3 * time.Second,
	}
}

// Run blocks until ctx is cancelled, probing on every tick. An immediate
// probe runs first so the status is settled before the first tick.
func (w *Watcher) Run(ctx context.Context) {
	w.probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.pingTimeout)
	defer cancel()

	err := w.pinger.Ping(ctx)
	w.status.Set(err != nil)
}
