// Package store implements the client side of the remote document store:
// JSON writes over HTTP, change notifications over websocket, and an
// offline layer (cached snapshots plus a pending-write queue in SQLite)
// that replays queued writes in order once connectivity resumes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ferreadmin/internal/client/connectivity"
	"ferreadmin/internal/logging"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
  collection TEXT PRIMARY KEY,
  revision   INTEGER NOT NULL,
  body       BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS pending_ops (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  collection TEXT NOT NULL,
  op         TEXT NOT NULL,
  doc_id     TEXT NOT NULL,
  payload    BLOB,
  queued_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Remote talks to the ferreadmin server. It satisfies sync.Store and
// connectivity.Pinger.
type Remote struct {
	baseURL string
	http    *http.Client
	db      *sql.DB
	conn    *connectivity.Status
	logger  logging.Logger

	mu           sync.Mutex
	flushMu      sync.Mutex
	accessToken  string
	refreshToken string
	subs         map[string]*subscription
}

// InitDatabase opens (creating if needed) the local cache database.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init local db: %w", err)
	}
	return db, nil
}

// NewRemote builds a Remote. The connectivity status is shared with the rest
// of the client; when it flips back online the pending queue is flushed and
// subscriptions reattach.
func NewRemote(baseURL string, db *sql.DB, conn *connectivity.Status, logger logging.Logger) *Remote {
	r := &Remote{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		db:      db,
		conn:    conn,
		logger:  logger.With("component", "store"),
		subs:    make(map[string]*subscription),
	}
	conn.OnChange(func(offline bool) {
		if !offline {
			go r.onReconnect()
		}
	})
	return r
}

// Ping probes server reachability.
func (r *Remote) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/ping", nil)
	if err != nil {
		return err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Close shuts down all subscriptions. The local database is owned by the
// caller and stays open.
func (r *Remote) Close() {
	r.mu.Lock()
	subs := make([]*subscription, 0, len(r.subs))
	for _, s := range r.subs {
		subs = append(subs, s)
	}
	r.subs = make(map[string]*subscription)
	r.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}

func (r *Remote) onReconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := r.Flush(ctx); err != nil {
		r.logger.Error(ctx, "flush pending writes", "error", err)
	}
}
