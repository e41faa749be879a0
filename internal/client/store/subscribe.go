package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ferreadmin/internal/api"

	"github.com/gorilla/websocket"
)

const (
	reconnectMin = time.Second
	reconnectMax = time.Minute
)

type subscription struct {
	collection string
	onSnapshot func(api.Snapshot)
	onError    func(error)
	cancel     context.CancelFunc
	done       chan struct{}
}

func (s *subscription) stop() {
	s.cancel()
	<-s.done
}

// Subscribe attaches a standing change listener to a collection. The latest
// cached snapshot (if any) is delivered immediately so the view has data
// even while the server is unreachable; a background loop then keeps a
// websocket attached, with exponential backoff between attempts, caching
// and forwarding every frame. The returned function detaches the listener;
// no callbacks fire after it returns.
func (r *Remote) Subscribe(collection string, onSnapshot func(api.Snapshot), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		collection: collection,
		onSnapshot: onSnapshot,
		onError:    onError,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	r.mu.Lock()
	if _, exists := r.subs[collection]; exists {
		r.mu.Unlock()
		cancel()
		close(sub.done)
		return nil, fmt.Errorf("already subscribed to %s", collection)
	}
	r.subs[collection] = sub
	r.mu.Unlock()

	if snap, err := r.cachedSnapshot(ctx, collection); err == nil && snap != nil {
		onSnapshot(*snap)
	}

	go r.runSubscription(ctx, sub)

	return func() {
		r.mu.Lock()
		delete(r.subs, collection)
		r.mu.Unlock()
		sub.stop()
	}, nil
}

func (r *Remote) runSubscription(ctx context.Context, sub *subscription) {
	defer close(sub.done)

	backoff := reconnectMin
	for {
		if ctx.Err() != nil {
			return
		}

		err := r.streamOnce(ctx, sub)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			sub.onError(err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > reconnectMax {
			backoff = reconnectMax
		}
	}
}

// streamOnce dials the subscription endpoint and forwards frames until the
// connection drops or ctx is cancelled.
func (r *Remote) streamOnce(ctx context.Context, sub *subscription) error {
	wsURL, err := r.subscribeURL(sub.collection)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, r.authHeader())
	if err != nil && resp != nil && resp.StatusCode == http.StatusUnauthorized && r.hasRefreshToken() {
		// Expired access token on the handshake: refresh once and redial,
		// as doJSON does for plain requests.
		if rerr := r.refresh(ctx); rerr == nil {
			conn, resp, err = websocket.DefaultDialer.DialContext(ctx, wsURL, r.authHeader())
		}
	}
	if err != nil {
		return fmt.Errorf("dial subscription: %w", err)
	}
	defer conn.Close()

	// Drop the read deadline when the context goes; otherwise ReadMessage
	// blocks past teardown.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read subscription frame: %w", err)
		}

		var snap api.Snapshot
		if err := json.Unmarshal(msg, &snap); err != nil {
			r.logger.Error(ctx, "malformed snapshot frame", "error", err)
			continue
		}

		if err := r.cacheSnapshot(ctx, snap); err != nil {
			r.logger.Warn(ctx, "cache snapshot", "error", err)
		}
		sub.onSnapshot(snap)
	}
}

func (r *Remote) authHeader() http.Header {
	header := make(http.Header)
	if tok := r.currentAccessToken(); tok != "" {
		header.Set("Authorization", "Bearer "+tok)
	}
	return header
}

func (r *Remote) subscribeURL(collection string) (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/sync/subscribe/" + collection
	return u.String(), nil
}

func (r *Remote) cacheSnapshot(ctx context.Context, snap api.Snapshot) error {
	body, err := json.Marshal(snap.Documents)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (collection, revision, body)
		VALUES (?, ?, ?)
		ON CONFLICT(collection) DO UPDATE SET revision = excluded.revision, body = excluded.body
	`, snap.Collection, snap.Revision, body)
	return err
}

func (r *Remote) cachedSnapshot(ctx context.Context, collection string) (*api.Snapshot, error) {
	var revision int64
	var body []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT revision, body FROM snapshots WHERE collection = ?
	`, collection).Scan(&revision, &body)
	if err != nil {
		return nil, err
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(body, &docs); err != nil {
		return nil, err
	}
	return &api.Snapshot{Collection: collection, Revision: revision, Documents: docs}, nil
}
