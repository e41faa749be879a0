package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ferreadmin/internal/api"
	"ferreadmin/internal/client/connectivity"
	"ferreadmin/internal/common"
	"ferreadmin/internal/logging"

	gmux "github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}

func newTestRemote(t *testing.T, handler http.Handler, offline bool) (*Remote, *connectivity.Status) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conn := connectivity.NewStatus(offline)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := NewRemote(srv.URL, setupDB(t), conn, logger)
	t.Cleanup(r.Close)
	return r, conn
}

func TestCreate_Online(t *testing.T) {
	mux := gmux.NewRouter()
	mux.HandleFunc("/collections/categorias", func(w http.ResponseWriter, req *http.Request) {
		var doc map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&doc))
		assert.Equal(t, "Herramientas", doc["nombre"])
		_ = json.NewEncoder(w).Encode(api.CreateDocumentResponse{ID: "abc123"})
	}).Methods(http.MethodPost)

	r, _ := newTestRemote(t, mux, false)

	id, err := r.Create(context.Background(), "categorias", "temp_x",
		json.RawMessage(`{"nombre":"Herramientas","descripcion":"Manuales"}`))
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
}

func TestCreate_OfflineQueuesAndFlushRemapsIDs(t *testing.T) {
	var gotPaths []string
	mux := gmux.NewRouter()
	mux.HandleFunc("/collections/categorias", func(w http.ResponseWriter, req *http.Request) {
		gotPaths = append(gotPaths, req.Method+" "+req.URL.Path)
		_ = json.NewEncoder(w).Encode(api.CreateDocumentResponse{ID: "real42"})
	}).Methods(http.MethodPost)
	mux.HandleFunc("/collections/categorias/{id}", func(w http.ResponseWriter, req *http.Request) {
		gotPaths = append(gotPaths, req.Method+" "+req.URL.Path)
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPut)

	r, conn := newTestRemote(t, mux, true)
	ctx := context.Background()

	// create then edit the same document while offline
	_, err := r.Create(ctx, "categorias", "temp_1", json.RawMessage(`{"nombre":"A","descripcion":"B"}`))
	assert.True(t, errors.Is(err, common.ErrorOffline))

	err = r.Update(ctx, "categorias", "temp_1", json.RawMessage(`{"nombre":"A2","descripcion":"B"}`))
	assert.True(t, errors.Is(err, common.ErrorOffline))

	n, err := r.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	conn.Set(false)
	require.NoError(t, r.Flush(ctx))

	require.Equal(t, []string{
		"POST /collections/categorias",
		"PUT /collections/categorias/real42", // temp id remapped
	}, gotPaths)

	n, err = r.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFlush_DropsRejectedWrite(t *testing.T) {
	mux := gmux.NewRouter()
	mux.HandleFunc("/collections/categorias/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "not found"})
	}).Methods(http.MethodDelete)

	r, conn := newTestRemote(t, mux, true)
	ctx := context.Background()

	require.True(t, errors.Is(r.Delete(ctx, "categorias", "gone"), common.ErrorOffline))

	conn.Set(false)
	require.NoError(t, r.Flush(ctx))

	n, err := r.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a definitive rejection must not wedge the queue")
}

func TestDoJSON_RefreshesExpiredToken(t *testing.T) {
	calls := 0
	mux := gmux.NewRouter()
	mux.HandleFunc("/collections/categorias", func(w http.ResponseWriter, req *http.Request) {
		calls++
		if !strings.Contains(req.Header.Get("Authorization"), "fresh") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(api.ListDocumentsResponse{Revision: 1})
	}).Methods(http.MethodGet)
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(api.TokenPair{AccessToken: "fresh", RefreshToken: "next"})
	}).Methods(http.MethodPost)

	r, _ := newTestRemote(t, mux, false)
	r.setTokens(api.TokenPair{AccessToken: "stale", RefreshToken: "rt"})

	out, err := r.List(context.Background(), "categorias")
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Revision)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "next", r.RefreshToken())
}

func TestLogout_RevokesRefreshTokenOnServer(t *testing.T) {
	var revoked string
	mux := gmux.NewRouter()
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		var body api.RefreshRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		revoked = body.RefreshToken
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPost)

	r, _ := newTestRemote(t, mux, false)
	r.setTokens(api.TokenPair{AccessToken: "at", RefreshToken: "rt"})

	r.Logout(context.Background())

	assert.Equal(t, "rt", revoked)
	assert.False(t, r.LoggedIn())
	assert.Empty(t, r.RefreshToken())
}

func TestLogout_ClearsSessionWhenRevocationFails(t *testing.T) {
	// no /auth/logout route: revocation fails, the local session still ends
	r, _ := newTestRemote(t, http.NewServeMux(), false)
	r.setTokens(api.TokenPair{AccessToken: "at", RefreshToken: "rt"})

	r.Logout(context.Background())

	assert.False(t, r.LoggedIn())
	assert.Empty(t, r.RefreshToken())
}

func TestSubscribe_RefreshesExpiredTokenOnHandshake(t *testing.T) {
	upgrader := websocket.Upgrader{}
	mux := gmux.NewRouter()
	mux.HandleFunc("/sync/subscribe/categorias", func(w http.ResponseWriter, req *http.Request) {
		if !strings.Contains(req.Header.Get("Authorization"), "fresh") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, req, nil)
		require.NoError(t, err)
		defer conn.Close()

		b, _ := json.Marshal(api.Snapshot{Collection: "categorias", Revision: 3})
		_ = conn.WriteMessage(websocket.TextMessage, b)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}).Methods(http.MethodGet)
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(api.TokenPair{AccessToken: "fresh", RefreshToken: "next"})
	}).Methods(http.MethodPost)

	r, _ := newTestRemote(t, mux, false)
	r.setTokens(api.TokenPair{AccessToken: "stale", RefreshToken: "rt"})

	snaps := make(chan api.Snapshot, 4)
	unsub, err := r.Subscribe("categorias",
		func(s api.Snapshot) { snaps <- s },
		func(error) {})
	require.NoError(t, err)
	defer unsub()

	select {
	case snap := <-snaps:
		assert.Equal(t, int64(3), snap.Revision)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered after the handshake token refresh")
	}
	assert.Equal(t, "next", r.RefreshToken())
}

func TestPing(t *testing.T) {
	mux := gmux.NewRouter()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	r, _ := newTestRemote(t, mux, false)
	require.NoError(t, r.Ping(context.Background()))
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	r, _ := newTestRemote(t, http.NewServeMux(), true)
	ctx := context.Background()

	snap := api.Snapshot{
		Collection: "categorias",
		Revision:   7,
		Documents:  []json.RawMessage{json.RawMessage(`{"id":"1","nombre":"A","descripcion":"B"}`)},
	}
	require.NoError(t, r.cacheSnapshot(ctx, snap))

	got, err := r.cachedSnapshot(ctx, "categorias")
	require.NoError(t, err)
	assert.Equal(t, snap, *got)
}
