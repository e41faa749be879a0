// Package httpapi exposes the server over HTTP: JSON endpoints for auth,
// document collections, blob presigning and statistics, plus a websocket
// endpoint streaming collection snapshots.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ferreadmin/internal/logging"
	"ferreadmin/internal/server/documents"
	"ferreadmin/internal/server/services"
)

type Server struct {
	addr      string
	logger    logging.Logger
	users     *services.UserService
	documents *documents.Service
	blobs     *services.BlobService
	secretKey []byte
}

func NewServer(addr string, logger logging.Logger, users *services.UserService, docs *documents.Service, blobs *services.BlobService, secretKey string) *Server {
	return &Server{
		addr:      addr,
		logger:    logger,
		users:     users,
		documents: docs,
		blobs:     blobs,
		secretKey: []byte(secretKey),
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/ping", s.pingHandler).Methods("GET")

	r.HandleFunc("/auth/register", s.registerHandler).Methods("POST")
	r.HandleFunc("/auth/login", s.loginHandler).Methods("POST")
	r.HandleFunc("/auth/refresh", s.refreshHandler).Methods("POST")
	r.HandleFunc("/auth/logout", s.logoutHandler).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/collections/{collection}", s.listDocumentsHandler).Methods("GET")
	api.HandleFunc("/collections/{collection}", s.createDocumentHandler).Methods("POST")
	api.HandleFunc("/collections/{collection}/{id}", s.updateDocumentHandler).Methods("PUT")
	api.HandleFunc("/collections/{collection}/{id}", s.deleteDocumentHandler).Methods("DELETE")

	api.HandleFunc("/sync/subscribe/{collection}", s.subscribeHandler).Methods("GET")

	api.HandleFunc("/blobs/presign-put", s.presignPutHandler).Methods("POST")
	api.HandleFunc("/blobs/presign-get", s.presignGetHandler).Methods("GET")
	api.HandleFunc("/blobs/{key:.+}", s.deleteBlobHandler).Methods("DELETE")

	api.HandleFunc("/stats/productos", s.productStatsHandler).Methods("GET")

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
