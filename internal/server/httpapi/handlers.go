package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"ferreadmin/internal/api"
	"ferreadmin/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps the service sentinel errors onto HTTP responses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not_found", "el recurso no existe")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "credenciales inválidas")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, http.StatusUnauthorized, "refresh_token_expired", "la sesión expiró")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "error interno")
	}
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return errors.New("invalid_request")
	}
	return nil
}

// --- health ---

func (s *Server) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// --- auth ---

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "cuerpo JSON inválido")
		return
	}

	if _, err := s.users.Register(r.Context(), req.Email, req.Password); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "cuerpo JSON inválido")
		return
	}

	pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "cuerpo JSON inválido")
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "cuerpo JSON inválido")
		return
	}

	if err := s.users.Logout(r.Context(), req.RefreshToken); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- collections ---

func (s *Server) listDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]

	docs, revision, err := s.documents.List(r.Context(), collection)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.ListDocumentsResponse{Revision: revision, Documents: docs})
}

func (s *Server) createDocumentHandler(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "cuerpo ilegible")
		return
	}

	id, err := s.documents.Create(r.Context(), collection, body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Debug(r.Context(), "document created",
		"collection", collection, "id", id, "user", userIDFromContext(r.Context()))

	writeJSON(w, http.StatusCreated, api.CreateDocumentResponse{ID: id})
}

func (s *Server) updateDocumentHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "cuerpo ilegible")
		return
	}

	if err := s.documents.Update(r.Context(), vars["collection"], vars["id"], body); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := s.documents.Delete(r.Context(), vars["collection"], vars["id"]); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- blobs ---

func (s *Server) presignPutHandler(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.blobs.GetPresignedPutUrl(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.PresignPutResponse{Key: key, URL: url})
}

func (s *Server) presignGetHandler(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "se requiere el parámetro key")
		return
	}

	url, err := s.blobs.GetPresignedGetUrl(r.Context(), key)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.PresignGetResponse{URL: url})
}

func (s *Server) deleteBlobHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	if err := s.blobs.DeleteBlob(r.Context(), key); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- stats ---

func (s *Server) productStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.documents.ProductStats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
