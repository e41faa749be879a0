// Package api defines the REST/JSON and websocket wire models shared by the
// server handlers and the client store.
package api

import "encoding/json"

// Snapshot is one change notification pushed to subscribers: the full
// contents of a collection at a given revision. Revisions increase
// monotonically per collection, so a subscriber can drop stale frames.
type Snapshot struct {
	Collection string            `json:"collection"`
	Revision   int64             `json:"revision"`
	Documents  []json.RawMessage `json:"documents"`
}

// RegisterRequest creates a user account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest authenticates a user.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CreateDocumentResponse carries the store-assigned id of a new document.
type CreateDocumentResponse struct {
	ID string `json:"id"`
}

// ListDocumentsResponse is the request/response form of a collection read.
type ListDocumentsResponse struct {
	Revision  int64             `json:"revision"`
	Documents []json.RawMessage `json:"documents"`
}

// PresignPutResponse carries a presigned upload URL and the blob key the
// upload will land under.
type PresignPutResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// PresignGetResponse carries a presigned retrieval URL.
type PresignGetResponse struct {
	URL string `json:"url"`
}

// ProductStats is the data series behind the statistics chart: parallel
// arrays of product names and prices.
type ProductStats struct {
	Nombres []string  `json:"nombres"`
	Precios []float64 `json:"precios"`
}

// ErrorResponse is the uniform error body of the HTTP API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
