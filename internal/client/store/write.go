package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"ferreadmin/internal/api"
	"ferreadmin/internal/common"
)

// Create writes a new document. While offline the write is queued under the
// caller's temporary id and ErrorOffline is returned; the caller keeps its
// optimistic entry as pending.
func (r *Remote) Create(ctx context.Context, collection, tempID string, doc json.RawMessage) (string, error) {
	if r.conn.Offline() {
		if err := r.enqueue(ctx, collection, opCreate, tempID, doc); err != nil {
			return "", err
		}
		return "", common.ErrorOffline
	}

	var out api.CreateDocumentResponse
	err := r.doJSON(ctx, http.MethodPost, "/collections/"+collection, doc, &out)
	if err != nil {
		if errors.Is(err, common.ErrorOffline) {
			if qerr := r.enqueue(ctx, collection, opCreate, tempID, doc); qerr != nil {
				return "", qerr
			}
		}
		return "", err
	}
	return out.ID, nil
}

// Update replaces a document's fields.
func (r *Remote) Update(ctx context.Context, collection, id string, doc json.RawMessage) error {
	if r.conn.Offline() {
		if err := r.enqueue(ctx, collection, opUpdate, id, doc); err != nil {
			return err
		}
		return common.ErrorOffline
	}

	err := r.doJSON(ctx, http.MethodPut, "/collections/"+collection+"/"+id, doc, nil)
	if errors.Is(err, common.ErrorOffline) {
		if qerr := r.enqueue(ctx, collection, opUpdate, id, doc); qerr != nil {
			return qerr
		}
	}
	return err
}

// Delete removes a document.
func (r *Remote) Delete(ctx context.Context, collection, id string) error {
	if r.conn.Offline() {
		if err := r.enqueue(ctx, collection, opDelete, id, nil); err != nil {
			return err
		}
		return common.ErrorOffline
	}

	err := r.doJSON(ctx, http.MethodDelete, "/collections/"+collection+"/"+id, nil, nil)
	if errors.Is(err, common.ErrorOffline) {
		if qerr := r.enqueue(ctx, collection, opDelete, id, nil); qerr != nil {
			return qerr
		}
	}
	return err
}

// List fetches a collection once (used where no standing subscription is
// needed, e.g. the catalog screen while painting before the first frame).
func (r *Remote) List(ctx context.Context, collection string) (*api.ListDocumentsResponse, error) {
	var out api.ListDocumentsResponse
	if err := r.doJSON(ctx, http.MethodGet, "/collections/"+collection, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON performs one authenticated JSON round trip. An expired access token
// is refreshed once and the request retried, mirroring the usual
// interceptor behavior. Network-level failures map to ErrorOffline.
func (r *Remote) doJSON(ctx context.Context, method, path string, body json.RawMessage, out any) error {
	status, respBody, err := r.roundTrip(ctx, method, path, body)
	if err != nil {
		if isNetworkError(err) {
			return common.ErrorOffline
		}
		return err
	}

	if status == http.StatusUnauthorized && r.hasRefreshToken() {
		if rerr := r.refresh(ctx); rerr == nil {
			status, respBody, err = r.roundTrip(ctx, method, path, body)
			if err != nil {
				if isNetworkError(err) {
					return common.ErrorOffline
				}
				return err
			}
		}
	}

	if status < 200 || status > 299 {
		return decodeAPIError(status, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (r *Remote) roundTrip(ctx context.Context, method, path string, body json.RawMessage) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := r.currentAccessToken(); tok != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+tok)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, b, nil
}

func (r *Remote) currentAccessToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accessToken
}

func (r *Remote) hasRefreshToken() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshToken != ""
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func decodeAPIError(status int, body []byte) error {
	var e api.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		if e.Message != "" {
			return fmt.Errorf("%s: %s", e.Error, e.Message)
		}
		return errors.New(e.Error)
	}
	switch status {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}
