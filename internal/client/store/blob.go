package store

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ferreadmin/internal/api"
)

// UploadBlob pushes binary data (a product image, a book PDF) to the blob
// store through a presigned URL and returns the key and retrieval URL of
// the new blob. Callers replacing an existing asset must delete the old
// blob only after this returns, so a failed upload never leaves a document
// pointing at a deleted asset.
func (r *Remote) UploadBlob(ctx context.Context, data []byte, contentType string) (key, retrievalURL string, err error) {
	var presigned api.PresignPutResponse
	if err := r.doJSON(ctx, http.MethodPost, "/blobs/presign-put", nil, &presigned); err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presigned.URL, bytes.NewReader(data))
	if err != nil {
		return "", "", err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("upload blob: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", fmt.Errorf("upload blob: unexpected status %d", resp.StatusCode)
	}

	var get api.PresignGetResponse
	path := "/blobs/presign-get?key=" + url.QueryEscape(presigned.Key)
	if err := r.doJSON(ctx, http.MethodGet, path, nil, &get); err != nil {
		return "", "", fmt.Errorf("presign retrieval: %w", err)
	}

	return presigned.Key, get.URL, nil
}

// DeleteBlob removes a blob by key.
func (r *Remote) DeleteBlob(ctx context.Context, key string) error {
	return r.doJSON(ctx, http.MethodDelete, "/blobs/"+url.PathEscape(key), nil, nil)
}
