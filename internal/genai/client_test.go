package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ferreadmin/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelServer(t *testing.T, status int, replyText string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]string{{"text": replyText}},
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractCategory(t *testing.T) {
	srv := modelServer(t, http.StatusOK, `{"nombre":"Herramientas","descripcion":"Herramientas manuales"}`)

	c := NewClient(srv.URL, "test-key")
	reply, err := c.ExtractCategory(context.Background(), "registra la categoría herramientas")
	require.NoError(t, err)
	assert.Equal(t, "Herramientas", reply.Nombre)
	assert.Equal(t, "Herramientas manuales", reply.Descripcion)
}

func TestExtractCategory_RateLimited(t *testing.T) {
	srv := modelServer(t, http.StatusTooManyRequests, "")

	c := NewClient(srv.URL, "test-key")
	_, err := c.ExtractCategory(context.Background(), "hola")
	assert.True(t, errors.Is(err, common.ErrorRateLimited))
}

func TestExtractCategory_InvalidJSONReply(t *testing.T) {
	srv := modelServer(t, http.StatusOK, "no soy json")

	c := NewClient(srv.URL, "test-key")
	_, err := c.ExtractCategory(context.Background(), "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON")
}

func TestExtractCategory_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-key")
	_, err := c.ExtractCategory(context.Background(), "hola")
	require.Error(t, err)
}
