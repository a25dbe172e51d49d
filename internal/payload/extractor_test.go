package payload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPExtractor(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		e, err := NewHTTPExtractor("http://localhost:14265", 5*time.Second)
		require.NoError(t, err)
		assert.NotNil(t, e)
	})

	t.Run("empty_url", func(t *testing.T) {
		e, err := NewHTTPExtractor("", 5*time.Second)
		assert.Error(t, err)
		assert.Nil(t, e)
	})

	t.Run("default_timeout", func(t *testing.T) {
		e, err := NewHTTPExtractor("http://localhost:14265", 0)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, e.httpClient.Timeout)
	})
}

func TestHTTPExtractor_Extract(t *testing.T) {
	t.Run("resolves_payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/bundles/BUNDLEREF", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"bundle":"BUNDLEREF","payload":{"price":42}}`))
		}))
		defer server.Close()

		e, err := NewHTTPExtractor(server.URL, 5*time.Second)
		require.NoError(t, err)

		data, err := e.Extract(context.Background(), "BUNDLEREF")
		require.NoError(t, err)
		assert.JSONEq(t, `{"price":42}`, string(data))
	})

	t.Run("not_found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such bundle", http.StatusNotFound)
		}))
		defer server.Close()

		e, err := NewHTTPExtractor(server.URL, 5*time.Second)
		require.NoError(t, err)

		data, err := e.Extract(context.Background(), "MISSING")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.Nil(t, data)
	})

	t.Run("empty_reference", func(t *testing.T) {
		e, err := NewHTTPExtractor("http://localhost:14265", 5*time.Second)
		require.NoError(t, err)

		data, err := e.Extract(context.Background(), "")
		assert.Error(t, err)
		assert.Nil(t, data)
	})

	t.Run("missing_payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"bundle":"BUNDLEREF"}`))
		}))
		defer server.Close()

		e, err := NewHTTPExtractor(server.URL, 5*time.Second)
		require.NoError(t, err)

		data, err := e.Extract(context.Background(), "BUNDLEREF")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no payload")
		assert.Nil(t, data)
	})
}
