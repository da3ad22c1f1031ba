package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hotspot-cli/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hotspot-cli/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("Category,X,Y\n"))
	}))
	defer srv.Close()

	d := New(Options{Retry: fastRetry()})
	body, err := d.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "Category,X,Y\n", string(data))
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	d := New(Options{Retry: fastRetry()})
	body, err := d.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()

	assert.EqualValues(t, 3, calls.Load())
}

func TestFetch_NotFoundFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	d := New(Options{Retry: fastRetry()})
	_, err := d.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.EqualValues(t, 1, calls.Load())
}

func TestFetch_ExhaustedRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := New(Options{Retry: fastRetry()})
	_, err := d.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestFetchToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Category,X,Y\nASSAULT,-122.42,37.76\n"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "incidents.csv")
	d := New(Options{Retry: fastRetry()})
	n, err := d.FetchToFile(context.Background(), srv.URL, path)
	require.NoError(t, err)
	assert.EqualValues(t, 35, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ASSAULT")
}
