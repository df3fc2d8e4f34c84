package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/claudeport/internal/logging"
)

func TestEnsureDownloads(t *testing.T) {
	payload := []byte("fake installer bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "cache", "Claude-Setup-x64.exe")
	f := NewWithClient(srv.Client(), logging.NewTestLogger(nil))

	err := f.Ensure(context.Background(), srv.URL, dest, "")
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// no stray temp file
	_, err = os.Stat(dest + ".part")
	assert.True(t, os.IsNotExist(err))
}

func TestEnsureSkipsWhenCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "installer.exe")
	require.NoError(t, os.WriteFile(dest, []byte("cached"), 0644))

	f := NewWithClient(srv.Client(), logging.NewTestLogger(nil))
	err := f.Ensure(context.Background(), srv.URL, dest, "")
	require.NoError(t, err)

	assert.EqualValues(t, 0, atomic.LoadInt32(&hits), "cached file must not re-trigger the fetch")

	got, _ := os.ReadFile(dest)
	assert.Equal(t, []byte("cached"), got, "cached file must stay untouched")
}

func TestEnsureReplacesCorruptCache(t *testing.T) {
	payload := []byte("good installer")
	sum := sha256.Sum256(payload)

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "installer.exe")
	require.NoError(t, os.WriteFile(dest, []byte("truncated junk"), 0644))

	f := NewWithClient(srv.Client(), logging.NewTestLogger(nil))
	err := f.Ensure(context.Background(), srv.URL, dest, hex.EncodeToString(sum[:]))
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "corrupt cache must trigger exactly one re-download")

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestEnsureChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tampered"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "installer.exe")
	f := NewWithClient(srv.Client(), logging.NewTestLogger(nil))

	err := f.Ensure(context.Background(), srv.URL, dest, "deadbeef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")

	// a rejected download must not land in the cache
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEnsureChecksumMatch(t *testing.T) {
	payload := []byte("verified installer")
	sum := sha256.Sum256(payload)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "installer.exe")
	f := NewWithClient(srv.Client(), logging.NewTestLogger(nil))

	err := f.Ensure(context.Background(), srv.URL, dest, hex.EncodeToString(sum[:]))
	require.NoError(t, err)

	_, statErr := os.Stat(dest)
	assert.NoError(t, statErr)
}

func TestEnsureHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "installer.exe")
	f := NewWithClient(srv.Client(), logging.NewTestLogger(nil))

	err := f.Ensure(context.Background(), srv.URL, dest, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
