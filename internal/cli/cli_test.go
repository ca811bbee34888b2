package cli

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleCounts(t *testing.T) {
	counts, err := parseRoleCounts("werewolf=2, Seer=1,villager=3,")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"werewolf": 2, "seer": 1, "villager": 3}, counts)

	for _, bad := range []string{"", "werewolf", "werewolf=x", "werewolf=-1"} {
		_, err := parseRoleCounts(bad)
		assert.Error(t, err, bad)
	}
}

func TestMatchPath(t *testing.T) {
	assert.Equal(t, "/api/v1/matches/ABC123", matchPath("abc123"))
	assert.Equal(t, "/api/v1/matches/ABC123/night-action", matchPath("abc123", "night-action"))
}

func TestClientDecodesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_HOST","message":"Only the host can do that"}}`))
		default:
			http.Error(w, "boom", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", " tok\n", 0)

	var apiErr *APIError
	err := c.Get("/json", nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "NOT_HOST", apiErr.Code)
	assert.Equal(t, "Only the host can do that (NOT_HOST)", err.Error())

	err = c.Get("/plain", nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "HTTP_ERROR", apiErr.Code)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestTokenFileRoundTrip(t *testing.T) {
	c := &Config{TokenFile: filepath.Join(t.TempDir(), "nested", "token")}

	require.NoError(t, c.SaveToken("secret"))

	loaded := &Config{TokenFile: c.TokenFile}
	require.NoError(t, loaded.LoadToken())
	assert.Equal(t, "secret", loaded.Token)

	require.NoError(t, c.ClearToken())
	assert.Empty(t, c.Token)

	missing := &Config{TokenFile: c.TokenFile}
	require.NoError(t, missing.LoadToken())
	assert.Empty(t, missing.Token)
}

func TestLoadEnvTimeout(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, defaultTimeout, c.Timeout)

	t.Setenv("WWGAME_TIMEOUT", "5s")
	require.NoError(t, c.LoadEnvTimeout())
	assert.Equal(t, 5*time.Second, c.Timeout)

	t.Setenv("WWGAME_TIMEOUT", "soon")
	assert.Error(t, c.LoadEnvTimeout())
}

func TestWaitHealthyRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "starting", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client = NewClient(srv.URL, "", time.Second)

	result, err := waitHealthy(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	_, err = waitHealthy(0)
	assert.Error(t, err)
}
