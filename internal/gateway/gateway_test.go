package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

// stubSession hands out a stale token until a refresh succeeds, mirroring
// the real store's behavior without storage or network.
type stubSession struct {
	mu           sync.Mutex
	token        string
	freshToken   string
	refreshDelay time.Duration
	refreshErr   error
	refreshCalls atomic.Int32
}

func (s *stubSession) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubSession) RefreshAccessToken(ctx context.Context) (string, error) {
	s.refreshCalls.Add(1)
	if s.refreshDelay > 0 {
		time.Sleep(s.refreshDelay)
	}
	if s.refreshErr != nil {
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return "", s.refreshErr
	}
	s.mu.Lock()
	s.token = s.freshToken
	s.mu.Unlock()
	return s.freshToken, nil
}

func envelope(w http.ResponseWriter, status int, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func TestConcurrent401sTriggerSingleRefresh(t *testing.T) {
	var totalRequests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		totalRequests.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			envelope(w, http.StatusUnauthorized, false, "token expired", nil)
			return
		}
		envelope(w, http.StatusOK, true, "ok", map[string]int{"value": 1})
	}))
	defer srv.Close()

	session := &stubSession{token: "stale", freshToken: "fresh", refreshDelay: 50 * time.Millisecond}
	client := New(srv.URL, session)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out struct {
				Value int `json:"value"`
			}
			errs[i] = client.GetJSON(context.Background(), "/api/overview/counts", nil, &out)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "caller %d", i)
	}
	assert.Equal(t, int32(1), session.refreshCalls.Load(), "exactly one refresh per expiry event")
}

func TestRefreshFailureFailsAllCallersWithoutRetry(t *testing.T) {
	var staleRequests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staleRequests.Add(1)
		envelope(w, http.StatusUnauthorized, false, "token expired", nil)
	}))
	defer srv.Close()

	session := &stubSession{
		token:        "stale",
		refreshDelay: 30 * time.Millisecond,
		refreshErr:   apperrors.ErrSessionExpired,
	}
	client := New(srv.URL, session)

	const callers = 5
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.GetJSON(context.Background(), "/api/daily-logs", nil, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.Error(t, err, "caller %d", i)
		assert.Equal(t, apperrors.KindSessionExpired, apperrors.KindOf(err), "caller %d", i)
	}
	assert.Equal(t, int32(1), session.refreshCalls.Load())
	// The initial requests only; a failed refresh never retries.
	assert.Equal(t, int32(callers), staleRequests.Load())
}

func TestRetryHappensExactlyOnce(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		// Reject even the refreshed token so the retry also 401s.
		envelope(w, http.StatusUnauthorized, false, "still unauthorized", nil)
	}))
	defer srv.Close()

	session := &stubSession{token: "stale", freshToken: "fresh"}
	client := New(srv.URL, session)

	err := client.GetJSON(context.Background(), "/api/users", nil, nil)
	require.Error(t, err)
	// The retry's 401 surfaces to the caller as a plain failed request;
	// the session was refreshed successfully so it is not expired.
	assert.Equal(t, apperrors.KindRequestFailed, apperrors.KindOf(err))
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))
	assert.Equal(t, int32(2), requests.Load(), "original plus exactly one retry")
	assert.Equal(t, int32(1), session.refreshCalls.Load())
}

func TestMissingTokenShortCircuits(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	client := New(srv.URL, &stubSession{})

	err := client.GetJSON(context.Background(), "/api/users/me", nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
	assert.Zero(t, requests.Load(), "no network call without a token")
}

func TestNon401ErrorsPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusConflict, false, "log untuk tanggal itu sudah ada", nil)
	}))
	defer srv.Close()

	session := &stubSession{token: "fresh", freshToken: "fresh"}
	client := New(srv.URL, session)

	err := client.PostJSON(context.Background(), "/api/daily-logs", map[string]string{"logDate": "2025-08-01"}, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRequestFailed, apperrors.KindOf(err))
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))
	assert.Contains(t, apperrors.Message(err), "sudah ada")
	assert.Zero(t, session.refreshCalls.Load(), "non-401 must not refresh")
}

func TestNetworkFailureClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the dial fails

	client := New(srv.URL, &stubSession{token: "fresh"})

	err := client.GetJSON(context.Background(), "/api/overview/trend", nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))
}

func TestSequential401sEachRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer fresh" {
			envelope(w, http.StatusOK, true, "ok", nil)
			return
		}
		envelope(w, http.StatusUnauthorized, false, "token expired", nil)
	}))
	defer srv.Close()

	session := &stubSession{token: "stale", freshToken: "fresh"}
	client := New(srv.URL, session)

	// Two separate expiry events in sequence are two refreshes; the
	// single-flight window only spans overlapping callers.
	require.NoError(t, client.GetJSON(context.Background(), "/api/top-performers", nil, nil))
	session.mu.Lock()
	session.token = "stale" // simulate the next expiry
	session.mu.Unlock()
	require.NoError(t, client.GetJSON(context.Background(), "/api/top-performers", nil, nil))

	assert.Equal(t, int32(2), session.refreshCalls.Load())
}
