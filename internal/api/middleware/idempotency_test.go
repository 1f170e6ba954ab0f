package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"loan-engine/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu         sync.Mutex
	entries    map[string]StoredResponse
	reserveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]StoredResponse{}}
}

func (m *memoryStore) Reserve(_ context.Context, key string, entry StoredResponse, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reserveErr != nil {
		return false, m.reserveErr
	}
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = entry
	return true, nil
}

func (m *memoryStore) Load(_ context.Context, key string) (*StoredResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, errIdempotencyKeyMissing
	}
	return &entry, nil
}

func (m *memoryStore) Save(_ context.Context, key string, entry StoredResponse, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry
	return nil
}

func (m *memoryStore) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func TestIdempotency(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.IdempotencyConfig{Enabled: true, TTL: time.Hour}

	newCountingHandler := func(status int) (http.Handler, *int) {
		calls := 0
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"success":true,"echo":` + string(body) + `}`))
		}), &calls
	}

	send := func(h http.Handler, key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/loans/1/payments", strings.NewReader(body))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("replays the first response for the same key and body", func(t *testing.T) {
		next, calls := newCountingHandler(http.StatusCreated)
		h := Idempotency(cfg, newMemoryStore(), logger)(next)

		first := send(h, "k1", `{"amountTotal":"100"}`)
		second := send(h, "k1", `{"amountTotal":"100"}`)

		assert.Equal(t, 1, *calls)
		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get(IdempotentReplayHeader))
		assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	})

	t.Run("rejects a reused key with a different body", func(t *testing.T) {
		next, calls := newCountingHandler(http.StatusCreated)
		h := Idempotency(cfg, newMemoryStore(), logger)(next)

		send(h, "k2", `{"amountTotal":"100"}`)
		rec := send(h, "k2", `{"amountTotal":"200"}`)

		assert.Equal(t, 1, *calls)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("rejects a key whose first request is still running", func(t *testing.T) {
		store := newMemoryStore()
		next, _ := newCountingHandler(http.StatusCreated)
		h := Idempotency(cfg, store, logger)(next)

		req := httptest.NewRequest(http.MethodPost, "/loans/1/payments", strings.NewReader(`{}`))
		key := idempotencyKey(req, "k3")
		_, err := store.Reserve(context.Background(), key, StoredResponse{State: idempotencyStatePending, Fingerprint: requestFingerprint(req, []byte(`{}`))}, time.Hour)
		require.NoError(t, err)

		rec := send(h, "k3", `{}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("server errors are not stored", func(t *testing.T) {
		next, calls := newCountingHandler(http.StatusInternalServerError)
		h := Idempotency(cfg, newMemoryStore(), logger)(next)

		send(h, "k4", `{}`)
		send(h, "k4", `{}`)
		assert.Equal(t, 2, *calls)
	})

	t.Run("client errors are stored", func(t *testing.T) {
		next, calls := newCountingHandler(http.StatusBadRequest)
		h := Idempotency(cfg, newMemoryStore(), logger)(next)

		send(h, "k5", `{}`)
		rec := send(h, "k5", `{}`)
		assert.Equal(t, 1, *calls)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requests without the header pass through", func(t *testing.T) {
		next, calls := newCountingHandler(http.StatusCreated)
		h := Idempotency(cfg, newMemoryStore(), logger)(next)

		send(h, "", `{}`)
		send(h, "", `{}`)
		assert.Equal(t, 2, *calls)
	})

	t.Run("store failures pass through", func(t *testing.T) {
		store := newMemoryStore()
		store.reserveErr = errors.New("redis down")
		next, calls := newCountingHandler(http.StatusCreated)
		h := Idempotency(cfg, store, logger)(next)

		rec := send(h, "k6", `{}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, *calls)
	})

	t.Run("disabled config passes through", func(t *testing.T) {
		next, calls := newCountingHandler(http.StatusCreated)
		h := Idempotency(config.IdempotencyConfig{Enabled: false}, newMemoryStore(), logger)(next)

		send(h, "k7", `{}`)
		send(h, "k7", `{}`)
		assert.Equal(t, 2, *calls)
	})

	t.Run("handler sees the original body", func(t *testing.T) {
		var seen []byte
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		})
		h := Idempotency(cfg, newMemoryStore(), logger)(next)

		send(h, "k8", `{"note":"hello"}`)
		assert.True(t, bytes.Equal([]byte(`{"note":"hello"}`), seen))
	})
}

func TestRedisIdempotencyStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewRedisIdempotencyStore(client)
	_, err := store.Reserve(context.Background(), "idempotency:test", StoredResponse{State: idempotencyStatePending}, time.Minute)
	assert.Error(t, err)
}

func TestRequestFingerprint(t *testing.T) {
	a := httptest.NewRequest(http.MethodPost, "/loans/1/payments", nil)
	b := httptest.NewRequest(http.MethodPost, "/loans/2/payments", nil)

	assert.Equal(t, requestFingerprint(a, []byte("x")), requestFingerprint(a, []byte("x")))
	assert.NotEqual(t, requestFingerprint(a, []byte("x")), requestFingerprint(a, []byte("y")))
	assert.NotEqual(t, requestFingerprint(a, []byte("x")), requestFingerprint(b, []byte("x")))
	assert.Equal(t, "idempotency:POST:/loans/1/payments:abc", idempotencyKey(a, "abc"))
}
