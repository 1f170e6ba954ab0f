package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"loan-engine/internal/config"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	IdempotentReplayHeader  = "Idempotent-Replayed"
	idempotencyStatePending = "pending"
	idempotencyStateDone    = "done"
)

// StoredResponse is what the idempotency store keeps per key.
type StoredResponse struct {
	State       string `json:"state"`
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

type IdempotencyStore interface {
	// Reserve records a pending entry and reports false when key already exists.
	Reserve(ctx context.Context, key string, entry StoredResponse, ttl time.Duration) (bool, error)
	Load(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, entry StoredResponse, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

var errIdempotencyKeyMissing = errors.New("idempotency key vanished")

type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, entry StoredResponse, ttl time.Duration) (bool, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}
	return s.client.SetNX(ctx, key, payload, ttl).Result()
}

func (s *RedisIdempotencyStore) Load(ctx context.Context, key string) (*StoredResponse, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errIdempotencyKeyMissing
	}
	if err != nil {
		return nil, err
	}
	var entry StoredResponse
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("corrupt idempotency entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, entry StoredResponse, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, payload, ttl).Err()
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Idempotency makes retried POSTs safe. The first request carrying a given
// Idempotency-Key runs normally and its response is stored; later requests
// with the same key and body get the stored response back. Reusing a key
// with a different body, or while the first request is still running,
// yields 409. Responses with a 5xx status are not stored so the client may
// retry. Requests without the header, or without a store, pass through.
func Idempotency(cfg config.IdempotencyConfig, store IdempotencyStore, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("component", "Idempotency")
	if !cfg.Enabled || store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get(IdempotencyKeyHeader)
			if clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "could not read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			ctx := r.Context()
			key := idempotencyKey(r, clientKey)
			fingerprint := requestFingerprint(r, body)

			reserved, err := store.Reserve(ctx, key, StoredResponse{State: idempotencyStatePending, Fingerprint: fingerprint}, ttl)
			if err != nil {
				logger.ErrorContext(ctx, "Idempotency store unavailable, serving without protection", "error", err, "key", key)
				next.ServeHTTP(w, r)
				return
			}

			if !reserved {
				replay(ctx, w, store, key, fingerprint, logger)
				return
			}

			var captured bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&captured)

			completed := false
			defer func() {
				if completed {
					return
				}
				// The handler panicked; free the key before the panic propagates.
				if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
					logger.ErrorContext(ctx, "Failed to release idempotency key", "error", err, "key", key)
				}
			}()

			next.ServeHTTP(ww, r)
			completed = true

			persistCtx := context.WithoutCancel(ctx)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				if err := store.Release(persistCtx, key); err != nil {
					logger.ErrorContext(ctx, "Failed to release idempotency key", "error", err, "key", key)
				}
				return
			}

			entry := StoredResponse{
				State:       idempotencyStateDone,
				Fingerprint: fingerprint,
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        captured.Bytes(),
			}
			if err := store.Save(persistCtx, key, entry, ttl); err != nil {
				logger.ErrorContext(ctx, "Failed to store idempotent response", "error", err, "key", key)
			}
		})
	}
}

func replay(ctx context.Context, w http.ResponseWriter, store IdempotencyStore, key, fingerprint string, logger *slog.Logger) {
	entry, err := store.Load(ctx, key)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load idempotent response", "error", err, "key", key)
		writeJSONError(w, http.StatusConflict, "A request with this Idempotency-Key is being processed")
		return
	}
	if entry.Fingerprint != fingerprint {
		writeJSONError(w, http.StatusConflict, "Idempotency-Key was already used with a different request")
		return
	}
	if entry.State != idempotencyStateDone {
		writeJSONError(w, http.StatusConflict, "A request with this Idempotency-Key is being processed")
		return
	}

	logger.InfoContext(ctx, "Replaying stored response", "key", key, "status", entry.Status)
	if entry.ContentType != "" {
		w.Header().Set("Content-Type", entry.ContentType)
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(entry.Status)
	_, _ = w.Write(entry.Body)
}

func idempotencyKey(r *http.Request, clientKey string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s", r.Method, r.URL.Path, clientKey)
}

func requestFingerprint(r *http.Request, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{0})
	h.Write([]byte(r.URL.Path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
