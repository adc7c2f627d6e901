package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	apperrors "salas/pkg/errors"
)

const DefaultIdempotencyHeader = "Idempotency-Key"

// ClaimState is the outcome of claiming an idempotency key.
type ClaimState int

const (
	// ClaimAcquired means the caller owns the key and must Complete or Release it.
	ClaimAcquired ClaimState = iota
	// ClaimReplay means a stored response exists for the same request.
	ClaimReplay
	// ClaimInFlight means another request with the key has not finished yet.
	ClaimInFlight
	// ClaimMismatch means the key was used for a different request body.
	ClaimMismatch
)

type IdempotencyStore interface {
	Claim(key, fingerprint string) (ClaimState, *CachedResponse)
	Complete(key string, response *CachedResponse)
	Release(key string)
	Stop()
}

type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

type idempotencyEntry struct {
	fingerprint string
	response    *CachedResponse
	expiresAt   time.Time
}

// InMemoryIdempotencyStore keeps completed write responses for ttl. A key is
// held while its first request runs, so a retried booking create arriving
// mid-flight cannot slip past the replay and create a duplicate.
type InMemoryIdempotencyStore struct {
	mu       sync.Mutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries: make(map[string]*idempotencyEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}
	go s.evictLoop()
	return s
}

func (s *InMemoryIdempotencyStore) Claim(key, fingerprint string) (ClaimState, *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if e, ok := s.entries[key]; ok && (e.response == nil || now.Before(e.expiresAt)) {
		switch {
		case e.fingerprint != fingerprint:
			return ClaimMismatch, nil
		case e.response == nil:
			return ClaimInFlight, nil
		default:
			return ClaimReplay, e.response
		}
	}

	s.entries[key] = &idempotencyEntry{fingerprint: fingerprint}
	return ClaimAcquired, nil
}

func (s *InMemoryIdempotencyStore) Complete(key string, response *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.response = response
		e.expiresAt = time.Now().Add(s.ttl)
	}
}

func (s *InMemoryIdempotencyStore) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && e.response == nil {
		delete(s.entries, key)
	}
}

func (s *InMemoryIdempotencyStore) evictLoop() {
	ticker := time.NewTicker(min(s.ttl, time.Hour))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, e := range s.entries {
				if e.response != nil && now.After(e.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

type capturingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (cw *capturingWriter) WriteHeader(status int) {
	if cw.status == 0 {
		cw.status = status
	}
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *capturingWriter) Write(b []byte) (int, error) {
	if cw.status == 0 {
		cw.status = http.StatusOK
	}
	cw.body.Write(b)
	return cw.ResponseWriter.Write(b)
}

// Idempotency replays the stored 2xx response of a write sent again with the
// same key, route and body. Keys are scoped to method and path; reads and
// requests without a key pass through untouched. Failed writes are not
// stored, so the client may retry them.
func Idempotency(store IdempotencyStore, headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = DefaultIdempotencyHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get(headerName)
			if clientKey == "" || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeAppError(w, apperrors.InvalidInput("Failed to read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := r.Method + " " + r.URL.Path + " " + clientKey
			sum := sha256.Sum256(body)

			state, cached := store.Claim(key, hex.EncodeToString(sum[:]))
			switch state {
			case ClaimReplay:
				for k, v := range cached.Headers {
					w.Header()[k] = v
				}
				w.WriteHeader(cached.StatusCode)
				_, _ = w.Write(cached.Body)
				return
			case ClaimInFlight:
				writeAppError(w, apperrors.Conflict("A request with this "+headerName+" is still being processed"))
				return
			case ClaimMismatch:
				writeAppError(w, apperrors.Validation(headerName+" was already used for a different request", nil))
				return
			}

			cw := &capturingWriter{ResponseWriter: w}
			completed := false
			defer func() {
				if !completed {
					store.Release(key)
				}
			}()

			next.ServeHTTP(cw, r)

			if cw.status == 0 {
				cw.status = http.StatusOK
			}
			if cw.status >= 200 && cw.status < 300 {
				store.Complete(key, &CachedResponse{
					StatusCode: cw.status,
					Headers:    w.Header().Clone(),
					Body:       bytes.Clone(cw.body.Bytes()),
				})
				completed = true
			}
		})
	}
}
