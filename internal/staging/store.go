// Package staging implements the booking staging store: the short
// lived, per-session holding area that carries a customer's seat
// selection across the redirect to and from the payment gateway. A
// draft is keyed by the authenticated session, so at most one in
// flight draft exists per session; putting a new draft silently
// overwrites any prior unconsumed one, and taking a draft consumes it
// exactly once.
package staging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDraftNotFound is returned by Take when no draft exists for the
// session or it was already consumed.
var ErrDraftNotFound = errors.New("booking draft not found")

// Draft is the staged booking data. It is never written to the
// durable store; it lives only until the payment callback consumes it.
type Draft struct {
	CustomerName string   `json:"customer_name"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	SeatNames    []string `json:"seat_names"`
	CoachID      uint64   `json:"coach_id"`
	TotalCents   uint32   `json:"total_cents"`
	DiscountID   *uint64  `json:"discount_id,omitempty"`
	AccountID    uint64   `json:"account_id"`
}

// Store holds at most one draft per session key.
type Store interface {
	// Put stores the draft for the session, overwriting any existing one.
	Put(ctx context.Context, sessionKey string, d Draft) error
	// Take returns and removes the draft, or ErrDraftNotFound.
	Take(ctx context.Context, sessionKey string) (Draft, error)
}

// New picks a backend: Redis when a client is available, otherwise an
// in-process store. The nil check mirrors how the Redis client
// constructor degrades when the server is unreachable at startup.
// ttl bounds a draft's lifetime in Redis; it should match the session
// expiry since the store enforces nothing beyond it.
func New(rdb *redis.Client, ttl time.Duration) Store {
	if rdb == nil {
		return NewMemoryStore()
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// RedisStore keeps drafts in Redis under booking:draft:<session>.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func draftKey(sessionKey string) string { return "booking:draft:" + sessionKey }

// Put marshals the draft and SETs it, replacing any previous value.
func (s *RedisStore) Put(ctx context.Context, sessionKey string, d Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, draftKey(sessionKey), b, s.ttl).Err()
}

// Take atomically reads and deletes the draft with GETDEL, so two
// concurrent callbacks for one session cannot both consume it.
func (s *RedisStore) Take(ctx context.Context, sessionKey string) (Draft, error) {
	raw, err := s.rdb.GetDel(ctx, draftKey(sessionKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Draft{}, ErrDraftNotFound
		}
		return Draft{}, err
	}
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// MemoryStore is the in-process fallback used when Redis is not
// configured, and by tests. Sessions are independent, so a single
// mutex over the map is enough.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string]Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft)}
}

func (s *MemoryStore) Put(ctx context.Context, sessionKey string, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionKey] = d
	return nil
}

func (s *MemoryStore) Take(ctx context.Context, sessionKey string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[sessionKey]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	delete(s.drafts, sessionKey)
	return d, nil
}
