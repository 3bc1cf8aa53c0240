package sessioncache

import (
	"fmt"
	"time"

	"marketbot/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoSessionStore keeps conversion sessions with a TTL so that
// abandoned dialogues disappear on their own.
type RistrettoSessionStore struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewSessionStore(maxSessions int64, ttl time.Duration) (*RistrettoSessionStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxSessions,
		MaxCost:     maxSessions,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create session store failed: %w", err)
	}
	return &RistrettoSessionStore{cache: c, ttl: ttl}, nil
}

func (s *RistrettoSessionStore) Get(chatID int64) (domain.Session, bool) {
	if v, ok := s.cache.Get(chatID); ok {
		sess, ok := v.(domain.Session)
		return sess, ok
	}
	return domain.Session{}, false
}

// Put stores the session and waits for the write buffer to drain: the next
// event for this chat arrives right after and must see the new stage.
func (s *RistrettoSessionStore) Put(chatID int64, sess domain.Session) {
	s.cache.SetWithTTL(chatID, sess, 1, s.ttl)
	s.cache.Wait()
}

func (s *RistrettoSessionStore) Delete(chatID int64) {
	s.cache.Del(chatID)
}

func (s *RistrettoSessionStore) Close() { s.cache.Close() }
