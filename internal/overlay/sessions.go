package overlay

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/codyseavey/pokeprice/internal/metrics"
	"github.com/codyseavey/pokeprice/internal/trigger"
)

// Session defaults
const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000
)

// ErrSessionNotFound is returned for an unknown or expired overlay id
var ErrSessionNotFound = errors.New("overlay not found")

// Session is one overlay: its controller, the panel it drives, the event
// broker for streaming clients and the hover buttons on its page.
type Session struct {
	ID          string
	CreatedAt   time.Time
	Controller  *Controller
	Panel       *Panel
	Broker      *Broker
	Affordances *trigger.Affordances
}

// SessionStore keeps overlays in an LRU whose entries expire after a period
// without use.
type SessionStore struct {
	lookup CardLookup
	opts   []Option
	cache  *expirable.LRU[string, *Session]
}

// NewSessionStore creates a store. Non-positive limits fall back to defaults.
func NewSessionStore(lookup CardLookup, maxSessions int, ttl time.Duration, opts ...Option) *SessionStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &SessionStore{lookup: lookup, opts: opts}
	s.cache = expirable.NewLRU[string, *Session](maxSessions, s.evicted, ttl)
	return s
}

// Create starts a hidden overlay with a fresh id
func (s *SessionStore) Create() *Session {
	panel := NewPanel()
	broker := NewBroker()
	sess := &Session{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now(),
		Controller:  NewController(s.lookup, Presenters{panel, broker}, s.opts...),
		Panel:       panel,
		Broker:      broker,
		Affordances: trigger.NewAffordances(trigger.DefaultGracePeriod),
	}
	s.cache.Add(sess.ID, sess)
	metrics.OverlaySessionsActive.Inc()
	log.Printf("Overlay: created session %s", sess.ID)
	return sess
}

// Get returns a session and refreshes its idle timer
func (s *SessionStore) Get(id string) (*Session, error) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.cache.Add(id, sess)
	return sess, nil
}

// Delete removes a session, disconnecting its streaming clients
func (s *SessionStore) Delete(id string) bool {
	return s.cache.Remove(id)
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	return s.cache.Len()
}

// Purge removes every session
func (s *SessionStore) Purge() {
	s.cache.Purge()
}

// evicted runs under the LRU's lock; it must not call back into the cache.
func (s *SessionStore) evicted(id string, sess *Session) {
	metrics.OverlaySessionsActive.Dec()
	sess.Broker.Close()
	sess.Affordances.Clear()
	log.Printf("Overlay: session %s closed", id)
}
