// Package session keeps per-browser state: the single active document
// identifier and the in-memory chat transcript. The document identifier is
// the only value shared across views; it is written once on upload success
// and cleared on reset, nowhere else.
package session

import (
	"sync"
	"time"

	"inkchat/web/types"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Reaper is called when a session expires while still holding an active
// document, so the orphaned backend document can be cleaned up.
type Reaper func(documentID string)

// Store holds session state keyed by the browser session id. Entries expire
// after the configured TTL of inactivity.
type Store struct {
	cache  *cache.Cache
	logger *zap.Logger
}

// State is the live state of one session. All access goes through its
// methods; the mutex also backs the single-flight guard for the chat
// pipeline.
type State struct {
	ID uuid.UUID

	mu         sync.Mutex
	documentID string
	transcript []types.Message
	pending    bool
}

func NewStore(ttl, sweepInterval time.Duration, reaper Reaper, logger *zap.Logger) *Store {
	c := cache.New(ttl, sweepInterval)
	s := &Store{cache: c, logger: logger}

	c.OnEvicted(func(key string, value interface{}) {
		state, ok := value.(*State)
		if !ok {
			return
		}
		doc := state.Document()
		logger.Info("Session expired", zap.String("session_id", key), zap.String("document", doc))
		if doc != "" && reaper != nil {
			reaper(doc)
		}
	})

	return s
}

// Get returns the state for the given session id, creating it on first
// access. Each access refreshes the session's expiration.
func (s *Store) Get(id uuid.UUID) *State {
	key := id.String()
	if v, found := s.cache.Get(key); found {
		state := v.(*State)
		// Sliding expiration: re-set the same pointer to push out the TTL.
		s.cache.Set(key, state, cache.DefaultExpiration)
		return state
	}
	state := &State{ID: id}
	s.cache.Set(key, state, cache.DefaultExpiration)
	return state
}

// Document returns the active document identifier, or "" if none.
func (st *State) Document() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.documentID
}

// SetDocument records a newly uploaded document as the active one and
// starts a fresh transcript for it.
func (st *State) SetDocument(documentID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.documentID = documentID
	st.transcript = nil
}

// ClearDocument removes the active document and resets the transcript.
// It returns the identifier that was active, or "" if there was none.
func (st *State) ClearDocument() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	doc := st.documentID
	st.documentID = ""
	st.transcript = nil
	return doc
}

// Append adds a message to the transcript. The transcript is append-only;
// display order equals insertion order.
func (st *State) Append(msg types.Message) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.transcript = append(st.transcript, msg)
}

// Messages returns a copy of the transcript in append order.
func (st *State) Messages() []types.Message {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]types.Message, len(st.transcript))
	copy(out, st.transcript)
	return out
}

// TryBeginRequest attempts to take the single-flight slot. It returns false
// if another question is already in flight for this session.
func (st *State) TryBeginRequest() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.pending {
		return false
	}
	st.pending = true
	return true
}

// EndRequest releases the single-flight slot regardless of outcome.
func (st *State) EndRequest() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.pending = false
}

// Pending reports whether a question is currently in flight.
func (st *State) Pending() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.pending
}
