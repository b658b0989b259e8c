package conversation

import "sync"

// preGreetingIndex is the CurrentIndex value used for the whole pre-amble
// (greeting and confirmation); the Greeted flag distinguishes the two.
const preGreetingIndex = -1

// State is the mutable dialogue state for one (user, topic) pair. It is only
// ever touched while the store's per-key lock is held.
type State struct {
	CurrentIndex       int
	Answers            map[string]string
	Questions          []string
	Topic              Topic
	Greeted            bool
	ValidationAttempts int
}

// Done reports whether every question has been answered.
func (s *State) Done() bool {
	return s.CurrentIndex >= len(s.Questions)
}

// Key identifies one conversation.
type Key struct {
	UserID string
	Topic  Topic
}

// Store owns conversation state. Acquire hands out the state locked for the
// duration of one turn; the returned release func must be called exactly
// once. Turns for different keys proceed in parallel, turns for the same key
// are serialized.
type Store interface {
	Acquire(userID string, topic Topic) (*State, func())
	Reset(userID string, topic Topic)
	Answers(userID string, topic Topic) map[string]string
}

type storeEntry struct {
	mu    sync.Mutex
	state *State
}

// MemoryStore is the in-process Store implementation. Entries live until an
// explicit Reset; there is no expiry.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[Key]*storeEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key]*storeEntry)}
}

func (m *MemoryStore) entry(userID string, topic Topic) *storeEntry {
	key := Key{UserID: userID, Topic: topic}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		e = &storeEntry{state: &State{
			CurrentIndex: preGreetingIndex,
			Answers:      make(map[string]string),
			Questions:    Questions(topic),
			Topic:        topic,
		}}
		m.entries[key] = e
	}
	return e
}

// Acquire returns the state for the key, creating it on first use, locked
// for the caller's turn.
func (m *MemoryStore) Acquire(userID string, topic Topic) (*State, func()) {
	e := m.entry(userID, topic)
	e.mu.Lock()
	return e.state, e.mu.Unlock
}

// Reset drops the conversation. A turn already in flight keeps mutating its
// detached state and is discarded when it releases; the next Acquire starts
// fresh. Idempotent.
func (m *MemoryStore) Reset(userID string, topic Topic) {
	key := Key{UserID: userID, Topic: topic}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Answers returns a snapshot copy of the stored answers for the key.
func (m *MemoryStore) Answers(userID string, topic Topic) map[string]string {
	e := m.entry(userID, topic)
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.state.Answers))
	for k, v := range e.state.Answers {
		out[k] = v
	}
	return out
}
