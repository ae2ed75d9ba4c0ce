package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/spotgram/internal/model"
	"github.com/ytget/spotgram/internal/spotify"
)

// Handshake lifetimes
const (
	DefaultHandshakeTTL = 10 * time.Minute

	janitorInterval = time.Minute
)

// Handshake is the in-progress OAuth authorization-code exchange for one user
type Handshake struct {
	State     string
	StartedAt time.Time
}

// Session is the process-lifetime state for one user. It is owned
// exclusively by that user and guarded by its own lock.
type Session struct {
	mu        sync.Mutex
	userID    int64
	bitrate   model.Bitrate
	creds     *spotify.Credentials
	handshake *Handshake
}

// UserID returns the owning user's identity
func (s *Session) UserID() int64 {
	return s.userID
}

// Bitrate returns the user's chosen bitrate, defaulting to 192 kbps
func (s *Session) Bitrate() model.Bitrate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bitrate == 0 {
		return model.DefaultBitrate
	}
	return s.bitrate
}

// SetBitrate stores the user's bitrate preference
func (s *Session) SetBitrate(b model.Bitrate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bitrate = b
}

// Credentials returns the user's Spotify credentials, if any
func (s *Session) Credentials() *spotify.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// SetCredentials stores exchanged credentials and ends any pending handshake
func (s *Session) SetCredentials(creds *spotify.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.handshake = nil
}

// BeginHandshake starts a fresh OAuth handshake, replacing any pending one,
// and returns its state value
func (s *Session) BeginHandshake() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handshake = &Handshake{
		State:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	return s.handshake.State
}

// Handshake returns the pending handshake, if one exists
func (s *Session) Handshake() (*Handshake, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handshake == nil {
		return nil, false
	}
	return s.handshake, true
}

// AbortHandshake drops the pending handshake without storing credentials
func (s *Session) AbortHandshake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handshake = nil
}

// expireHandshake drops the handshake if it is older than the TTL
func (s *Session) expireHandshake(ttl time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handshake == nil || now.Sub(s.handshake.StartedAt) < ttl {
		return false
	}
	s.handshake = nil
	return true
}

// Store maps user identities to their sessions
type Store struct {
	mu           sync.RWMutex
	sessions     map[int64]*Session
	handshakeTTL time.Duration
}

// NewStore creates a session store. Handshakes older than the TTL are
// removed by the janitor so abandoned authorizations do not leak.
func NewStore(handshakeTTL time.Duration) *Store {
	if handshakeTTL <= 0 {
		handshakeTTL = DefaultHandshakeTTL
	}
	return &Store{
		sessions:     make(map[int64]*Session),
		handshakeTTL: handshakeTTL,
	}
}

// Get returns the session for a user, creating it on first use
func (st *Store) Get(userID int64) *Session {
	st.mu.RLock()
	s, exists := st.sessions[userID]
	st.mu.RUnlock()
	if exists {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, exists = st.sessions[userID]; exists {
		return s
	}
	s = &Session{userID: userID}
	st.sessions[userID] = s
	return s
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// StartJanitor runs handshake expiry sweeps until the context is canceled
func (st *Store) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				st.sweep(now)
			}
		}
	}()
}

// sweep expires stale handshakes across all sessions
func (st *Store) sweep(now time.Time) {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.RUnlock()

	for _, s := range sessions {
		if s.expireHandshake(st.handshakeTTL, now) {
			log.Printf("User %d: expired abandoned auth handshake", s.UserID())
		}
	}
}
