package state

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"bella-chat/backend/internal/constants"
	"bella-chat/backend/pkg/logger"
)

// Store keeps the live sessions of this process. Nothing is persisted: a
// restart starts every browser over with a fresh greeting. Sessions idle for
// longer than the idle timeout are dropped, and past the size limit the least
// recently used one goes first.
type Store struct {
	sessions     *expirable.LRU[string, *Session]
	defaultModel string
	envToken     string
	now          func() time.Time
	logger       *zap.Logger
}

// NewStore creates an empty session store with the default limits. envToken
// is applied to every new session when it passes validation; otherwise users
// must enter one.
func NewStore(defaultModel, envToken string) *Store {
	return NewStoreWithLimits(defaultModel, envToken, constants.SessionIdleTimeout, constants.MaxSessions)
}

// NewStoreWithLimits creates an empty session store. Non-positive limits fall
// back to the defaults.
func NewStoreWithLimits(defaultModel, envToken string, idle time.Duration, maxSessions int) *Store {
	if idle <= 0 {
		idle = constants.SessionIdleTimeout
	}
	if maxSessions < 1 {
		maxSessions = constants.MaxSessions
	}

	log := logger.Named("state")
	onEvict := func(id string, s *Session) {
		log.Debug("Session dropped",
			zap.String("session_id", id),
			zap.Time("last_seen", s.LastSeen()),
		)
	}

	return &Store{
		sessions:     expirable.NewLRU[string, *Session](maxSessions, onEvict, idle),
		defaultModel: defaultModel,
		envToken:     envToken,
		now:          time.Now,
		logger:       log,
	}
}

// Get returns the session with the given id and renews its idle timeout
func (st *Store) Get(id string) (*Session, bool) {
	s, ok := st.sessions.Get(id)
	if !ok {
		return nil, false
	}
	st.touch(s)
	return s, true
}

// Create starts a new session with the greeting, the default model and the
// environment credential if there is a valid one
func (st *Store) Create() *Session {
	s := NewSession(st.defaultModel)
	if st.envToken != "" {
		if err := s.SetCredential(st.envToken, CredentialEnvironment); err != nil {
			st.logger.Warn("Environment API token rejected", zap.Error(err))
		}
	}
	st.touch(s)

	st.logger.Debug("Session created",
		zap.String("session_id", s.ID),
		zap.Bool("has_credential", s.HasCredential()),
	)
	return s
}

// GetOrCreate returns the session for id, creating a new one when id is
// unknown or expired
func (st *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := st.Get(id); ok {
			return s, false
		}
	}
	return st.Create(), true
}

// Count returns the number of sessions held, including expired ones not yet
// swept
func (st *Store) Count() int {
	return st.sessions.Len()
}

// re-adding renews the entry's expiry; Get alone only bumps recency
func (st *Store) touch(s *Session) {
	s.Touch(st.now())
	st.sessions.Add(s.ID, s)
}
