package state

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"bella-chat/backend/internal/constants"
)

// Session is the explicit context handed to every chat component: the
// transcript, the selected model and the API credential of one browser session.
//
// A UI event holds the session lock from start to finish (Lock/Unlock), so the
// transcript has exactly one writer at a time. Accessors assume the lock is held.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu               sync.Mutex
	messages         []Message
	model            string
	credential       string
	credentialSource CredentialSource

	lastSeen atomic.Int64
}

// NewSession creates a session whose transcript holds only the greeting
func NewSession(model string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		messages:  greeting(),
		model:     model,
	}
	s.Touch(s.CreatedAt)
	return s
}

func greeting() []Message {
	return []Message{{Role: RoleAssistant, Content: constants.Greeting}}
}

// Touch records browser activity. Safe without the session lock.
func (s *Session) Touch(at time.Time) {
	s.lastSeen.Store(at.UnixNano())
}

// LastSeen returns the time of the latest request on this session
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Lock starts a UI event on this session
func (s *Session) Lock() { s.mu.Lock() }

// Unlock ends a UI event on this session
func (s *Session) Unlock() { s.mu.Unlock() }

// Messages returns a copy of the transcript in chat order
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of transcript messages
func (s *Session) Len() int {
	return len(s.messages)
}

// Last returns the most recent message
func (s *Session) Last() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Append adds a message to the end of the transcript
func (s *Session) Append(role Role, content string) error {
	if !role.Valid() {
		return ErrInvalidRole{Role: role}
	}
	s.messages = append(s.messages, Message{Role: role, Content: content})
	return nil
}

// Clear drops the whole history and restores the greeting
func (s *Session) Clear() {
	s.messages = greeting()
}

// Model returns the selected catalog model name
func (s *Session) Model() string {
	return s.model
}

// SetModel changes the selected catalog model name
func (s *Session) SetModel(name string) {
	s.model = name
}

// Credential returns the API token, empty when none was accepted
func (s *Session) Credential() string {
	return s.credential
}

// CredentialSource reports where the accepted token came from
func (s *Session) CredentialSource() CredentialSource {
	return s.credentialSource
}

// HasCredential reports whether chat is enabled for this session
func (s *Session) HasCredential() bool {
	return s.credential != ""
}

// SetCredential validates and stores a token. An invalid token clears any
// previously entered one, matching the UI that disables chat on a bad entry.
func (s *Session) SetCredential(token string, source CredentialSource) error {
	if err := ValidateToken(token); err != nil {
		if s.credentialSource != CredentialEnvironment {
			s.credential = ""
			s.credentialSource = CredentialNone
		}
		return err
	}
	s.credential = token
	s.credentialSource = source
	return nil
}
