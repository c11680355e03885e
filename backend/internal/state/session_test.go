package state

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bella-chat/backend/internal/constants"
	apperrors "bella-chat/backend/pkg/errors"
)

var validToken = "r8_" + strings.Repeat("a", 37)

func TestNewSession_StartsWithGreeting(t *testing.T) {
	s := NewSession(constants.ModelLlama2_7B)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{Role: RoleAssistant, Content: constants.Greeting}, msgs[0])
	assert.Equal(t, constants.ModelLlama2_7B, s.Model())
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.HasCredential())
}

func TestSession_AppendAndClear(t *testing.T) {
	s := NewSession(constants.ModelLlama2_7B)

	require.NoError(t, s.Append(RoleUser, "I need help with rent"))
	require.NoError(t, s.Append(RoleAssistant, "Sure."))
	assert.Equal(t, 3, s.Len())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, RoleAssistant, last.Role)

	err := s.Append(Role("system"), "nope")
	assert.Equal(t, ErrInvalidRole{Role: "system"}, err)
	assert.Equal(t, 3, s.Len())

	s.Clear()
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, constants.Greeting, msgs[0].Content)
}

func TestSession_MessagesIsACopy(t *testing.T) {
	s := NewSession(constants.ModelLlama2_7B)
	msgs := s.Messages()
	msgs[0].Content = "changed"

	assert.Equal(t, constants.Greeting, s.Messages()[0].Content)
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		ok    bool
	}{
		{"valid", validToken, true},
		{"wrong prefix", "r9_" + strings.Repeat("a", 37), false},
		{"too short", "r8_abc", false},
		{"too long", validToken + "x", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToken(tt.token)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeCredential))
		})
	}
}

func TestSession_SetCredential(t *testing.T) {
	s := NewSession(constants.ModelLlama2_7B)

	require.NoError(t, s.SetCredential(validToken, CredentialEntered))
	assert.True(t, s.HasCredential())
	assert.Equal(t, CredentialEntered, s.CredentialSource())

	// A bad entry disables chat again
	assert.Error(t, s.SetCredential("r8_short", CredentialEntered))
	assert.False(t, s.HasCredential())
}

func TestSession_EnvironmentCredentialSurvivesBadEntry(t *testing.T) {
	s := NewSession(constants.ModelLlama2_7B)
	require.NoError(t, s.SetCredential(validToken, CredentialEnvironment))

	assert.Error(t, s.SetCredential("bogus", CredentialEntered))
	assert.True(t, s.HasCredential())
	assert.Equal(t, CredentialEnvironment, s.CredentialSource())
}

func TestStore_GetOrCreate(t *testing.T) {
	st := NewStore(constants.ModelLlama2_13B, validToken)

	s, created := st.GetOrCreate("")
	require.True(t, created)
	assert.Equal(t, constants.ModelLlama2_13B, s.Model())
	assert.True(t, s.HasCredential())

	again, created := st.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	_, created = st.GetOrCreate("unknown-id")
	assert.True(t, created)
	assert.Equal(t, 2, st.Count())
}

func TestStore_EvictsIdleSessions(t *testing.T) {
	st := NewStoreWithLimits(constants.ModelLlama2_7B, "", 50*time.Millisecond, 100)

	idle := st.Create()
	require.Equal(t, 1, st.Count())

	require.Eventually(t, func() bool {
		_, ok := st.Get(idle.ID)
		return !ok && st.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)

	again, created := st.GetOrCreate(idle.ID)
	assert.True(t, created)
	assert.NotEqual(t, idle.ID, again.ID)
}

func TestStore_ActivityRenewsIdleTimeout(t *testing.T) {
	st := NewStoreWithLimits(constants.ModelLlama2_7B, "", 200*time.Millisecond, 100)
	s := st.Create()
	first := s.LastSeen()

	for i := 0; i < 5; i++ {
		time.Sleep(60 * time.Millisecond)
		_, ok := st.Get(s.ID)
		require.True(t, ok, "session expired while in use")
	}
	assert.True(t, s.LastSeen().After(first))
}

func TestStore_SizeLimitDropsLeastRecentlyUsed(t *testing.T) {
	st := NewStoreWithLimits(constants.ModelLlama2_7B, "", time.Hour, 2)

	oldest := st.Create()
	kept := st.Create()
	_, ok := st.Get(oldest.ID)
	require.True(t, ok)

	st.Create()
	assert.Equal(t, 2, st.Count())
	_, ok = st.Get(kept.ID)
	assert.False(t, ok)
	_, ok = st.Get(oldest.ID)
	assert.True(t, ok)
}

func TestStore_InvalidEnvironmentToken(t *testing.T) {
	st := NewStore(constants.ModelLlama2_7B, "not-a-token")
	s := st.Create()
	assert.False(t, s.HasCredential())
}
