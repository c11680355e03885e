package state

import (
	"fmt"
	"strings"

	"bella-chat/backend/internal/constants"
	apperrors "bella-chat/backend/pkg/errors"
)

// Role tags who authored a transcript message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a transcript role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one transcript entry. It is never modified after it is appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CredentialSource records where a session's API token came from
type CredentialSource string

const (
	CredentialNone        CredentialSource = ""
	CredentialEnvironment CredentialSource = "environment"
	CredentialEntered     CredentialSource = "entered"
)

// ValidateToken applies the Replicate token format check: fixed prefix and length.
func ValidateToken(token string) error {
	if !strings.HasPrefix(token, constants.TokenPrefix) || len(token) != constants.TokenLength {
		return apperrors.NewCredentialInvalid(len(token))
	}
	return nil
}

// ErrInvalidRole is returned when appending a message with an unknown role
type ErrInvalidRole struct {
	Role Role
}

func (e ErrInvalidRole) Error() string {
	return fmt.Sprintf("invalid message role: %q", string(e.Role))
}
