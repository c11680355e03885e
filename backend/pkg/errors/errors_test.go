package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_Error(t *testing.T) {
	plain := NewBaseError(ErrorTypeSession, "prompt is empty", nil)
	assert.Equal(t, "[session] prompt is empty", plain.Error())

	wrapped := NewBaseError(ErrorTypeInference, "request failed", io.ErrUnexpectedEOF)
	assert.Equal(t, "[inference] request failed: unexpected EOF", wrapped.Error())
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
}

func TestIsErrorType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{"sentinel", ErrCredentialMissing, ErrorTypeCredential, true},
		{"typed", NewInferenceFailed("m", io.EOF), ErrorTypeInference, true},
		{"wrapped typed", fmt.Errorf("submit: %w", NewUnknownModel("x")), ErrorTypeSession, true},
		{"wrapped sentinel", fmt.Errorf("export: %w", ErrGraphExportDisabled), ErrorTypeGraph, true},
		{"wrong type", NewLocalRuntimeFailed(500, "boom", nil), ErrorTypeGraph, false},
		{"foreign error", io.EOF, ErrorTypeInference, false},
		{"nil", nil, ErrorTypeInference, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsErrorType(tt.err, tt.errType))
		})
	}
}

func TestTypedErrors_As(t *testing.T) {
	err := fmt.Errorf("generate: %w", NewInferenceFailed("replicate/llama", io.ErrClosedPipe))

	var inferenceErr *ErrInferenceFailed
	if assert.True(t, stderrors.As(err, &inferenceErr)) {
		assert.Equal(t, "replicate/llama", inferenceErr.Model)
	}
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
