package adapter

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneration_Failed(t *testing.T) {
	g := Failed(io.ErrUnexpectedEOF)

	assert.ErrorIs(t, g.Err(), io.ErrUnexpectedEOF)
	count := 0
	for range g.Fragments() {
		count++
	}
	assert.Zero(t, count)
}

func TestGeneration_StopsAtStreamError(t *testing.T) {
	closed := 0
	g := Succeeded(func(yield func(string, error) bool) {
		if !yield("partial", nil) {
			return
		}
		if !yield("", io.ErrClosedPipe) {
			return
		}
		yield("never", nil)
	}, func() { closed++ })

	var fragments []string
	var streamErr error
	for f, err := range g.Fragments() {
		if err != nil {
			streamErr = err
			continue
		}
		fragments = append(fragments, f)
	}

	assert.Equal(t, []string{"partial"}, fragments)
	assert.ErrorIs(t, streamErr, io.ErrClosedPipe)
	assert.Equal(t, 1, closed)

	g.Close()
	assert.Equal(t, 1, closed, "closer runs once")
}

func TestFromStrings(t *testing.T) {
	var got []string
	for f, err := range FromStrings("a", "b").Fragments() {
		assert.NoError(t, err)
		got = append(got, f)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}
