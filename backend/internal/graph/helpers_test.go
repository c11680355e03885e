package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bella-chat/backend/pkg/errors"
)

// fakeResult streams a fixed number of rows, then fails with err
type fakeResult struct {
	neo4j.ResultWithContext
	rows     int
	err      error
	consumed bool
}

func (r *fakeResult) Next(ctx context.Context) bool {
	if r.rows == 0 {
		return false
	}
	r.rows--
	return true
}

func (r *fakeResult) Err() error {
	return r.err
}

func (r *fakeResult) Consume(ctx context.Context) (neo4j.ResultSummary, error) {
	r.consumed = true
	return nil, r.err
}

type fakeRunner struct {
	result *fakeResult
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, cypher string, params map[string]any, configurers ...func(*neo4j.TransactionConfig)) (neo4j.ResultWithContext, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestRunAndConsume(t *testing.T) {
	ctx := context.Background()

	ok := &fakeRunner{result: &fakeResult{}}
	require.NoError(t, runAndConsume(ctx, ok, "RETURN 1", nil))
	assert.True(t, ok.result.consumed)

	deferred := &fakeRunner{result: &fakeResult{err: errors.New("constraint violated")}}
	err := runAndConsume(ctx, deferred, "MATCH (s) DETACH DELETE s", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGraph))
	assert.Contains(t, err.Error(), "constraint violated")

	refused := &fakeRunner{err: errors.New("connection refused")}
	assert.Error(t, runAndConsume(ctx, refused, "RETURN 1", nil))
}

func TestHasRow(t *testing.T) {
	ctx := context.Background()

	found, err := hasRow(ctx, &fakeRunner{result: &fakeResult{rows: 1}}, "MATCH (m) RETURN m", nil)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = hasRow(ctx, &fakeRunner{result: &fakeResult{}}, "MATCH (m) RETURN m", nil)
	require.NoError(t, err)
	assert.False(t, found)

	// a failed stream is an error, not a missing row
	found, err = hasRow(ctx, &fakeRunner{result: &fakeResult{err: errors.New("syntax error")}}, "MATCH (m) RETURN m", nil)
	require.Error(t, err)
	assert.False(t, found)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGraph))
}
