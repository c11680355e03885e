package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "bella-chat/backend/pkg/errors"
)

// ============================================================================
// Helper Functions
// ============================================================================

func getStringSliceFromRecord(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return []string{}
	}
	if slice, ok := val.([]interface{}); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return []string{}
}

func getStringFromMap(m map[string]interface{}, key, defaultValue string) string {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if str, ok := val.(string); ok {
		return str
	}
	return defaultValue
}

func getInt64FromMap(m map[string]interface{}, key string, defaultValue int64) int64 {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return defaultValue
}

func getFloat64FromMap(m map[string]interface{}, key string, defaultValue float64) float64 {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if f, ok := val.(float64); ok {
		return f
	}
	if i, ok := val.(int64); ok {
		return float64(i)
	}
	return defaultValue
}

// statementRunner is the part of neo4j.SessionWithContext the auto-commit
// helpers need
type statementRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any, configurers ...func(*neo4j.TransactionConfig)) (neo4j.ResultWithContext, error)
}

// runAndConsume runs an auto-commit statement and waits for its summary, so
// errors the server reports while streaming are not lost
func runAndConsume(ctx context.Context, runner statementRunner, query string, params map[string]any) error {
	result, err := runner.Run(ctx, query, params)
	if err != nil {
		return apperrors.NewGraphQueryFailed(query, err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return apperrors.NewGraphQueryFailed(query, err)
	}
	return nil
}

// hasRow reports whether a read statement returned at least one record
func hasRow(ctx context.Context, runner statementRunner, query string, params map[string]any) (bool, error) {
	result, err := runner.Run(ctx, query, params)
	if err != nil {
		return false, apperrors.NewGraphQueryFailed(query, err)
	}
	found := result.Next(ctx)
	if err := result.Err(); err != nil {
		return false, apperrors.NewGraphQueryFailed(query, err)
	}
	return found, nil
}
