// Package graph publishes analytics snapshots to Neo4j.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"bella-chat/backend/internal/analytics"
	apperrors "bella-chat/backend/pkg/errors"
	"bella-chat/backend/pkg/logger"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Named("graph"),
	}
}

// Connect opens a driver and verifies the server is reachable
func Connect(ctx context.Context, uri, user, password string) (*Repository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j at %s: %w", uri, err)
	}
	return NewRepository(driver), nil
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

const deleteSessionQuery = `
	MATCH (s:Session {id: $sessionID})
	OPTIONAL MATCH (s)-[:HAS_WORD]->(w:Word)
	OPTIONAL MATCH (s)-[:HAS_SENTIMENT]->(d:SentimentDay)
	DETACH DELETE w, d, s
`

const createSessionQuery = `
	MERGE (s:Session {id: $sessionID})
	SET s.exported_at = datetime()
`

const createWordsQuery = `
	MATCH (s:Session {id: $sessionID})
	UNWIND $words AS text
	CREATE (s)-[:HAS_WORD]->(:Word {session_id: $sessionID, text: text})
`

const createEdgesQuery = `
	UNWIND $edges AS edge
	MATCH (a:Word {session_id: $sessionID, text: edge.source})
	MATCH (b:Word {session_id: $sessionID, text: edge.target})
	CREATE (a)-[:CO_OCCURS {weight: edge.weight}]->(b)
`

const createSentimentQuery = `
	MATCH (s:Session {id: $sessionID})
	UNWIND $days AS day
	CREATE (s)-[:HAS_SENTIMENT]->(:SentimentDay {date: day.date, mean: day.mean, messages: day.messages})
`

// PublishSnapshot replaces whatever was stored for the session with the given
// graph and trend. All writes run in one transaction.
func (r *Repository) PublishSnapshot(ctx context.Context, sessionID string, snapshot analytics.GraphSnapshot, trend []analytics.DailySentiment) (*ExportSummary, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	words := make([]interface{}, 0, len(snapshot.Nodes))
	for _, w := range snapshot.Nodes {
		words = append(words, w)
	}
	edges := make([]interface{}, 0, len(snapshot.Edges))
	for _, e := range snapshot.Edges {
		edges = append(edges, map[string]interface{}{
			"source": e.Source,
			"target": e.Target,
			"weight": int64(e.Weight),
		})
	}
	days := make([]interface{}, 0, len(trend))
	for _, d := range trend {
		days = append(days, map[string]interface{}{
			"date":     d.Date,
			"mean":     d.Mean,
			"messages": int64(d.Messages),
		})
	}

	steps := []struct {
		query  string
		params map[string]interface{}
	}{
		{deleteSessionQuery, map[string]interface{}{"sessionID": sessionID}},
		{createSessionQuery, map[string]interface{}{"sessionID": sessionID}},
		{createWordsQuery, map[string]interface{}{"sessionID": sessionID, "words": words}},
		{createEdgesQuery, map[string]interface{}{"sessionID": sessionID, "edges": edges}},
		{createSentimentQuery, map[string]interface{}{"sessionID": sessionID, "days": days}},
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		for _, step := range steps {
			result, err := tx.Run(ctx, step.query, step.params)
			if err != nil {
				return nil, apperrors.NewGraphQueryFailed(step.query, err)
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, apperrors.NewGraphQueryFailed(step.query, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	summary := &ExportSummary{
		SessionID: sessionID,
		Words:     len(words),
		Edges:     len(edges),
		Days:      len(days),
	}
	r.logger.Info("Analytics snapshot published",
		zap.String("session_id", sessionID),
		zap.Int("words", summary.Words),
		zap.Int("edges", summary.Edges),
		zap.Int("days", summary.Days),
	)
	return summary, nil
}

// FetchSnapshot reads back the stored graph and trend for a session
func (r *Repository) FetchSnapshot(ctx context.Context, sessionID string) (*StoredSnapshot, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (s:Session {id: $sessionID})
		OPTIONAL MATCH (s)-[:HAS_WORD]->(w:Word)
		OPTIONAL MATCH (w)-[c:CO_OCCURS]->(o:Word)
		OPTIONAL MATCH (s)-[:HAS_SENTIMENT]->(d:SentimentDay)
		RETURN
			s.id as session_id,
			collect(DISTINCT w.text) as words,
			collect(DISTINCT {source: w.text, target: o.text, weight: c.weight}) as edges,
			collect(DISTINCT {date: d.date, mean: d.mean, messages: d.messages}) as days
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"sessionID": sessionID,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed(query, err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewGraphQueryFailed(query, err)
		}
		return nil, ErrSessionNotFound{SessionID: sessionID}
	}
	record := result.Record()

	stored := &StoredSnapshot{
		SessionID: sessionID,
		Graph: analytics.GraphSnapshot{
			Nodes: getStringSliceFromRecord(record, "words"),
			Edges: []analytics.Edge{},
		},
		Trend: []analytics.DailySentiment{},
	}

	rawEdges, _ := record.Get("edges")
	if list, ok := rawEdges.([]interface{}); ok {
		for _, item := range list {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			target := getStringFromMap(m, "target", "")
			if target == "" {
				continue
			}
			stored.Graph.Edges = append(stored.Graph.Edges, analytics.Edge{
				Source: getStringFromMap(m, "source", ""),
				Target: target,
				Weight: int(getInt64FromMap(m, "weight", 0)),
			})
		}
	}

	rawDays, _ := record.Get("days")
	if list, ok := rawDays.([]interface{}); ok {
		for _, item := range list {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			date := getStringFromMap(m, "date", "")
			if date == "" {
				continue
			}
			stored.Trend = append(stored.Trend, analytics.DailySentiment{
				Date:     date,
				Mean:     getFloat64FromMap(m, "mean", 0),
				Messages: int(getInt64FromMap(m, "messages", 0)),
			})
		}
	}

	stored.sort()
	return stored, nil
}

// DeleteSession removes everything stored for a session
func (r *Repository) DeleteSession(ctx context.Context, sessionID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	err := runAndConsume(ctx, session, deleteSessionQuery, map[string]interface{}{
		"sessionID": sessionID,
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Session export removed", zap.String("session_id", sessionID))
	return nil
}

// Errors

type ErrSessionNotFound struct {
	SessionID string
}

func (e ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not exported: %s", e.SessionID)
}
