package graph

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// SchemaVersion names the export schema recorded on the Migration node
const SchemaVersion = "hifis_export_v1"

type migration struct {
	name  string
	query string
}

var migrations = []migration{
	{
		name: "Create Constraints",
		query: `
			// one node per browser session
			CREATE CONSTRAINT session_id_unique IF NOT EXISTS FOR (s:Session) REQUIRE s.id IS UNIQUE;
		`,
	},
	{
		name: "Create Indexes",
		query: `
			// edge creation looks words up by session and text
			CREATE INDEX word_session_text IF NOT EXISTS FOR (w:Word) ON (w.session_id, w.text);
			CREATE INDEX sentiment_day_date IF NOT EXISTS FOR (d:SentimentDay) ON (d.date);
		`,
	},
}

// SchemaApplied reports whether EnsureSchema already ran against this database
func (r *Repository) SchemaApplied(ctx context.Context) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (m:Migration {version: $version})
		RETURN m.applied_at as applied_at
	`
	return hasRow(ctx, session, query, map[string]interface{}{"version": SchemaVersion})
}

// EnsureSchema creates the constraints and indexes the export relies on and
// records the schema version. Every statement is idempotent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for i, m := range migrations {
		r.logger.Info("Running migration",
			zap.Int("step", i+1),
			zap.Int("total", len(migrations)),
			zap.String("name", m.name),
		)
		for _, stmt := range splitStatements(m.query) {
			if err := runAndConsume(ctx, session, stmt, nil); err != nil {
				return err
			}
		}
	}

	mark := `
		MERGE (m:Migration {version: $version})
		SET m.applied_at = datetime(),
		    m.description = 'Session, word and sentiment day nodes for the HIFIS export'
	`
	return runAndConsume(ctx, session, mark, map[string]interface{}{"version": SchemaVersion})
}

// splitStatements splits a Cypher script on semicolons and drops // comments
func splitStatements(script string) []string {
	lines := strings.Split(script, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "//"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}

	var statements []string
	for _, part := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
