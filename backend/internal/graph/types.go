package graph

import (
	"sort"

	"bella-chat/backend/internal/analytics"
)

// ExportSummary counts what one PublishSnapshot call wrote
type ExportSummary struct {
	SessionID string `json:"session_id"`
	Words     int    `json:"words"`
	Edges     int    `json:"edges"`
	Days      int    `json:"days"`
}

// StoredSnapshot is a session's exported analytics as read back from Neo4j
type StoredSnapshot struct {
	SessionID string                     `json:"session_id"`
	Graph     analytics.GraphSnapshot    `json:"graph"`
	Trend     []analytics.DailySentiment `json:"trend"`
}

// sort puts the read-back data in the same order analytics produces it
func (s *StoredSnapshot) sort() {
	sort.Strings(s.Graph.Nodes)
	sort.Slice(s.Graph.Edges, func(i, j int) bool {
		a, b := s.Graph.Edges[i], s.Graph.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Target < b.Target
	})
	sort.Slice(s.Trend, func(i, j int) bool { return s.Trend[i].Date < s.Trend[j].Date })
}
