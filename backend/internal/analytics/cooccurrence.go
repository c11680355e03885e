// Package analytics builds the two analytics views over a chat transcript:
// the word co-occurrence graph and the daily sentiment trend.
package analytics

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"bella-chat/backend/internal/state"
)

// Edge is an undirected weighted word pair. Source sorts before Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// CooccurrenceGraph is an undirected graph over the distinct lowercase words
// of a transcript. Two distinct words share an edge when they appear in the
// same message; the weight counts the position pairs that produced it.
type CooccurrenceGraph struct {
	g     *simple.WeightedUndirectedGraph
	ids   map[string]int64
	words map[int64]string
}

// Tokenize lowercases content and splits it on whitespace. Punctuation stays
// attached to its word.
func Tokenize(content string) []string {
	return strings.Fields(strings.ToLower(content))
}

// BuildCooccurrence builds the graph from scratch for a transcript.
//
// Tokens are not de-duplicated within a message: "a b a" yields weight 2 for
// (a, b) because both position pairs (0,1) and (1,2) count.
func BuildCooccurrence(messages []state.Message) *CooccurrenceGraph {
	cg := &CooccurrenceGraph{
		g:     simple.NewWeightedUndirectedGraph(0, 0),
		ids:   make(map[string]int64),
		words: make(map[int64]string),
	}

	for _, m := range messages {
		words := Tokenize(m.Content)
		nodes := make([]graph.Node, len(words))
		for i, w := range words {
			nodes[i] = cg.node(w)
		}
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				if nodes[i].ID() == nodes[j].ID() {
					continue
				}
				cg.increment(nodes[i], nodes[j])
			}
		}
	}
	return cg
}

// node returns the graph node for word, adding it on first sight
func (cg *CooccurrenceGraph) node(word string) graph.Node {
	if id, ok := cg.ids[word]; ok {
		return cg.g.Node(id)
	}
	n := cg.g.NewNode()
	cg.g.AddNode(n)
	cg.ids[word] = n.ID()
	cg.words[n.ID()] = word
	return n
}

func (cg *CooccurrenceGraph) increment(u, v graph.Node) {
	w, _ := cg.g.Weight(u.ID(), v.ID())
	cg.g.SetWeightedEdge(cg.g.NewWeightedEdge(u, v, w+1))
}

// NodeCount returns the number of distinct words
func (cg *CooccurrenceGraph) NodeCount() int {
	return cg.g.Nodes().Len()
}

// EdgeCount returns the number of distinct word pairs
func (cg *CooccurrenceGraph) EdgeCount() int {
	return cg.g.WeightedEdges().Len()
}

// HasNode reports whether word is a node
func (cg *CooccurrenceGraph) HasNode(word string) bool {
	_, ok := cg.ids[word]
	return ok
}

// HasEdge reports whether a and b co-occur; argument order does not matter
func (cg *CooccurrenceGraph) HasEdge(a, b string) bool {
	ida, okA := cg.ids[a]
	idb, okB := cg.ids[b]
	if !okA || !okB || ida == idb {
		return false
	}
	return cg.g.HasEdgeBetween(ida, idb)
}

// Weight returns the weight of edge (a, b), zero when absent
func (cg *CooccurrenceGraph) Weight(a, b string) int {
	if !cg.HasEdge(a, b) {
		return 0
	}
	return int(cg.g.WeightedEdge(cg.ids[a], cg.ids[b]).Weight())
}

// Nodes returns the words sorted
func (cg *CooccurrenceGraph) Nodes() []string {
	out := make([]string, 0, len(cg.words))
	for _, w := range cg.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Edges returns the edges sorted by source then target
func (cg *CooccurrenceGraph) Edges() []Edge {
	it := cg.g.WeightedEdges()
	out := make([]Edge, 0, it.Len())
	for it.Next() {
		e := it.WeightedEdge()
		a, b := cg.words[e.From().ID()], cg.words[e.To().ID()]
		if b < a {
			a, b = b, a
		}
		out = append(out, Edge{Source: a, Target: b, Weight: int(e.Weight())})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// TopEdges returns up to n edges with the highest weight, ties broken by
// word order
func (cg *CooccurrenceGraph) TopEdges(n int) []Edge {
	edges := cg.Edges()
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})
	if n >= 0 && len(edges) > n {
		edges = edges[:n]
	}
	return edges
}

// GraphSnapshot is the serializable form of a graph
type GraphSnapshot struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// Snapshot returns the sorted nodes and edges
func (cg *CooccurrenceGraph) Snapshot() GraphSnapshot {
	return GraphSnapshot{Nodes: cg.Nodes(), Edges: cg.Edges()}
}
