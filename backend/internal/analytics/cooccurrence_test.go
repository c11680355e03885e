package analytics

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bella-chat/backend/internal/state"
)

func userMsgs(contents ...string) []state.Message {
	out := make([]state.Message, 0, len(contents))
	for _, c := range contents {
		out = append(out, state.Message{Role: state.RoleUser, Content: c})
	}
	return out
}

func TestBuildCooccurrence_Empty(t *testing.T) {
	g := BuildCooccurrence(nil)
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.Nodes())
	assert.Empty(t, g.Edges())
}

func TestBuildCooccurrence_RepeatedWord(t *testing.T) {
	g := BuildCooccurrence(userMsgs("a b a"))

	assert.Equal(t, []string{"a", "b"}, g.Nodes())
	assert.Equal(t, 2, g.Weight("a", "b"))
	assert.Equal(t, 2, g.Weight("b", "a"))
	assert.False(t, g.HasEdge("a", "a"))
	assert.Equal(t, 1, g.EdgeCount())
}

func TestBuildCooccurrence_AcrossMessages(t *testing.T) {
	g := BuildCooccurrence(userMsgs("House rent", "house RENT"))

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 2, g.Weight("house", "rent"))
}

func TestBuildCooccurrence_NodesAreDistinctTokens(t *testing.T) {
	messages := []state.Message{
		{Role: state.RoleAssistant, Content: "How may I assist you today?"},
		{Role: state.RoleUser, Content: "I need help, today."},
	}
	g := BuildCooccurrence(messages)

	assert.Equal(t, []string{"assist", "help,", "how", "i", "may", "need", "today.", "today?", "you"}, g.Nodes())
	assert.True(t, g.HasNode("help,"))
	assert.False(t, g.HasNode("help"))
	// words only meet inside one message
	assert.False(t, g.HasEdge("assist", "need"))
	// "i" appears in both messages
	assert.Equal(t, 1, g.Weight("i", "assist"))
	assert.Equal(t, 1, g.Weight("i", "need"))
}

func TestBuildCooccurrence_OrderIndependent(t *testing.T) {
	forward := BuildCooccurrence(userMsgs("food bank near me", "rent is due", "food and rent"))
	reversed := BuildCooccurrence(userMsgs("food and rent", "rent is due", "food bank near me"))

	assert.Equal(t, forward.Snapshot(), reversed.Snapshot())
}

func TestEdges_Sorted(t *testing.T) {
	g := BuildCooccurrence(userMsgs("c a b"))
	edges := g.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, Edge{Source: "a", Target: "b", Weight: 1}, edges[0])
	assert.Equal(t, Edge{Source: "a", Target: "c", Weight: 1}, edges[1])
	assert.Equal(t, Edge{Source: "b", Target: "c", Weight: 1}, edges[2])
}

func TestTopEdges(t *testing.T) {
	g := BuildCooccurrence(userMsgs("x y", "x y", "x z"))

	top := g.TopEdges(1)
	require.Len(t, top, 1)
	assert.Equal(t, Edge{Source: "x", Target: "y", Weight: 2}, top[0])

	assert.Len(t, g.TopEdges(10), 2)
}

func TestBuildCooccurrence_MatchesIndependentCount(t *testing.T) {
	vocabulary := []string{"House", "house", "rent", "RENT,", "food", "bank", "shelter", "a", "b", "Éviction"}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		var contents []string
		for m := rng.Intn(6); m > 0; m-- {
			words := make([]string, rng.Intn(8))
			for i := range words {
				words[i] = vocabulary[rng.Intn(len(vocabulary))]
			}
			contents = append(contents, strings.Join(words, strings.Repeat(" ", 1+rng.Intn(2))))
		}

		nodes := map[string]bool{}
		weights := map[[2]string]int{}
		for _, c := range contents {
			tokens := strings.Fields(strings.ToLower(c))
			for i, a := range tokens {
				nodes[a] = true
				for _, b := range tokens[i+1:] {
					if a == b {
						continue
					}
					if b < a {
						a, b = b, a
					}
					weights[[2]string{a, b}]++
					a = tokens[i]
				}
			}
		}
		wantNodes := make([]string, 0, len(nodes))
		for n := range nodes {
			wantNodes = append(wantNodes, n)
		}
		sort.Strings(wantNodes)

		g := BuildCooccurrence(userMsgs(contents...))
		require.Equal(t, wantNodes, g.Nodes(), "transcript %q", contents)
		require.Equal(t, len(wantNodes), g.NodeCount())
		require.Equal(t, len(weights), g.EdgeCount(), "transcript %q", contents)
		for _, e := range g.Edges() {
			assert.NotEqual(t, e.Source, e.Target)
			assert.Equal(t, weights[[2]string{e.Source, e.Target}], e.Weight, "edge %s-%s", e.Source, e.Target)
		}
	}
}
