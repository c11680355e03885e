package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bella-chat/backend/internal/state"
)

// fixedScorer returns scores keyed by content
type fixedScorer map[string]float64

func (f fixedScorer) Polarity(text string) float64 {
	return f[text]
}

func clockAt(ts string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse(time.RFC3339, ts)
		return t
	}
}

func TestTrend_MeanOfOneDay(t *testing.T) {
	agg := NewAggregator(fixedScorer{"up": 0.5, "down": -0.5}, clockAt("2024-03-01T10:00:00Z"))

	trend := agg.Trend(userMsgs("up", "down"))
	require.Len(t, trend, 1)
	assert.Equal(t, "2024-03-01", trend[0].Date)
	assert.InDelta(t, 0.0, trend[0].Mean, 1e-9)
	assert.Equal(t, 2, trend[0].Messages)
}

func TestTrend_Empty(t *testing.T) {
	agg := NewAggregator(NewVaderScorer(), nil)
	trend := agg.Trend(nil)
	assert.NotNil(t, trend)
	assert.Empty(t, trend)
}

func TestTrend_ScoresEveryRole(t *testing.T) {
	messages := []state.Message{
		{Role: state.RoleAssistant, Content: "a"},
		{Role: state.RoleUser, Content: "b"},
	}
	agg := NewAggregator(fixedScorer{"a": 1, "b": 0}, clockAt("2024-03-01T23:59:59Z"))

	trend := agg.Trend(messages)
	require.Len(t, trend, 1)
	assert.InDelta(t, 0.5, trend[0].Mean, 1e-9)
	assert.Equal(t, 2, trend[0].Messages)
}

func TestTrend_StampedAtRenderTime(t *testing.T) {
	now := clockAt("2024-03-01T12:00:00Z")()
	agg := NewAggregator(fixedScorer{}, func() time.Time { return now })
	messages := userMsgs("hello")

	first := agg.Trend(messages)
	now = now.Add(48 * time.Hour)
	second := agg.Trend(messages)

	assert.Equal(t, "2024-03-01", first[0].Date)
	assert.Equal(t, "2024-03-03", second[0].Date)
}

func TestVaderScorer_Polarity(t *testing.T) {
	s := NewVaderScorer()

	tests := []struct {
		name string
		text string
		sign int
	}{
		{"neutral", "where is the bus stop", 0},
		{"empty", "", 0},
		{"blank", "   ", 0},
		{"positive", "this is good", 1},
		{"negative", "That was BAD!", -1},
		{"negated", "not good", -1},
		{"strongly positive", "The shelter staff were extremely helpful and kind!", 1},
		{"strongly negative", "I hate this terrible eviction", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Polarity(tt.text)
			assert.GreaterOrEqual(t, got, -1.0)
			assert.LessOrEqual(t, got, 1.0)
			switch tt.sign {
			case 1:
				assert.Greater(t, got, 0.0)
			case -1:
				assert.Less(t, got, 0.0)
			default:
				assert.InDelta(t, 0.0, got, 1e-9)
			}
		})
	}
}

func TestVaderScorer_IntensifierRaisesScore(t *testing.T) {
	s := NewVaderScorer()
	assert.Greater(t, s.Polarity("very good"), s.Polarity("good"))
}
