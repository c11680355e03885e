package analytics

import (
	"strings"

	"github.com/jonreiter/govader"
)

// VaderScorer scores text with the VADER rule-based model. Polarity is the
// normalized compound score, already within [-1, 1].
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer loads the built-in VADER lexicon
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity implements Scorer. Blank text scores 0.
func (s *VaderScorer) Polarity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return clamp(s.analyzer.PolarityScores(text).Compound)
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
