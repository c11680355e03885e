package analytics

import (
	"sort"
	"time"

	"bella-chat/backend/internal/state"
)

// Scorer assigns a polarity in [-1, 1] to a text; positive is a favorable tone
type Scorer interface {
	Polarity(text string) float64
}

// DailySentiment is the mean polarity of the messages stamped on one date
type DailySentiment struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Mean     float64 `json:"mean"`
	Messages int     `json:"messages"`
}

// Aggregator turns a transcript into a per-day sentiment trend
type Aggregator struct {
	scorer Scorer
	now    func() time.Time
}

// NewAggregator creates an aggregator. now defaults to time.Now.
func NewAggregator(scorer Scorer, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{scorer: scorer, now: now}
}

// Trend scores every message and averages the scores per calendar date.
//
// Messages carry no send time, so every message is stamped with a single
// clock reading taken when the trend is rendered. A whole transcript
// therefore always lands on one date.
func (a *Aggregator) Trend(messages []state.Message) []DailySentiment {
	if len(messages) == 0 {
		return []DailySentiment{}
	}

	stamp := a.now()
	type acc struct {
		sum   float64
		count int
	}
	byDate := make(map[string]*acc)
	for _, m := range messages {
		date := stamp.Format("2006-01-02")
		entry, ok := byDate[date]
		if !ok {
			entry = &acc{}
			byDate[date] = entry
		}
		entry.sum += a.scorer.Polarity(m.Content)
		entry.count++
	}

	out := make([]DailySentiment, 0, len(byDate))
	for date, entry := range byDate {
		out = append(out, DailySentiment{
			Date:     date,
			Mean:     entry.sum / float64(entry.count),
			Messages: entry.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
