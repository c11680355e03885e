// Package keywords flags user messages that touch on the data categories the
// service collects, so users can see what is being gathered.
package keywords

import (
	"strings"

	"bella-chat/backend/internal/state"
)

// Category is a data collection category
type Category string

const (
	Socioeconomic Category = "socioeconomic"
	Geospatial    Category = "geospatial"
	Behavioral    Category = "behavioral"
)

// Categories lists every category in notification order
var Categories = []Category{Socioeconomic, Geospatial, Behavioral}

var socioeconomicKeywords = []string{
	"job", "work", "career", "unemployed", "school", "education", "degree",
	"income", "earnings", "salary", "wage", "family", "finance", "assets", "debt",
	"housing", "shelter", "accommodation", "services", "social services", "legal", "support",
	"jobless", "employed", "student", "graduate", "pay", "earn", "livelihood", "rent",
	"mortgage", "landlord", "rental", "utilities", "bills", "welfare", "benefits", "aid",
	"food", "nutrition", "groceries", "medical bills", "insurance", "pension", "savings",
	"eviction", "foreclosure", "homeless", "homelessness", "crisis", "struggle", "emergency",
}

var geospatialKeywords = []string{
	"shelter", "population", "people", "community", "assistance", "aid",
	"hospital", "clinic", "facility", "services", "food", "pantry", "store",
	"crime", "safety", "security", "affordable housing", "location", "proximity",
	"nearby", "surroundings", "neighborhood", "district", "zone", "town", "city",
	"vulnerable", "at-risk", "unsafe", "high-risk", "rough", "poverty", "urban", "rural",
}

var behavioralKeywords = []string{
	"addiction", "substance", "drug", "alcohol", "mental health", "anxiety", "depression",
	"psychological", "therapy", "counseling", "support", "interaction", "relationship",
	"employment", "job", "career", "seeking", "transportation", "routine", "habit",
	"risk", "relapse", "coping", "mechanism", "engagement", "activity", "exercise",
	"leisure", "hobby", "pastime", "friendship", "socializing", "networking",
	"stress", "trauma", "isolation", "loneliness", "challenges", "struggle", "survival",
}

var keywordsByCategory = map[Category][]string{
	Socioeconomic: socioeconomicKeywords,
	Geospatial:    geospatialKeywords,
	Behavioral:    behavioralKeywords,
}

var notificationText = map[Category]string{
	Socioeconomic: "Detected keywords related to Socioeconomic Data.",
	Geospatial:    "Detected keywords related to Geospatial Data.",
	Behavioral:    "Detected keywords related to Behavioral Insights.",
}

// Keywords returns a copy of a category's keyword list
func Keywords(c Category) []string {
	return append([]string(nil), keywordsByCategory[c]...)
}

// Text returns the notification shown for a category
func (c Category) Text() string {
	return notificationText[c]
}

// Notification reports one category hit for one transcript message
type Notification struct {
	Category     Category `json:"category"`
	MessageIndex int      `json:"message_index"`
	Text         string   `json:"text"`
}

// Detect returns the categories with at least one keyword occurring in the
// lowercased message. Matching is by substring, so "rent" also fires on
// "parent" and "aid" on "said".
func Detect(message string) []Category {
	lower := strings.ToLower(message)
	var hits []Category
	for _, c := range Categories {
		for _, kw := range keywordsByCategory[c] {
			if strings.Contains(lower, kw) {
				hits = append(hits, c)
				break
			}
		}
	}
	return hits
}

// Scan runs Detect over every user message of a transcript. Assistant
// messages are never scanned.
func Scan(messages []state.Message) []Notification {
	var out []Notification
	for i, m := range messages {
		if m.Role != state.RoleUser {
			continue
		}
		for _, c := range Detect(m.Content) {
			out = append(out, Notification{Category: c, MessageIndex: i, Text: c.Text()})
		}
	}
	return out
}
