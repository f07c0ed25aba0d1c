package rules

import (
	"sort"
	"strings"
)

// Sort modes accepted by BuildSearchResults.
const (
	SearchSortRelevance = "relevance"
	SearchSortDate      = "date"
	SearchSortUpdated   = "updated"
)

// SearchParams narrows a project search. Empty fields are ignored.
type SearchParams struct {
	Query    string
	RoomID   string
	Status   string
	Phase    string
	Category string
	DateFrom string
	DateTo   string
	SortBy   string
}

// SearchResult is a matched task, event or expense flattened into a
// common shape. Kind is "task", "event" or "expense"; fields that do
// not apply to the kind stay empty.
type SearchResult struct {
	Kind      string
	ID        string
	Title     string
	RoomName  string
	Date      string
	UpdatedAt string
	Status    string
	Phase     string
	Subtype   string
	Amount    float64
	Relevance int
}

// scoreTextMatch ranks how well text matches the query: exact match
// beats prefix, prefix beats contains. Comparison is case-insensitive.
func scoreTextMatch(text, query string) int {
	if text == "" || query == "" {
		return 0
	}
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)
	switch {
	case lowerText == lowerQuery:
		return 100
	case strings.HasPrefix(lowerText, lowerQuery):
		return 50
	case strings.Contains(lowerText, lowerQuery):
		return 20
	default:
		return 0
	}
}

// ScoreSearchResult computes the relevance of a result for the query.
// Title matches count in full, room-name matches at half weight, and
// task results also consider phase and status as secondary fields.
func ScoreSearchResult(result SearchResult, query string) int {
	titleScore := scoreTextMatch(result.Title, query)
	roomScore := scoreTextMatch(result.RoomName, query) / 2

	subtypeScore := 0
	if result.Kind == "task" {
		phaseScore := scoreTextMatch(result.Phase, query)
		statusScore := scoreTextMatch(result.Status, query)
		subtypeScore = phaseScore
		if statusScore > subtypeScore {
			subtypeScore = statusScore
		}
	} else {
		subtypeScore = scoreTextMatch(result.Subtype, query)
	}

	best := titleScore
	if roomScore > best {
		best = roomScore
	}
	if subtypeScore > best {
		best = subtypeScore
	}
	return best
}

// SortSearchResults orders results by the requested mode: "date" puts
// the newest date first, "updated" the most recently updated first,
// and anything else sorts by relevance. Each mode breaks ties with
// the next most useful field; results without a date sort last.
func SortSearchResults(results []SearchResult, sortBy string) []SearchResult {
	sorted := make([]SearchResult, len(results))
	copy(sorted, results)

	switch sortBy {
	case SearchSortDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Date != sorted[j].Date {
				return sorted[i].Date > sorted[j].Date
			}
			return sorted[i].Relevance > sorted[j].Relevance
		})
	case SearchSortUpdated:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].UpdatedAt != sorted[j].UpdatedAt {
				return sorted[i].UpdatedAt > sorted[j].UpdatedAt
			}
			return sorted[i].Relevance > sorted[j].Relevance
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Relevance != sorted[j].Relevance {
				return sorted[i].Relevance > sorted[j].Relevance
			}
			return sorted[i].Date > sorted[j].Date
		})
	}
	return sorted
}

// BuildSearchResults scores every result against the query, sorts by
// the requested mode and returns at most maxItems results.
func BuildSearchResults(results []SearchResult, params SearchParams, maxItems int) []SearchResult {
	scored := make([]SearchResult, len(results))
	for i, result := range results {
		result.Relevance = ScoreSearchResult(result, params.Query)
		scored[i] = result
	}

	sorted := SortSearchResults(scored, params.SortBy)
	if len(sorted) > maxItems {
		sorted = sorted[:maxItems]
	}
	return sorted
}
