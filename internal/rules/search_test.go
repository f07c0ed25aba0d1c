package rules

import "testing"

func searchTask(id, title, room, phase, status, date, updatedAt string) SearchResult {
	return SearchResult{
		Kind:      "task",
		ID:        id,
		Title:     title,
		RoomName:  room,
		Phase:     phase,
		Status:    status,
		Date:      date,
		UpdatedAt: updatedAt,
	}
}

func TestScoreTextMatchTiers(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  int
	}{
		{"exact", "Kitchen", "kitchen", 100},
		{"prefix", "Kitchen sink", "kitchen", 50},
		{"contains", "Paint kitchen walls", "kitchen", 20},
		{"miss", "Bathroom", "kitchen", 0},
		{"empty text", "", "kitchen", 0},
		{"empty query", "Kitchen", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreTextMatch(tt.text, tt.query); got != tt.want {
				t.Errorf("scoreTextMatch(%q, %q) = %d, want %d", tt.text, tt.query, got, tt.want)
			}
		})
	}
}

func TestScoreSearchResult_ExactTitleBeatsContains(t *testing.T) {
	exact := searchTask("t1", "Kitchen", "", "plan", "ready", "", "")
	contains := searchTask("t2", "Paint kitchen walls", "", "plan", "ready", "", "")

	exactScore := ScoreSearchResult(exact, "kitchen")
	containsScore := ScoreSearchResult(contains, "kitchen")
	if exactScore <= containsScore {
		t.Errorf("exact score %d not above contains score %d", exactScore, containsScore)
	}
	if exactScore != 100 {
		t.Errorf("exact score = %d, want 100", exactScore)
	}
}

func TestScoreSearchResult_RoomNameCountsAtHalfWeight(t *testing.T) {
	result := searchTask("t1", "Order tiles", "Kitchen", "plan", "ready", "", "")
	if got := ScoreSearchResult(result, "kitchen"); got != 50 {
		t.Errorf("ScoreSearchResult() = %d, want 50 (half of exact room match)", got)
	}
}

func TestScoreSearchResult_TaskPhaseAndStatusAreSearchable(t *testing.T) {
	result := searchTask("t1", "Order tiles", "", "install", "ready", "", "")
	if got := ScoreSearchResult(result, "install"); got != 100 {
		t.Errorf("phase match score = %d, want 100", got)
	}
	if got := ScoreSearchResult(result, "ready"); got != 100 {
		t.Errorf("status match score = %d, want 100", got)
	}
}

func TestScoreSearchResult_EventSubtype(t *testing.T) {
	result := SearchResult{Kind: "event", ID: "e1", Title: "Electrician visit", Subtype: "appointment"}
	if got := ScoreSearchResult(result, "appointment"); got != 100 {
		t.Errorf("subtype match score = %d, want 100", got)
	}
}

func TestSortSearchResults_RelevanceThenDate(t *testing.T) {
	results := []SearchResult{
		{Kind: "expense", ID: "x1", Title: "Tiles", Date: "2026-02-20", Relevance: 0},
		{Kind: "event", ID: "e1", Title: "Kitchen fitter", Date: "2026-02-10", Relevance: 20},
	}

	got := SortSearchResults(results, SearchSortRelevance)
	if got[0].ID != "e1" {
		t.Errorf("top result = %s, want e1 (higher relevance despite older date)", got[0].ID)
	}
}

func TestSortSearchResults_DateMode(t *testing.T) {
	results := []SearchResult{
		{Kind: "event", ID: "old", Date: "2026-02-01", Relevance: 100},
		{Kind: "event", ID: "new", Date: "2026-02-15", Relevance: 0},
		{Kind: "task", ID: "undated", Date: "", Relevance: 100},
	}

	got := SortSearchResults(results, SearchSortDate)
	if got[0].ID != "new" || got[1].ID != "old" || got[2].ID != "undated" {
		t.Errorf("date order = %s, %s, %s, want new, old, undated", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSortSearchResults_UpdatedMode(t *testing.T) {
	results := []SearchResult{
		searchTask("t1", "Kitchen prep", "", "prep", "ready", "", "2026-02-08T10:00:00.000Z"),
		searchTask("t2", "Kitchen install", "", "install", "ready", "", "2026-02-09T10:00:00.000Z"),
	}

	got := SortSearchResults(results, SearchSortUpdated)
	if got[0].ID != "t2" {
		t.Errorf("top result = %s, want t2 (most recently updated)", got[0].ID)
	}
}

func TestBuildSearchResults_ScoresSortsAndTruncates(t *testing.T) {
	results := []SearchResult{
		searchTask("t1", "Paint kitchen walls", "", "finish", "ready", "2026-02-05", ""),
		searchTask("t2", "Kitchen", "", "plan", "ready", "2026-02-01", ""),
		searchTask("t3", "Bathroom sealant", "", "finish", "ready", "2026-02-03", ""),
	}

	got := BuildSearchResults(results, SearchParams{Query: "kitchen"}, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "t2" || got[1].ID != "t1" {
		t.Errorf("order = %s, %s, want t2, t1", got[0].ID, got[1].ID)
	}
	if got[0].Relevance != 100 || got[1].Relevance != 20 {
		t.Errorf("relevance = %d, %d, want 100, 20", got[0].Relevance, got[1].Relevance)
	}
}

func TestBuildSearchResults_DoesNotMutateInput(t *testing.T) {
	results := []SearchResult{
		searchTask("t1", "Kitchen", "", "plan", "ready", "2026-02-01", ""),
	}

	BuildSearchResults(results, SearchParams{Query: "kitchen"}, 10)
	if results[0].Relevance != 0 {
		t.Errorf("input relevance mutated to %d", results[0].Relevance)
	}
}
