package rules

import (
	"sort"
	"time"
)

// NextTaskCandidate is a task eligible for the "what should I do next"
// recommendation, with just enough context to score it.
type NextTaskCandidate struct {
	ID        string
	Title     string
	RoomName  string
	Status    string
	Phase     string
	DueAt     *string
	Priority  string
	SortIndex int64
	UpdatedAt string
}

// RecommendedTask is a scored candidate with the reasons behind the score.
type RecommendedTask struct {
	ID       string
	Title    string
	RoomName string
	Status   string
	Phase    string
	DueAt    *string
	Score    int
	Reasons  []string
}

var phaseRank = map[string]int{
	"plan":         1,
	"buy":          2,
	"prep":         3,
	"install":      4,
	"finish":       5,
	"inspect_snag": 6,
}

var priorityScore = map[string]int{
	"high":   24,
	"medium": 12,
	"low":    4,
}

func dueScore(dueAt *string, now time.Time) int {
	if dueAt == nil || *dueAt == "" {
		return 0
	}
	due, ok := parseFlexibleTime(*dueAt)
	if !ok {
		return 0
	}
	hours := due.Sub(now).Hours()
	switch {
	case hours < 0:
		return 60
	case hours <= 24:
		return 40
	case hours <= 72:
		return 24
	default:
		return 8
	}
}

func hasEarlierPhaseBlocker(candidate NextTaskCandidate, all []NextTaskCandidate) bool {
	currentRank, ok := phaseRank[candidate.Phase]
	if !ok {
		currentRank = 99
	}
	for _, task := range all {
		if task.RoomName != candidate.RoomName || task.ID == candidate.ID || task.Status == "done" {
			continue
		}
		rank, ok := phaseRank[task.Phase]
		if !ok {
			rank = 99
		}
		if rank < currentRank {
			return true
		}
	}
	return false
}

func scoreCandidate(candidate NextTaskCandidate, all []NextTaskCandidate, now time.Time) RecommendedTask {
	var reasons []string
	score := 0

	switch candidate.Status {
	case "in_progress":
		score += 36
		reasons = append(reasons, "Already in progress")
	case "ready":
		score += 24
		reasons = append(reasons, "Ready to start")
	case "ideas":
		score += 6
	}

	due := dueScore(candidate.DueAt, now)
	score += due
	switch {
	case due >= 60:
		reasons = append(reasons, "Overdue")
	case due >= 40:
		reasons = append(reasons, "Due within 24h")
	case due >= 24:
		reasons = append(reasons, "Due within 72h")
	}

	score += priorityScore[candidate.Priority]
	if candidate.Priority == "high" {
		reasons = append(reasons, "High priority")
	}

	if hasEarlierPhaseBlocker(candidate, all) {
		score -= 16
		reasons = append(reasons, "Earlier phase work still open")
	} else {
		score += 8
	}

	return RecommendedTask{
		ID:       candidate.ID,
		Title:    candidate.Title,
		RoomName: candidate.RoomName,
		Status:   candidate.Status,
		Phase:    candidate.Phase,
		DueAt:    candidate.DueAt,
		Score:    score,
		Reasons:  reasons,
	}
}

// BuildRecommendedTasks scores all actionable candidates (done and
// waiting tasks are excluded) and returns the top maxItems, highest
// score first, ties broken by the earlier due date.
func BuildRecommendedTasks(candidates []NextTaskCandidate, now time.Time, maxItems int) []RecommendedTask {
	eligible := make([]NextTaskCandidate, 0, len(candidates))
	for _, task := range candidates {
		if task.Status == "done" || task.Status == "waiting" {
			continue
		}
		eligible = append(eligible, task)
	}

	scored := make([]RecommendedTask, len(eligible))
	for i, task := range eligible {
		scored[i] = scoreCandidate(task, eligible, now)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return dueTime(scored[i].DueAt) < dueTime(scored[j].DueAt)
	})

	if len(scored) > maxItems {
		scored = scored[:maxItems]
	}
	return scored
}

func dueTime(dueAt *string) int64 {
	if dueAt == nil || *dueAt == "" {
		return int64(1) << 62
	}
	t, ok := parseFlexibleTime(*dueAt)
	if !ok {
		return int64(1) << 62
	}
	return t.UnixMilli()
}

var flexibleTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseFlexibleTime accepts the timestamp shapes that occur in stored
// rows: full ISO datetimes with or without fractional seconds, and
// bare dates.
func parseFlexibleTime(value string) (time.Time, bool) {
	for _, layout := range flexibleTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
