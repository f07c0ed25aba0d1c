package rules

import (
	"testing"
	"time"
)

var nextTaskNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func candidate(id, room, phase, status, priority string, dueAt *string) NextTaskCandidate {
	return NextTaskCandidate{
		ID:       id,
		Title:    id,
		RoomName: room,
		Phase:    phase,
		Status:   status,
		Priority: priority,
		DueAt:    dueAt,
	}
}

func strptr(s string) *string { return &s }

func TestBuildRecommendedTasks_ExcludesDoneAndWaiting(t *testing.T) {
	tasks := []NextTaskCandidate{
		candidate("a", "Kitchen", "plan", "ready", "medium", nil),
		candidate("b", "Kitchen", "plan", "done", "high", nil),
		candidate("c", "Kitchen", "plan", "waiting", "high", nil),
	}

	got := BuildRecommendedTasks(tasks, nextTaskNow, 10)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("BuildRecommendedTasks() = %+v, want only task a", got)
	}
}

func TestBuildRecommendedTasks_OverdueOutranksFuture(t *testing.T) {
	tasks := []NextTaskCandidate{
		candidate("future", "Kitchen", "plan", "ready", "medium", strptr("2026-03-20T12:00:00Z")),
		candidate("overdue", "Bath", "plan", "ready", "medium", strptr("2026-02-20T12:00:00Z")),
	}

	got := BuildRecommendedTasks(tasks, nextTaskNow, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "overdue" {
		t.Errorf("top task = %s, want overdue", got[0].ID)
	}
	if !containsReason(got[0].Reasons, "Overdue") {
		t.Errorf("reasons = %v, want Overdue", got[0].Reasons)
	}
}

func TestBuildRecommendedTasks_InProgressOutranksReady(t *testing.T) {
	tasks := []NextTaskCandidate{
		candidate("ready", "Kitchen", "plan", "ready", "medium", nil),
		candidate("started", "Bath", "plan", "in_progress", "medium", nil),
	}

	got := BuildRecommendedTasks(tasks, nextTaskNow, 10)
	if got[0].ID != "started" {
		t.Errorf("top task = %s, want started", got[0].ID)
	}
	if !containsReason(got[0].Reasons, "Already in progress") {
		t.Errorf("reasons = %v, want Already in progress", got[0].Reasons)
	}
}

func TestBuildRecommendedTasks_PenalizesEarlierPhaseInSameRoom(t *testing.T) {
	tasks := []NextTaskCandidate{
		candidate("paint", "Kitchen", "finish", "ready", "medium", nil),
		candidate("wiring", "Kitchen", "prep", "ready", "medium", nil),
	}

	got := BuildRecommendedTasks(tasks, nextTaskNow, 10)
	if got[0].ID != "wiring" {
		t.Errorf("top task = %s, want wiring (earliest open phase)", got[0].ID)
	}
	var paint RecommendedTask
	for _, task := range got {
		if task.ID == "paint" {
			paint = task
		}
	}
	if !containsReason(paint.Reasons, "Earlier phase work still open") {
		t.Errorf("paint reasons = %v, want blocker reason", paint.Reasons)
	}
	if paint.Score >= got[0].Score {
		t.Errorf("blocked score %d not below unblocked %d", paint.Score, got[0].Score)
	}
}

func TestBuildRecommendedTasks_OtherRoomPhasesDoNotBlock(t *testing.T) {
	tasks := []NextTaskCandidate{
		candidate("paint", "Kitchen", "finish", "ready", "medium", nil),
		candidate("wiring", "Bath", "prep", "ready", "medium", nil),
	}

	got := BuildRecommendedTasks(tasks, nextTaskNow, 10)
	for _, task := range got {
		if containsReason(task.Reasons, "Earlier phase work still open") {
			t.Errorf("task %s blocked by another room's phase", task.ID)
		}
	}
}

func TestBuildRecommendedTasks_HighPriorityReason(t *testing.T) {
	tasks := []NextTaskCandidate{
		candidate("urgent", "Kitchen", "plan", "ready", "high", nil),
		candidate("later", "Bath", "plan", "ready", "low", nil),
	}

	got := BuildRecommendedTasks(tasks, nextTaskNow, 10)
	if got[0].ID != "urgent" {
		t.Errorf("top task = %s, want urgent", got[0].ID)
	}
	if !containsReason(got[0].Reasons, "High priority") {
		t.Errorf("reasons = %v, want High priority", got[0].Reasons)
	}
}

func TestBuildRecommendedTasks_TruncatesToMaxItems(t *testing.T) {
	var tasks []NextTaskCandidate
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		tasks = append(tasks, candidate(id, "Room "+id, "plan", "ready", "medium", nil))
	}

	got := BuildRecommendedTasks(tasks, nextTaskNow, 3)
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestBuildRecommendedTasks_TieBreaksByEarlierDue(t *testing.T) {
	tasks := []NextTaskCandidate{
		candidate("later", "Kitchen", "plan", "ready", "medium", strptr("2026-03-01T18:00:00Z")),
		candidate("sooner", "Bath", "plan", "ready", "medium", strptr("2026-03-01T14:00:00Z")),
	}

	got := BuildRecommendedTasks(tasks, nextTaskNow, 10)
	if got[0].Score != got[1].Score {
		t.Fatalf("scores %d vs %d, expected a tie", got[0].Score, got[1].Score)
	}
	if got[0].ID != "sooner" {
		t.Errorf("top task = %s, want sooner", got[0].ID)
	}
}

func TestDueScoreBuckets(t *testing.T) {
	tests := []struct {
		name  string
		dueAt *string
		want  int
	}{
		{"nil", nil, 0},
		{"empty", strptr(""), 0},
		{"unparseable", strptr("someday"), 0},
		{"overdue", strptr("2026-02-28T12:00:00Z"), 60},
		{"within 24h", strptr("2026-03-02T08:00:00Z"), 40},
		{"within 72h", strptr("2026-03-03T12:00:00Z"), 24},
		{"later", strptr("2026-04-01T12:00:00Z"), 8},
		{"bare date", strptr("2026-02-01"), 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dueScore(tt.dueAt, nextTaskNow); got != tt.want {
				t.Errorf("dueScore(%v) = %d, want %d", tt.dueAt, got, tt.want)
			}
		})
	}
}

func TestParseFlexibleTime(t *testing.T) {
	accepted := []string{
		"2026-03-01T12:00:00.000Z",
		"2026-03-01T12:00:00Z",
		"2026-03-01T12:00Z",
		"2026-03-01T12:00:00",
		"2026-03-01 12:00:00",
		"2026-03-01",
	}
	for _, value := range accepted {
		if _, ok := parseFlexibleTime(value); !ok {
			t.Errorf("parseFlexibleTime(%q) = false, want true", value)
		}
	}
	if _, ok := parseFlexibleTime("03/01/2026"); ok {
		t.Error("parseFlexibleTime() accepted slash date")
	}
}

func containsReason(reasons []string, want string) bool {
	for _, reason := range reasons {
		if reason == want {
			return true
		}
	}
	return false
}
