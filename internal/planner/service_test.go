package planner_test

import (
	"strings"
	"testing"
	"time"

	"planner-go/internal/backup"
	"planner-go/internal/database"
	"planner-go/internal/planner"
	"planner-go/internal/rules"
	"planner-go/internal/testutil"
)

func newTestService(t *testing.T) *planner.Service {
	t.Helper()
	store, err := database.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return planner.NewService(store, planner.NewNopLogger(), testutil.FixedClock(),
		testutil.NewStubIDGenerator(), "0.1.0")
}

func mustCreateProject(t *testing.T, svc *planner.Service) string {
	t.Helper()
	id, err := svc.CreateProject("Home Renovation", "usd")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	return id
}

func mustCreateRoom(t *testing.T, svc *planner.Service, projectID, name string) string {
	t.Helper()
	id, err := svc.CreateRoom(projectID, name)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	return id
}

func TestCreateProject_Defaults(t *testing.T) {
	svc := newTestService(t)

	id := mustCreateProject(t, svc)

	project, err := svc.GetProject(id)
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if project == nil {
		t.Fatal("GetProject() = nil")
	}
	if project.Currency != "USD" {
		t.Errorf("Currency = %q, want USD (uppercased)", project.Currency)
	}
	if project.HomeLayout != "standard" || project.ThemePreference != "system" {
		t.Errorf("defaults = %s/%s, want standard/system", project.HomeLayout, project.ThemePreference)
	}
	if project.CreatedAt != "2024-01-15T10:30:00.000Z" {
		t.Errorf("CreatedAt = %q, want fixed clock timestamp", project.CreatedAt)
	}
}

func TestCreateProject_Validation(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreateProject("   ", "USD"); err == nil || err.Error() != "Project name is required" {
		t.Errorf("blank name error = %v", err)
	}
	if _, err := svc.CreateProject(strings.Repeat("x", 121), "USD"); err == nil {
		t.Error("CreateProject() accepted overlong name")
	}
}

func TestCreateRoom_Validation(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)

	if _, err := svc.CreateRoom(projectID, ""); err == nil || err.Error() != "Room name is required" {
		t.Errorf("blank name error = %v", err)
	}
	if _, err := svc.CreateRoom(projectID, "Kitchen"); err != nil {
		t.Errorf("CreateRoom() error = %v", err)
	}
}

func taskInput(roomID, title string) rules.TaskInput {
	return rules.TaskInput{
		RoomID:   roomID,
		Title:    title,
		Phase:    "plan",
		Status:   "ready",
		Priority: "medium",
	}
}

func TestCreateTask_RejectsWaitingWithoutReason(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)
	roomID := mustCreateRoom(t, svc, projectID, "Kitchen")

	input := taskInput(roomID, "Install sink")
	input.Status = "waiting"
	_, err := svc.CreateTask(projectID, input, nil, nil)
	if err == nil || err.Error() != "Waiting reason is required when status is waiting" {
		t.Errorf("CreateTask() error = %v", err)
	}
}

func TestExportBackup(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)
	roomID := mustCreateRoom(t, svc, projectID, "Kitchen")
	if _, err := svc.CreateTask(projectID, taskInput(roomID, "Install sink"), nil, nil); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	doc, err := svc.ExportBackup(projectID)
	if err != nil {
		t.Fatalf("ExportBackup() error = %v", err)
	}
	if doc.SchemaVersion != backup.SchemaVersion {
		t.Errorf("SchemaVersion = %q, want %q", doc.SchemaVersion, backup.SchemaVersion)
	}
	if doc.AppVersion != "0.1.0" {
		t.Errorf("AppVersion = %q, want 0.1.0", doc.AppVersion)
	}
	if doc.ProjectID != projectID {
		t.Errorf("ProjectID = %q, want %q", doc.ProjectID, projectID)
	}
	if doc.ExportedAt != "2024-01-15T10:30:00.000Z" {
		t.Errorf("ExportedAt = %q, want fixed clock timestamp", doc.ExportedAt)
	}
	if len(doc.Warnings) != 1 || doc.Warnings[0] != backup.UnencryptedWarning {
		t.Errorf("Warnings = %v, want the unencrypted warning", doc.Warnings)
	}
	if got := doc.Payload.TotalRows(); got != 3 {
		t.Errorf("TotalRows() = %d, want 3 (project, room, task)", got)
	}

	if result := backup.Validate(doc); !result.OK {
		t.Errorf("exported document failed validation: %s", result.Reason)
	}
}

func TestExportBackup_MissingProject(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ExportBackup("project-99")
	if err == nil || err.Error() != "project not found: project-99" {
		t.Errorf("ExportBackup() error = %v", err)
	}
}

func TestRestoreBackup_RejectsInvalidDocument(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)

	err := svc.RestoreBackup(projectID, "not an object")
	if err == nil || err.Error() != "Backup must be a JSON object" {
		t.Errorf("RestoreBackup() error = %v", err)
	}
}

func TestRestoreBackup_RejectsProjectMismatch(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)

	doc, err := svc.ExportBackup(projectID)
	if err != nil {
		t.Fatalf("ExportBackup() error = %v", err)
	}
	doc.ProjectID = "project-other"
	for i := range doc.Payload.Projects {
		doc.Payload.Projects[i]["id"] = "project-other"
	}

	err = svc.RestoreBackup(projectID, doc)
	if err == nil || err.Error() != "Backup projectId does not match active project" {
		t.Errorf("RestoreBackup() error = %v", err)
	}
}

func TestRestoreBackup_RoundTripWithSnapshot(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)
	mustCreateRoom(t, svc, projectID, "Kitchen")

	doc, err := svc.ExportBackup(projectID)
	if err != nil {
		t.Fatalf("ExportBackup() error = %v", err)
	}

	// Drift the live state past the export.
	mustCreateRoom(t, svc, projectID, "Garage")

	if err := svc.RestoreBackup(projectID, doc); err != nil {
		t.Fatalf("RestoreBackup() error = %v", err)
	}

	rooms, err := svc.ListRooms(projectID)
	if err != nil {
		t.Fatalf("ListRooms() error = %v", err)
	}
	if len(rooms) != 1 || rooms[0].Name != "Kitchen" {
		t.Fatalf("ListRooms() after restore = %+v, want only Kitchen", rooms)
	}

	snapshots, err := svc.ListSnapshots(projectID)
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("len(ListSnapshots()) = %d, want 1", len(snapshots))
	}
	if !strings.HasPrefix(snapshots[0].ID, "backup_snapshot-") {
		t.Errorf("snapshot id = %q, want backup_snapshot prefix", snapshots[0].ID)
	}
}

func TestSelectQuote(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)

	quoteInput := rules.QuoteInput{Title: "Full reno", BuilderName: "ABC Builders", Amount: 25000, Currency: "usd"}
	first, err := svc.CreateQuote(projectID, quoteInput, nil)
	if err != nil {
		t.Fatalf("CreateQuote() error = %v", err)
	}
	second, err := svc.CreateQuote(projectID, quoteInput, nil)
	if err != nil {
		t.Fatalf("CreateQuote() error = %v", err)
	}

	if err := svc.SelectQuote(projectID, first); err != nil {
		t.Fatalf("SelectQuote() error = %v", err)
	}
	if err := svc.SelectQuote(projectID, second); err != nil {
		t.Fatalf("SelectQuote() error = %v", err)
	}

	quotes, err := svc.ListQuotes(projectID)
	if err != nil {
		t.Fatalf("ListQuotes() error = %v", err)
	}
	for _, q := range quotes {
		switch q.ID {
		case second:
			if q.Status != "selected" {
				t.Errorf("quote %s status = %q, want selected", q.ID, q.Status)
			}
		default:
			if q.Status == "selected" {
				t.Errorf("quote %s still selected", q.ID)
			}
		}
	}
}

func TestNextTasks(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)
	roomID := mustCreateRoom(t, svc, projectID, "Kitchen")

	overdue := "2024-01-10T00:00:00.000Z"
	input := taskInput(roomID, "Overdue job")
	input.Priority = "high"
	if _, err := svc.CreateTask(projectID, input, &overdue, nil); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if _, err := svc.CreateTask(projectID, taskInput(roomID, "No deadline"), nil, nil); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	doneInput := taskInput(roomID, "Finished job")
	doneInput.Status = "done"
	if _, err := svc.CreateTask(projectID, doneInput, nil, nil); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	recommended, err := svc.NextTasks(projectID, 3)
	if err != nil {
		t.Fatalf("NextTasks() error = %v", err)
	}
	if len(recommended) != 2 {
		t.Fatalf("len(NextTasks()) = %d, want 2 (done task excluded)", len(recommended))
	}
	if recommended[0].Title != "Overdue job" {
		t.Errorf("top recommendation = %q, want the overdue high-priority task", recommended[0].Title)
	}
}

func TestCostInsights(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)
	roomID := mustCreateRoom(t, svc, projectID, "Kitchen")

	expense := rules.ExpenseInput{Category: "plumbing", Amount: 500, IncurredOn: "2024-01-10"}
	if _, err := svc.CreateExpense(projectID, expense, &roomID, nil); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	summary, err := svc.CostInsights(projectID, 5)
	if err != nil {
		t.Fatalf("CostInsights() error = %v", err)
	}
	if summary.ProjectActual != 500 {
		t.Errorf("ProjectActual = %v, want 500", summary.ProjectActual)
	}
	if len(summary.RoomRisks) != 1 {
		t.Fatalf("len(RoomRisks) = %d, want 1", len(summary.RoomRisks))
	}
	if summary.RoomRisks[0].Risk != rules.RiskHigh {
		t.Errorf("room risk = %q, want high (spend without budget baseline)", summary.RoomRisks[0].Risk)
	}

	// Second call with identical inputs must serve the memoized summary.
	again, err := svc.CostInsights(projectID, 5)
	if err != nil {
		t.Fatalf("CostInsights() error = %v", err)
	}
	if again != summary {
		t.Error("CostInsights() rebuilt an identical summary instead of reusing the cache")
	}
}

func TestClearProjectData(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)
	mustCreateRoom(t, svc, projectID, "Kitchen")

	if err := svc.ClearProjectData(projectID); err != nil {
		t.Fatalf("ClearProjectData() error = %v", err)
	}

	rooms, err := svc.ListRooms(projectID)
	if err != nil {
		t.Fatalf("ListRooms() error = %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("len(ListRooms()) = %d, want 0", len(rooms))
	}
	project, err := svc.GetProject(projectID)
	if err != nil || project == nil {
		t.Fatalf("GetProject() = %v, %v, want surviving project", project, err)
	}
}

func TestServiceTimestampsFollowClock(t *testing.T) {
	clock := testutil.FixedClock()
	store, err := database.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	defer store.Close()
	svc := planner.NewService(store, planner.NewNopLogger(), clock,
		testutil.NewStubIDGenerator(), "0.1.0")

	first := mustCreateProject(t, svc)
	clock.Advance(90 * time.Minute)
	second, err := svc.CreateProject("Second", "EUR")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	p1, _ := svc.GetProject(first)
	p2, _ := svc.GetProject(second)
	if p1.CreatedAt != "2024-01-15T10:30:00.000Z" {
		t.Errorf("first CreatedAt = %q", p1.CreatedAt)
	}
	if p2.CreatedAt != "2024-01-15T12:00:00.000Z" {
		t.Errorf("second CreatedAt = %q", p2.CreatedAt)
	}
}

func searchFixture(t *testing.T) (*planner.Service, string) {
	t.Helper()
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)
	kitchenID := mustCreateRoom(t, svc, projectID, "Kitchen")
	bathID := mustCreateRoom(t, svc, projectID, "Bathroom")

	if _, err := svc.CreateTask(projectID, taskInput(kitchenID, "Kitchen"), nil, nil); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if _, err := svc.CreateTask(projectID, taskInput(kitchenID, "Paint kitchen walls"), nil, nil); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if _, err := svc.CreateTask(projectID, taskInput(bathID, "Seal shower tray"), nil, nil); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	event := rules.EventInput{Type: "appointment", Title: "Kitchen fitter visit",
		StartsAt: "2024-01-20T09:00:00.000Z"}
	if _, err := svc.CreateEvent(projectID, event, &kitchenID, nil); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	expense := rules.ExpenseInput{Category: "plumbing", Vendor: "Kitchen Supplies Ltd",
		Amount: 250, IncurredOn: "2024-01-10"}
	if _, err := svc.CreateExpense(projectID, expense, &bathID, nil); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	return svc, projectID
}

func TestSearch_RanksExactTitleFirst(t *testing.T) {
	svc, projectID := searchFixture(t)

	got, err := svc.Search(projectID, rules.SearchParams{Query: "kitchen"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Search() returned no results")
	}
	if got[0].Title != "Kitchen" || got[0].Relevance != 100 {
		t.Errorf("top result = %q (relevance %d), want exact title Kitchen at 100",
			got[0].Title, got[0].Relevance)
	}
	for _, result := range got {
		if result.Title == "Seal shower tray" {
			t.Error("Search() matched a task with no kitchen terms")
		}
	}
}

func TestSearch_MatchesRoomNameVendorAndSubtype(t *testing.T) {
	svc, projectID := searchFixture(t)

	got, err := svc.Search(projectID, rules.SearchParams{Query: "kitchen"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	kinds := map[string]bool{}
	for _, result := range got {
		kinds[result.Kind] = true
	}
	for _, kind := range []string{"task", "event", "expense"} {
		if !kinds[kind] {
			t.Errorf("Search() results missing kind %q", kind)
		}
	}

	byCategory, err := svc.Search(projectID, rules.SearchParams{Query: "plumbing"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Kind != "expense" {
		t.Fatalf("category search = %+v, want the single plumbing expense", byCategory)
	}
	if byCategory[0].Relevance != 100 {
		t.Errorf("category relevance = %d, want 100 (exact match)", byCategory[0].Relevance)
	}
	if byCategory[0].Amount != 250 {
		t.Errorf("Amount = %v, want 250", byCategory[0].Amount)
	}
}

func TestSearch_RoomFilterNarrowsResults(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)
	kitchenID := mustCreateRoom(t, svc, projectID, "Kitchen")
	bathID := mustCreateRoom(t, svc, projectID, "Bathroom")

	if _, err := svc.CreateTask(projectID, taskInput(kitchenID, "Fit worktop"), nil, nil); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if _, err := svc.CreateTask(projectID, taskInput(bathID, "Fit shower screen"), nil, nil); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	got, err := svc.Search(projectID, rules.SearchParams{Query: "fit", RoomID: bathID})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Fit shower screen" {
		t.Fatalf("filtered results = %+v, want only the bathroom task", got)
	}
}

func TestSearch_ExpenseDateRange(t *testing.T) {
	svc := newTestService(t)
	projectID := mustCreateProject(t, svc)

	early := rules.ExpenseInput{Category: "flooring", Amount: 100, IncurredOn: "2024-01-05"}
	late := rules.ExpenseInput{Category: "flooring", Amount: 200, IncurredOn: "2024-02-05"}
	if _, err := svc.CreateExpense(projectID, early, nil, nil); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if _, err := svc.CreateExpense(projectID, late, nil, nil); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	got, err := svc.Search(projectID, rules.SearchParams{
		Query: "flooring", DateFrom: "2024-02-01", DateTo: "2024-02-28"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].Amount != 200 {
		t.Fatalf("date-filtered results = %+v, want only the February expense", got)
	}
}
