// Package planner is the service layer coordinating storage, business
// rules, and the backup engine for the CLI.
package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"planner-go/internal/backup"
	"planner-go/internal/model"
	"planner-go/internal/rules"
)

// SnapshotListLimit caps the snapshot listing surfaced to the user.
const SnapshotListLimit = 20

// SearchResultLimit caps the combined result set returned by Search.
const SearchResultLimit = 150

// PreRestoreReason tags snapshots taken automatically before a restore.
const PreRestoreReason = "pre_restore"

// isoMillis renders timestamps the way every stored row carries them.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Service coordinates the store, the shared business rules, and the
// backup engine to perform the high-level operations the CLI exposes.
type Service struct {
	store      Store
	logger     Logger
	clock      Clock
	idgen      IDGenerator
	appVersion string

	insightCache rules.InsightCache
}

// NewService creates a Service with the provided dependencies.
// appVersion is stamped into exported backup documents.
func NewService(store Store, logger Logger, clock Clock, idgen IDGenerator, appVersion string) *Service {
	return &Service{
		store:      store,
		logger:     logger,
		clock:      clock,
		idgen:      idgen,
		appVersion: appVersion,
	}
}

func (s *Service) nowISO() string {
	return s.clock.Now().UTC().Format(isoMillis)
}

// Backup operations

// ExportBackup serializes the project's entire dataset into a versioned
// document. The export fails whole when the project is missing or any
// read fails; no partial document is ever returned.
func (s *Service) ExportBackup(projectID string) (*backup.Document, error) {
	project, err := s.store.GetProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("project not found: %s", projectID)
	}

	payload, err := s.store.ExportProjectRows(projectID)
	if err != nil {
		return nil, fmt.Errorf("exporting project rows: %w", err)
	}

	doc := &backup.Document{
		SchemaVersion: backup.SchemaVersion,
		ExportedAt:    s.nowISO(),
		AppVersion:    s.appVersion,
		ProjectID:     projectID,
		Payload:       *payload,
		Warnings:      []string{backup.UnencryptedWarning},
	}
	s.logger.Info("backup exported", "project_id", projectID, "rows", payload.TotalRows())
	return doc, nil
}

// RestoreBackup replaces the project's live dataset with the candidate
// document's contents. Nothing is mutated unless validation passes and
// the document targets this project. A snapshot of the current state is
// persisted in the same transaction as the destructive replace, so a
// failed restore leaves the dataset untouched and a successful one
// always has a recovery point.
func (s *Service) RestoreBackup(projectID string, input any) error {
	result := backup.Validate(input)
	if !result.OK {
		return errors.New(result.Reason)
	}

	doc := result.Backup
	if doc.ProjectID != projectID {
		return errors.New("Backup projectId does not match active project")
	}

	current, err := s.ExportBackup(projectID)
	if err != nil {
		return fmt.Errorf("snapshotting current state: %w", err)
	}
	body, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("serializing pre-restore snapshot: %w", err)
	}

	snapshot := &model.BackupSnapshot{
		ID:         s.idgen.NewID("backup_snapshot"),
		ProjectID:  projectID,
		Reason:     PreRestoreReason,
		BackupJSON: string(body),
		CreatedAt:  s.nowISO(),
	}

	if err := s.store.RestoreProject(snapshot, doc); err != nil {
		return err
	}

	s.logger.Info("backup restored",
		"project_id", projectID,
		"rows", doc.Payload.TotalRows(),
		"snapshot_id", snapshot.ID)
	return nil
}

// ListSnapshots returns the most recent pre-restore snapshots, newest
// first.
func (s *Service) ListSnapshots(projectID string) ([]*model.SnapshotInfo, error) {
	return s.store.ListSnapshots(projectID, SnapshotListLimit)
}

// Project operations

func (s *Service) CreateProject(name, currency string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("Project name is required")
	}
	if err := rules.MaxLength(name, rules.MaxProjectName, "Project name"); err != nil {
		return "", err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	if err := rules.MaxLength(currency, rules.MaxProjectCurrency, "Project currency"); err != nil {
		return "", err
	}

	now := s.nowISO()
	project := &model.Project{
		ID:              s.idgen.NewID("project"),
		Name:            name,
		Currency:        currency,
		HomeLayout:      "standard",
		ThemePreference: "system",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateProject(project); err != nil {
		return "", fmt.Errorf("creating project: %w", err)
	}
	s.logger.Info("project created", "project_id", project.ID, "name", name)
	return project.ID, nil
}

func (s *Service) ListProjects() ([]*model.Project, error) {
	return s.store.ListProjects()
}

func (s *Service) GetProject(projectID string) (*model.Project, error) {
	return s.store.GetProject(projectID)
}

// ClearProjectData wipes every row scoped to the project while keeping
// the project row itself.
func (s *Service) ClearProjectData(projectID string) error {
	if err := s.store.ClearProjectData(projectID, s.nowISO()); err != nil {
		return err
	}
	s.logger.Info("project data cleared", "project_id", projectID)
	return nil
}

// Room operations

func (s *Service) CreateRoom(projectID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("Room name is required")
	}
	if err := rules.MaxLength(name, rules.MaxRoomName, "Room name"); err != nil {
		return "", err
	}

	now := s.nowISO()
	room := &model.Room{
		ID:        s.idgen.NewID("room"),
		ProjectID: projectID,
		Name:      name,
		Type:      "other",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateRoom(room); err != nil {
		return "", fmt.Errorf("creating room: %w", err)
	}
	return room.ID, nil
}

func (s *Service) ListRooms(projectID string) ([]*model.Room, error) {
	return s.store.ListRooms(projectID)
}

func (s *Service) DeleteRoom(projectID, roomID string) error {
	return s.store.DeleteRoom(projectID, roomID)
}

// Task operations

// CreateTask validates the input against the shared business rules and
// inserts the task with its tag links.
func (s *Service) CreateTask(projectID string, input rules.TaskInput, dueAt, startAt *string) (string, error) {
	if err := rules.ValidateTask(&input); err != nil {
		return "", err
	}

	now := s.nowISO()
	task := &model.Task{
		ID:        s.idgen.NewID("task"),
		ProjectID: projectID,
		RoomID:    input.RoomID,
		Title:     strings.TrimSpace(input.Title),
		Phase:     input.Phase,
		Status:    input.Status,
		Priority:  input.Priority,
		DueAt:     dueAt,
		StartAt:   startAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		task.Description = &desc
	}
	if input.Status == "waiting" {
		task.WaitingReason = input.WaitingReason
	}
	if err := s.store.CreateTask(task, input.TradeTags, input.CustomTags); err != nil {
		return "", err
	}
	return task.ID, nil
}

// UpdateTask rewrites the task's editable fields and replaces its tag
// links, after the same rule validation as CreateTask.
func (s *Service) UpdateTask(taskID, projectID string, input rules.TaskInput, dueAt, startAt *string) error {
	if err := rules.ValidateTask(&input); err != nil {
		return err
	}

	task := &model.Task{
		ID:        taskID,
		ProjectID: projectID,
		RoomID:    input.RoomID,
		Title:     strings.TrimSpace(input.Title),
		Phase:     input.Phase,
		Status:    input.Status,
		Priority:  input.Priority,
		DueAt:     dueAt,
		StartAt:   startAt,
		UpdatedAt: s.nowISO(),
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		task.Description = &desc
	}
	if input.Status == "waiting" {
		task.WaitingReason = input.WaitingReason
	}
	return s.store.UpdateTask(task, input.TradeTags, input.CustomTags)
}

func (s *Service) ListTasks(projectID string) ([]*model.Task, error) {
	return s.store.ListTasks(projectID)
}

// NextTasks recommends up to maxItems tasks to work on next.
func (s *Service) NextTasks(projectID string, maxItems int) ([]rules.RecommendedTask, error) {
	candidates, err := s.store.ListNextTaskCandidates(projectID)
	if err != nil {
		return nil, fmt.Errorf("listing task candidates: %w", err)
	}
	return rules.BuildRecommendedTasks(candidates, s.clock.Now(), maxItems), nil
}

// Search matches tasks, events and expenses against the query, scores
// the matches for relevance, and returns them in the requested sort
// order. A blank query with filters still lists matching rows.
func (s *Service) Search(projectID string, params rules.SearchParams) ([]rules.SearchResult, error) {
	matches, err := s.store.SearchRows(projectID, params)
	if err != nil {
		return nil, fmt.Errorf("searching project: %w", err)
	}
	return rules.BuildSearchResults(matches, params, SearchResultLimit), nil
}

// Event operations

func (s *Service) CreateEvent(projectID string, input rules.EventInput, roomID, taskID *string) (string, error) {
	if err := rules.ValidateEvent(input); err != nil {
		return "", err
	}

	now := s.nowISO()
	event := &model.Event{
		ID:        s.idgen.NewID("event"),
		ProjectID: projectID,
		RoomID:    roomID,
		TaskID:    taskID,
		Type:      input.Type,
		Title:     strings.TrimSpace(input.Title),
		StartsAt:  input.StartsAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if company := strings.TrimSpace(input.Company); company != "" {
		event.Company = &company
	}
	if err := s.store.CreateEvent(event); err != nil {
		return "", fmt.Errorf("creating event: %w", err)
	}
	return event.ID, nil
}

func (s *Service) ListEvents(projectID string) ([]*model.Event, error) {
	return s.store.ListEvents(projectID)
}

// Expense operations

func (s *Service) CreateExpense(projectID string, input rules.ExpenseInput, roomID, taskID *string) (string, error) {
	if err := rules.ValidateExpense(input); err != nil {
		return "", err
	}

	now := s.nowISO()
	expense := &model.Expense{
		ID:         s.idgen.NewID("expense"),
		ProjectID:  projectID,
		RoomID:     roomID,
		TaskID:     taskID,
		Category:   input.Category,
		Amount:     input.Amount,
		IncurredOn: input.IncurredOn,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if vendor := strings.TrimSpace(input.Vendor); vendor != "" {
		expense.Vendor = &vendor
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		expense.Notes = &notes
	}
	if err := s.store.CreateExpense(expense); err != nil {
		return "", fmt.Errorf("creating expense: %w", err)
	}
	return expense.ID, nil
}

func (s *Service) ListExpenses(projectID string) ([]*model.Expense, error) {
	return s.store.ListExpenses(projectID)
}

// Quote operations

func (s *Service) CreateQuote(projectID string, input rules.QuoteInput, roomID *string) (string, error) {
	if err := rules.ValidateQuote(input); err != nil {
		return "", err
	}

	now := s.nowISO()
	quote := &model.BuilderQuote{
		ID:          s.idgen.NewID("quote"),
		ProjectID:   projectID,
		RoomID:      roomID,
		Title:       strings.TrimSpace(input.Title),
		BuilderName: strings.TrimSpace(input.BuilderName),
		Amount:      input.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(input.Currency)),
		Status:      "received",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if scope := strings.TrimSpace(input.Scope); scope != "" {
		quote.Scope = &scope
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		quote.Notes = &notes
	}
	if err := s.store.CreateQuote(quote); err != nil {
		return "", fmt.Errorf("creating quote: %w", err)
	}
	return quote.ID, nil
}

func (s *Service) ListQuotes(projectID string) ([]*model.BuilderQuote, error) {
	return s.store.ListQuotes(projectID)
}

// SelectQuote marks a quote as the selected one for its project.
func (s *Service) SelectQuote(projectID, quoteID string) error {
	return s.store.SelectQuote(projectID, quoteID, s.nowISO())
}

// Attachment operations

func (s *Service) AddAttachment(projectID, kind, uri string, roomID, taskID, expenseID *string) (string, error) {
	if strings.TrimSpace(uri) == "" {
		return "", errors.New("Attachment uri is required")
	}
	if err := rules.MaxLength(kind, rules.MaxAttachmentKind, "Attachment kind"); err != nil {
		return "", err
	}
	if err := rules.MaxLength(uri, rules.MaxAttachmentURI, "Attachment uri"); err != nil {
		return "", err
	}

	attachment := &model.Attachment{
		ID:        s.idgen.NewID("attachment"),
		ProjectID: projectID,
		RoomID:    roomID,
		TaskID:    taskID,
		ExpenseID: expenseID,
		Kind:      kind,
		URI:       uri,
		CreatedAt: s.nowISO(),
	}
	if err := s.store.CreateAttachment(attachment); err != nil {
		return "", fmt.Errorf("creating attachment: %w", err)
	}
	return attachment.ID, nil
}

func (s *Service) ListAttachments(projectID string) ([]*model.Attachment, error) {
	return s.store.ListAttachments(projectID)
}

func (s *Service) ListTags(projectID string) ([]*model.Tag, error) {
	return s.store.ListTags(projectID)
}

// Cost insights

// CostInsights assesses budget risk for the project and its rooms. The
// memoization cache lives on the Service, not in package state.
func (s *Service) CostInsights(projectID string, maxRooms int) (*rules.CostInsightSummary, error) {
	planned, actual, rooms, err := s.store.CostInsightRows(projectID, s.nowISO())
	if err != nil {
		return nil, fmt.Errorf("loading cost insight rows: %w", err)
	}
	return rules.BuildCostInsights(&s.insightCache, planned, actual, rooms, maxRooms), nil
}
