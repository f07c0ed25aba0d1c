package planner

import (
	"planner-go/internal/backup"
	"planner-go/internal/model"
	"planner-go/internal/rules"
)

// Store provides persistence for all nine project-scoped collections
// plus backup snapshots. Multi-statement methods run inside a single
// exclusive transaction and roll back fully on failure.
type Store interface {
	// Project operations

	// CreateProject inserts a new project row.
	CreateProject(project *model.Project) error

	// GetProject returns a project by id, or nil when not found.
	GetProject(id string) (*model.Project, error)

	// ListProjects returns all projects ordered by creation time.
	ListProjects() ([]*model.Project, error)

	// ClearProjectData deletes every row scoped to the project (the
	// project row itself survives with a reset budget).
	ClearProjectData(projectID string, now string) error

	// Room operations

	CreateRoom(room *model.Room) error
	ListRooms(projectID string) ([]*model.Room, error)

	// DeleteRoom removes the room and everything hanging off it:
	// tasks, their tag links, room-scoped events/expenses/attachments/
	// quotes, and tags left orphaned by the removal.
	DeleteRoom(projectID, roomID string) error

	// Task operations

	// CreateTask inserts the task and replaces its tag links in one
	// transaction. The store assigns the next sort index in the room.
	CreateTask(task *model.Task, tradeTags, customTags []string) error

	// UpdateTask rewrites the task's editable fields and replaces its
	// tag links in one transaction.
	UpdateTask(task *model.Task, tradeTags, customTags []string) error

	ListTasks(projectID string) ([]*model.Task, error)

	// ListNextTaskCandidates returns non-deleted tasks joined with
	// their room names, as input for the recommendation rules.
	ListNextTaskCandidates(projectID string) ([]rules.NextTaskCandidate, error)

	// SearchRows returns the unscored task, event and expense rows
	// matching the query and filters, joined with their room names.
	SearchRows(projectID string, params rules.SearchParams) ([]rules.SearchResult, error)

	// Event, expense, quote, attachment, tag operations

	CreateEvent(event *model.Event) error
	ListEvents(projectID string) ([]*model.Event, error)
	CreateExpense(expense *model.Expense) error
	ListExpenses(projectID string) ([]*model.Expense, error)
	CreateQuote(quote *model.BuilderQuote) error
	ListQuotes(projectID string) ([]*model.BuilderQuote, error)

	// SelectQuote marks one quote selected and flips any previously
	// selected quote in the project back to received.
	SelectQuote(projectID, quoteID string, now string) error

	CreateAttachment(attachment *model.Attachment) error
	ListAttachments(projectID string) ([]*model.Attachment, error)
	ListTags(projectID string) ([]*model.Tag, error)

	// Cost insight inputs

	// CostInsightRows returns the project's planned/actual totals and
	// per-room budget positions with open/overdue task counts.
	CostInsightRows(projectID string, now string) (planned, actual float64, rooms []rules.RoomCostCandidate, err error)

	// Backup operations

	// ExportProjectRows reads every row belonging to the project across
	// the nine collections inside one read transaction, ordered by
	// primary key. All-or-nothing: no partial payload is returned.
	ExportProjectRows(projectID string) (*backup.Payload, error)

	// RestoreProject atomically persists the pre-restore snapshot,
	// deletes all rows scoped to the snapshot's project, and inserts
	// the document payload, all in one exclusive transaction.
	RestoreProject(snapshot *model.BackupSnapshot, doc *backup.Document) error

	// ListSnapshots returns the most recent snapshots, newest first.
	ListSnapshots(projectID string, limit int) ([]*model.SnapshotInfo, error)

	// Close closes the underlying database connection.
	Close() error
}
