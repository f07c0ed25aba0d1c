package model

// Project is the aggregate root: every other entity is scoped to exactly
// one project, and backup documents always cover a single project.
type Project struct {
	ID                 string
	Name               string
	Address            *string
	StartDate          *string
	TargetEndDate      *string
	Currency           string
	HomeLayout         string
	ThemePreference    string
	BudgetPlannedTotal float64
	CreatedAt          string
	UpdatedAt          string
	ArchivedAt         *string
}

// Room groups tasks and budgets within a project.
type Room struct {
	ID            string
	ProjectID     string
	Name          string
	Type          string
	Floor         *string
	OrderIndex    int64
	Status        string
	BudgetPlanned float64
	Notes         *string
	CreatedAt     string
	UpdatedAt     string
}

// Task belongs to a project and a room. A task with status "waiting"
// always carries a waiting reason; any other status carries none.
type Task struct {
	ID            string
	ProjectID     string
	RoomID        string
	Title         string
	Description   *string
	Phase         string
	Status        string
	WaitingReason *string
	DueAt         *string
	StartAt       *string
	CompletedAt   *string
	Priority      string
	SortIndex     int64
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     *string
}

// Event is a calendar entry, optionally linked to a room and/or task.
type Event struct {
	ID           string
	ProjectID    string
	RoomID       *string
	TaskID       *string
	Type         string
	Title        string
	Description  *string
	StartsAt     string
	EndsAt       *string
	IsAllDay     bool
	Company      *string
	ContactName  *string
	ContactPhone *string
	CreatedAt    string
	UpdatedAt    string
}

// Expense records money spent, optionally against a room and/or task.
type Expense struct {
	ID         string
	ProjectID  string
	RoomID     *string
	TaskID     *string
	Category   string
	Vendor     *string
	Amount     float64
	TaxAmount  *float64
	IncurredOn string
	Notes      *string
	CreatedAt  string
	UpdatedAt  string
}

// BuilderQuote is a received quote; at most one per project is "selected".
type BuilderQuote struct {
	ID          string
	ProjectID   string
	RoomID      *string
	Title       string
	Scope       *string
	BuilderName string
	Amount      float64
	Currency    string
	Status      string
	Notes       *string
	SelectedAt  *string
	CreatedAt   string
	UpdatedAt   string
}

// Attachment references an external file by URI.
type Attachment struct {
	ID        string
	ProjectID string
	RoomID    *string
	TaskID    *string
	ExpenseID *string
	Kind      string
	URI       string
	FileName  *string
	MimeType  *string
	SizeBytes *int64
	CreatedAt string
}

// Tag labels tasks. Type is "trade" or "custom".
type Tag struct {
	ID         string
	ProjectID  string
	Name       string
	Type       string
	ColorToken *string
}

// TaskTag links a task to a tag. The pair is the primary key.
type TaskTag struct {
	TaskID string
	TagID  string
}

// BackupSnapshot is an append-only copy of a project's dataset, written
// immediately before a restore as the recovery point. Never mutated.
type BackupSnapshot struct {
	ID         string
	ProjectID  string
	Reason     string
	BackupJSON string
	CreatedAt  string
}

// SnapshotInfo is the listing view of a snapshot. The serialized
// document itself is intentionally not exposed here.
type SnapshotInfo struct {
	ID        string
	CreatedAt string
}
