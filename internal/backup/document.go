// Package backup defines the portable backup document and the validator
// that gates untrusted documents before they may touch the live dataset.
package backup

// SchemaVersion is the one document version this build reads and writes.
const SchemaVersion = "1"

// UnencryptedWarning is attached to every exported document.
const UnencryptedWarning = "Backup data is unencrypted. Store and share it carefully."

// Row limits bound validation cost and memory on constrained devices.
// They are the primary defense against oversized untrusted documents.
const (
	MaxRowsPerTable = 1000
	MaxTotalRows    = 5000
)

// Row is a flat column-to-value mapping. After validation, cell values
// are only string, int64, float64, or nil.
type Row map[string]any

// Payload holds every row of one project across the nine collections.
type Payload struct {
	Projects      []Row `json:"projects"`
	Rooms         []Row `json:"rooms"`
	Tasks         []Row `json:"tasks"`
	Events        []Row `json:"events"`
	Expenses      []Row `json:"expenses"`
	BuilderQuotes []Row `json:"builder_quotes"`
	Attachments   []Row `json:"attachments"`
	Tags          []Row `json:"tags"`
	TaskTags      []Row `json:"task_tags"`
}

// TotalRows is the row count across all nine collections.
func (p *Payload) TotalRows() int {
	return len(p.Projects) + len(p.Rooms) + len(p.Tasks) + len(p.Events) +
		len(p.Expenses) + len(p.BuilderQuotes) + len(p.Attachments) +
		len(p.Tags) + len(p.TaskTags)
}

// Document is the versioned envelope around a project's full dataset.
// It exists only in transit: as export output, restore input, or the
// serialized body of a pre-restore snapshot.
type Document struct {
	SchemaVersion string   `json:"schemaVersion"`
	ExportedAt    string   `json:"exportedAt"`
	AppVersion    string   `json:"appVersion"`
	ProjectID     string   `json:"projectId"`
	Payload       Payload  `json:"payload"`
	Warnings      []string `json:"warnings,omitempty"`
}

// ValidationResult is the validator's total-function outcome: either a
// normalized document or a single human-readable reason. The validator
// never panics and never returns an error value.
type ValidationResult struct {
	OK     bool
	Backup *Document
	Reason string
}
