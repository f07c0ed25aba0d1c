package backup

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"planner-go/internal/rules"
)

// Validate checks an arbitrary untrusted value against the backup
// document contract. Validation runs in fixed stages and stops at the
// first failure, so a document violating several rules always reports
// the earliest-stage reason. The stage order is part of the contract.
//
// A *Document (or Document) input is first flattened through JSON so it
// takes exactly the same path as a decoded file.
func Validate(input any) ValidationResult {
	switch v := input.(type) {
	case *Document:
		input = flattenDocument(v)
	case Document:
		input = flattenDocument(&v)
	}

	root, ok := input.(map[string]any)
	if !ok {
		return fail("Backup must be a JSON object")
	}

	if version, _ := root["schemaVersion"].(string); version != SchemaVersion {
		return fail("Unsupported backup schemaVersion")
	}

	exportedAt, _ := root["exportedAt"].(string)
	if exportedAt == "" || !isParseableTimestamp(exportedAt) {
		return fail("Invalid exportedAt timestamp")
	}

	appVersion, _ := root["appVersion"].(string)
	if appVersion == "" {
		return fail("Missing appVersion")
	}

	projectID, _ := root["projectId"].(string)
	if projectID == "" {
		return fail("Missing projectId")
	}

	payload, reason := parsePayload(root["payload"])
	if reason != "" {
		return fail(reason)
	}

	if reason := checkForeignKeys(payload); reason != "" {
		return fail(reason)
	}

	if reason := checkBusinessRules(payload); reason != "" {
		return fail(reason)
	}

	return ValidationResult{OK: true, Backup: &Document{
		SchemaVersion: SchemaVersion,
		ExportedAt:    exportedAt,
		AppVersion:    appVersion,
		ProjectID:     projectID,
		Payload:       *payload,
		Warnings:      stringWarnings(root["warnings"]),
	}}
}

func fail(reason string) ValidationResult {
	return ValidationResult{OK: false, Reason: reason}
}

// flattenDocument round-trips a typed document through JSON so the
// validator sees the same generic shape a decoded file produces.
func flattenDocument(doc *Document) any {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil
	}
	return generic
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func isParseableTimestamp(value string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// asRows validates one collection: it must be an array of flat records
// within the per-table row cap, every cell a string, a number, or nil.
func asRows(value any, table string) ([]Row, string) {
	items, ok := value.([]any)
	if !ok {
		return nil, "Invalid payload shape"
	}

	if len(items) > MaxRowsPerTable {
		return nil, fmt.Sprintf("%s exceeds maximum allowed rows (%d)", table, MaxRowsPerTable)
	}

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, "Invalid payload shape"
		}

		row := make(Row, len(record))
		for key, cell := range record {
			normalized, ok := normalizeCell(cell)
			if !ok {
				return nil, "Invalid payload shape"
			}
			row[key] = normalized
		}
		rows = append(rows, row)
	}

	return rows, ""
}

// normalizeCell admits strings, numbers, and nil. Objects, arrays, and
// booleans are rejected outright.
func normalizeCell(cell any) (any, bool) {
	switch v := cell.(type) {
	case nil, string, float64, int64:
		return v, true
	case int:
		return int64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	default:
		return nil, false
	}
}

// requiredTables in parse order. The running total-row check happens as
// each collection is parsed, so a later table can trip the total cap
// even when every table is under its own cap. builder_quotes is parsed
// last and tolerated absent: older documents predate it.
var requiredTables = []string{
	"projects", "rooms", "tasks", "events", "expenses",
	"attachments", "tags", "task_tags",
}

func parsePayload(value any) (*Payload, string) {
	record, ok := value.(map[string]any)
	if !ok {
		return nil, "Invalid payload shape"
	}

	parsed := make(map[string][]Row, len(requiredTables)+1)
	totalRows := 0
	for _, table := range requiredTables {
		rows, reason := asRows(record[table], table)
		if reason != "" {
			return nil, reason
		}
		parsed[table] = rows
		totalRows += len(rows)
		if totalRows > MaxTotalRows {
			return nil, fmt.Sprintf("Backup payload exceeds maximum allowed rows (%d)", MaxTotalRows)
		}
	}

	var builderQuotes []Row
	if raw, present := record["builder_quotes"]; present && raw != nil {
		rows, reason := asRows(raw, "builder_quotes")
		if reason != "" {
			return nil, reason
		}
		builderQuotes = rows
	}
	totalRows += len(builderQuotes)
	if totalRows > MaxTotalRows {
		return nil, fmt.Sprintf("Backup payload exceeds maximum allowed rows (%d)", MaxTotalRows)
	}
	if builderQuotes == nil {
		builderQuotes = []Row{}
	}

	return &Payload{
		Projects:      parsed["projects"],
		Rooms:         parsed["rooms"],
		Tasks:         parsed["tasks"],
		Events:        parsed["events"],
		Expenses:      parsed["expenses"],
		BuilderQuotes: builderQuotes,
		Attachments:   parsed["attachments"],
		Tags:          parsed["tags"],
		TaskTags:      parsed["task_tags"],
	}, ""
}

func idSet(rows []Row, key string) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if id := readString(row, key); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func inSet(set map[string]struct{}, id string) bool {
	_, ok := set[id]
	return ok
}

// checkForeignKeys verifies the document is internally self-consistent:
// every reference resolves against the document's own collections,
// never against the live store. Required references must be present;
// optional ones are checked only when non-null.
func checkForeignKeys(payload *Payload) string {
	projectIDs := idSet(payload.Projects, "id")
	roomIDs := idSet(payload.Rooms, "id")
	taskIDs := idSet(payload.Tasks, "id")
	expenseIDs := idSet(payload.Expenses, "id")
	tagIDs := idSet(payload.Tags, "id")

	for _, row := range payload.Rooms {
		if projectID := readString(row, "project_id"); projectID == "" || !inSet(projectIDs, projectID) {
			return "Invalid room.project_id reference"
		}
	}

	for _, row := range payload.Tasks {
		if projectID := readString(row, "project_id"); projectID == "" || !inSet(projectIDs, projectID) {
			return "Invalid task.project_id reference"
		}
		if roomID := readString(row, "room_id"); roomID == "" || !inSet(roomIDs, roomID) {
			return "Invalid task.room_id reference"
		}
	}

	for _, row := range payload.Events {
		if projectID := readString(row, "project_id"); projectID == "" || !inSet(projectIDs, projectID) {
			return "Invalid event.project_id reference"
		}
		if roomID := readString(row, "room_id"); roomID != "" && !inSet(roomIDs, roomID) {
			return "Invalid event.room_id reference"
		}
		if taskID := readString(row, "task_id"); taskID != "" && !inSet(taskIDs, taskID) {
			return "Invalid event.task_id reference"
		}
	}

	for _, row := range payload.Expenses {
		if projectID := readString(row, "project_id"); projectID == "" || !inSet(projectIDs, projectID) {
			return "Invalid expense.project_id reference"
		}
		if roomID := readString(row, "room_id"); roomID != "" && !inSet(roomIDs, roomID) {
			return "Invalid expense.room_id reference"
		}
		if taskID := readString(row, "task_id"); taskID != "" && !inSet(taskIDs, taskID) {
			return "Invalid expense.task_id reference"
		}
	}

	for _, row := range payload.BuilderQuotes {
		if projectID := readString(row, "project_id"); projectID == "" || !inSet(projectIDs, projectID) {
			return "Invalid builder_quote.project_id reference"
		}
		if roomID := readString(row, "room_id"); roomID != "" && !inSet(roomIDs, roomID) {
			return "Invalid builder_quote.room_id reference"
		}
	}

	for _, row := range payload.Attachments {
		if projectID := readString(row, "project_id"); projectID == "" || !inSet(projectIDs, projectID) {
			return "Invalid attachment.project_id reference"
		}
		if roomID := readString(row, "room_id"); roomID != "" && !inSet(roomIDs, roomID) {
			return "Invalid attachment.room_id reference"
		}
		if taskID := readString(row, "task_id"); taskID != "" && !inSet(taskIDs, taskID) {
			return "Invalid attachment.task_id reference"
		}
		if expenseID := readString(row, "expense_id"); expenseID != "" && !inSet(expenseIDs, expenseID) {
			return "Invalid attachment.expense_id reference"
		}
	}

	for _, row := range payload.Tags {
		if projectID := readString(row, "project_id"); projectID == "" || !inSet(projectIDs, projectID) {
			return "Invalid tag.project_id reference"
		}
	}

	for _, row := range payload.TaskTags {
		if taskID := readString(row, "task_id"); taskID == "" || !inSet(taskIDs, taskID) {
			return "Invalid task_tags.task_id reference"
		}
		if tagID := readString(row, "tag_id"); tagID == "" || !inSet(tagIDs, tagID) {
			return "Invalid task_tags.tag_id reference"
		}
	}

	return ""
}

// checkBusinessRules re-runs the live create/update validators over the
// payload, so a restored dataset could have been produced through
// normal use. Rule messages pass through verbatim, prefixed with the
// offending row's zero-based index.
func checkBusinessRules(payload *Payload) string {
	for index, row := range payload.Tasks {
		input := rules.TaskInput{
			RoomID:        readString(row, "room_id"),
			Title:         readString(row, "title"),
			Status:        readString(row, "status"),
			WaitingReason: readNullableString(row, "waiting_reason"),
		}
		if err := rules.ValidateTask(&input); err != nil {
			return fmt.Sprintf("Invalid task at index %d: %s", index, err.Error())
		}
	}

	for index, row := range payload.Events {
		err := rules.ValidateEvent(rules.EventInput{
			Title:    readString(row, "title"),
			StartsAt: readString(row, "starts_at"),
		})
		if err != nil {
			return fmt.Sprintf("Invalid event at index %d: %s", index, err.Error())
		}
	}

	for index, row := range payload.Expenses {
		err := rules.ValidateExpense(rules.ExpenseInput{
			Amount:     readNumber(row, "amount"),
			IncurredOn: readString(row, "incurred_on"),
		})
		if err != nil {
			return fmt.Sprintf("Invalid expense at index %d: %s", index, err.Error())
		}
	}

	return ""
}

// stringWarnings keeps only string entries found in the input. Missing
// or malformed warnings are dropped, never fabricated.
func stringWarnings(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	var warnings []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			warnings = append(warnings, s)
		}
	}
	return warnings
}

func readString(row Row, key string) string {
	if value, ok := row[key].(string); ok {
		return value
	}
	return ""
}

func readNullableString(row Row, key string) *string {
	switch v := row[key].(type) {
	case nil:
		return nil
	case string:
		return &v
	case int64:
		s := strconv.FormatInt(v, 10)
		return &s
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return &s
	default:
		return nil
	}
}

func readNumber(row Row, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}
