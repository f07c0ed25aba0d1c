package rules

import (
	"errors"
	"strings"
)

// TaskInput carries the task fields the rules care about. TradeTags and
// CustomTags are normalized in place by ValidateTask.
type TaskInput struct {
	RoomID        string
	Title         string
	Description   string
	Phase         string
	Status        string
	Priority      string
	WaitingReason *string
	TradeTags     []string
	CustomTags    []string
}

// NormalizeTagNames trims, lowercases, and deduplicates tag names,
// dropping empties. Order of first appearance is preserved.
func NormalizeTagNames(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, raw := range values {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}

// ValidateTask enforces the task business rules. The key invariant:
// status "waiting" requires a waiting reason, everything else forbids
// nothing but carries none.
func ValidateTask(input *TaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return errors.New("Task title is required")
	}
	if err := MaxLength(input.Title, MaxTaskTitle, "Task title"); err != nil {
		return err
	}
	if err := MaxLength(input.Description, MaxTaskDescription, "Task description"); err != nil {
		return err
	}
	if err := MaxLength(input.Phase, MaxRoomType, "Task phase"); err != nil {
		return err
	}
	if err := MaxLength(input.Status, MaxRoomType, "Task status"); err != nil {
		return err
	}
	if err := MaxLength(input.Priority, MaxRoomType, "Task priority"); err != nil {
		return err
	}
	if input.RoomID == "" {
		return errors.New("Room is required")
	}
	if input.Status == "waiting" && (input.WaitingReason == nil || *input.WaitingReason == "") {
		return errors.New("Waiting reason is required when status is waiting")
	}
	if input.WaitingReason != nil {
		if err := MaxLength(*input.WaitingReason, MaxWaitingReason, "Waiting reason"); err != nil {
			return err
		}
	}
	input.TradeTags = NormalizeTagNames(input.TradeTags)
	input.CustomTags = NormalizeTagNames(input.CustomTags)
	for _, tag := range input.TradeTags {
		if err := MaxLength(tag, MaxTagName, "Tag name"); err != nil {
			return err
		}
	}
	for _, tag := range input.CustomTags {
		if err := MaxLength(tag, MaxTagName, "Tag name"); err != nil {
			return err
		}
	}
	return nil
}
