package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Accepted event year range. Catches obviously bogus timestamps (epoch
// zero, far-future typos) rather than enforcing a real schedule.
const (
	MinEventYear = 2000
	MaxEventYear = 2100
)

var isoDateTimePattern = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2}(\.\d{3})?)?(Z|[+-]\d{2}:\d{2})$`)

var isoDateTimeLayouts = []string{
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
}

// ParseISODateTime parses an ISO-8601 datetime with minute precision or
// better and an explicit offset. Returns the zero time and false when
// the value does not conform.
func ParseISODateTime(value string) (time.Time, bool) {
	if !isoDateTimePattern.MatchString(value) {
		return time.Time{}, false
	}
	for _, layout := range isoDateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EventInput carries the event fields the rules care about.
type EventInput struct {
	Type         string
	Title        string
	StartsAt     string
	Company      string
	ContactName  string
	ContactPhone string
}

// ValidateEvent enforces the event business rules: non-empty title and
// a parseable, range-bounded start time.
func ValidateEvent(input EventInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return errors.New("Event title is required")
	}
	if err := MaxLength(input.Type, MaxEventType, "Event type"); err != nil {
		return err
	}
	if err := MaxLength(input.Title, MaxEventTitle, "Event title"); err != nil {
		return err
	}
	if err := MaxLength(input.Company, MaxEventCompany, "Company"); err != nil {
		return err
	}
	if err := MaxLength(input.ContactName, MaxEventContactName, "Contact name"); err != nil {
		return err
	}
	if err := MaxLength(input.ContactPhone, MaxEventContactPhone, "Contact phone"); err != nil {
		return err
	}
	if input.StartsAt == "" {
		return errors.New("Event start is required")
	}

	startsAt, ok := ParseISODateTime(input.StartsAt)
	if !ok {
		return errors.New("Event start must be a valid ISO datetime")
	}

	year := startsAt.UTC().Year()
	if year < MinEventYear || year > MaxEventYear {
		return fmt.Errorf("Event start year must be between %d and %d", MinEventYear, MaxEventYear)
	}
	return nil
}
