package planner

import "time"

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts row id generation so tests are deterministic.
// The prefix names the entity kind ("task", "backup_snapshot", ...).
type IDGenerator interface {
	NewID(prefix string) string
}
