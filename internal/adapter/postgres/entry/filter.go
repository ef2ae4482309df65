package entry

import (
	"time"

	"github.com/google/uuid"
)

// Filter defines parameters for listing spending entries.
// Zero values mean "no constraint".
type Filter struct {
	// StartDate (inclusive) and EndDate (exclusive) bound occurred_at,
	// matching half-open day and month periods.
	StartDate *time.Time
	EndDate   *time.Time

	// CategoryID restricts to entries referencing the category.
	CategoryID *uuid.UUID

	// Limit is the maximum number of entries to return. Default: 100, max: 500.
	Limit int
}

const (
	defaultLimit = 100
	maxLimit     = 500
)

// normalize applies defaults and clamps values.
func (f *Filter) normalize() {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
}
