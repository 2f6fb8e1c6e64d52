// internal/domain/cycle/run.go
package cycle

import (
	"context"
	"database/sql"
	"time"
)

// Run is the audit record of one completed polling cycle.
// Insert-only: the polling decision path never reads these records, so a
// matched date may be reported again on the next cycle.
type Run struct {
	ID          int64
	RanAt       time.Time
	Matched     bool
	MatchedDate sql.NullString // YYYY-MM-DD when Matched
	Stopped     bool           // polling was cancelled by this run
	CreatedAt   time.Time
}

// Repository persists cycle run records.
type Repository interface {
	RecordRun(ctx context.Context, run *Run) error
}
