package garden

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	ErrPlantNotFound     = errors.New("plant not found")
	ErrEntryNotFound     = errors.New("diary entry not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrCompanionNotFound = errors.New("companion planting not found")

	// ErrConstraintViolation wraps refusals to break a store invariant,
	// e.g. a companion edge from a plant to itself.
	ErrConstraintViolation = errors.New("constraint violation")
)

// Scheduler is the external notification capability. Schedule is
// idempotent: scheduling an already-scheduled task replaces the prior
// reminder. Cancel on an unscheduled task is a no-op. Both are
// best-effort from the store's point of view; failures are logged,
// never propagated, and never roll back a data mutation.
type Scheduler interface {
	Schedule(taskID int64, fireAt time.Time, description string) error
	Cancel(taskID int64) error
}

// nowFunc is swapped out by tests that pin "today".
var nowFunc = time.Now

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int64) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

func nullablePeriod(p *Period) (interface{}, interface{}) {
	if p == nil {
		return nil, nil
	}
	return p.Start, p.End
}

func periodFromColumns(start, end sql.NullInt64) *Period {
	if !start.Valid || !end.Valid {
		return nil
	}
	return &Period{Start: int(start.Int64), End: int(end.Int64)}
}

// encodeIDList renders an id slice as the JSON array text stored in the
// tasks table. A nil slice encodes as [] so the wire format always
// carries an array.
func encodeIDList(ids []int64) string {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeIDList(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	var ids []int64
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return []int64{}
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func appendIfMissing(ids []int64, id int64) []int64 {
	if containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func dedupeIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		out = appendIfMissing(out, v)
	}
	return out
}

// logSchedulerError reports a failed best-effort scheduling side effect.
func logSchedulerError(op string, taskID int64, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: notification %s for task %d failed: %v\n", op, taskID, err)
	}
}
