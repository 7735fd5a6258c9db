// Package notify implements the task reminder capability as an injected
// service: an in-memory timer per scheduled task plus a persisted mirror
// of pending schedules, so reminders survive process restarts via
// RescheduleAllNotifications. The mirror's payloads are treated as
// opaque by the backup codec.
package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	upsertScheduleStatement = `
	INSERT INTO scheduled_notifications (task_id, payload) VALUES (?, ?)
	ON CONFLICT(task_id) DO UPDATE SET payload = excluded.payload, created_at = unixepoch()
	`

	deleteScheduleStatement = `
	DELETE FROM scheduled_notifications
	WHERE task_id = ?
	`

	listSchedulesStatement = `
	SELECT task_id, payload
	FROM scheduled_notifications
	ORDER BY task_id ASC
	`

	clearSchedulesStatement = `
	DELETE FROM scheduled_notifications
	`
)

// Notifier delivers a due reminder to the user. The CLI wires a stderr
// printer; a platform build would wire the OS notification API.
type Notifier func(taskID int64, description string)

// StderrNotifier prints reminders to stderr.
func StderrNotifier(taskID int64, description string) {
	fmt.Fprintf(os.Stderr, "Reminder (task %d): %s\n", taskID, description)
}

// schedulePayload is what the mirror records per pending reminder.
type schedulePayload struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

// Scheduler tracks pending reminders. Safe for concurrent use.
type Scheduler struct {
	db     *sql.DB
	notify Notifier

	mu     sync.Mutex
	timers map[int64]*time.Timer
}

// NewScheduler creates a scheduler persisting its mirror to db. notify
// may be nil, in which case due reminders are dropped silently.
func NewScheduler(db *sql.DB, notify Notifier) *Scheduler {
	return &Scheduler{
		db:     db,
		notify: notify,
		timers: make(map[int64]*time.Timer),
	}
}

// Schedule requests a reminder for the task at fireAt. Scheduling an
// already-scheduled task replaces the prior reminder. A fire time in the
// past schedules nothing and leaves no mirror entry.
func (s *Scheduler) Schedule(taskID int64, fireAt time.Time, description string) error {
	if err := s.Cancel(taskID); err != nil {
		return err
	}

	delay := time.Until(fireAt)
	if delay <= 0 {
		return nil
	}

	s.mu.Lock()
	s.timers[taskID] = time.AfterFunc(delay, func() {
		s.fire(taskID, description)
	})
	s.mu.Unlock()

	payload, err := json.Marshal(schedulePayload{
		Time:        fireAt.Format(time.RFC3339),
		Description: description,
	})
	if err != nil {
		return err
	}

	_, err = s.db.Exec(upsertScheduleStatement, taskID, string(payload))
	return err
}

// Cancel drops the task's pending reminder, if any. Cancelling an
// unscheduled task is a no-op.
func (s *Scheduler) Cancel(taskID int64) error {
	s.mu.Lock()
	if timer, ok := s.timers[taskID]; ok {
		timer.Stop()
		delete(s.timers, taskID)
	}
	s.mu.Unlock()

	_, err := s.db.Exec(deleteScheduleStatement, taskID)
	return err
}

func (s *Scheduler) fire(taskID int64, description string) {
	s.mu.Lock()
	delete(s.timers, taskID)
	s.mu.Unlock()

	if _, err := s.db.Exec(deleteScheduleStatement, taskID); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to clear fired reminder for task %d: %v\n", taskID, err)
	}

	if s.notify != nil {
		s.notify(taskID, description)
	}
}

// Snapshot exposes the persisted mirror keyed by task id, payloads kept
// opaque, for inclusion in backups.
func (s *Scheduler) Snapshot(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, listSchedulesStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := make(map[string]json.RawMessage)
	for rows.Next() {
		var taskID int64
		var payload string
		if err := rows.Scan(&taskID, &payload); err != nil {
			return nil, err
		}
		snapshot[strconv.FormatInt(taskID, 10)] = json.RawMessage(payload)
	}

	return snapshot, rows.Err()
}

// Restore replaces the persisted mirror with the given map, payloads
// pass through uninterpreted. In-memory timers are not rebuilt here;
// callers reschedule from task state afterwards.
func (s *Scheduler) Restore(ctx context.Context, schedules map[string]json.RawMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, clearSchedulesStatement); err != nil {
		return err
	}

	for key, payload := range schedules {
		taskID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			// Unparseable key in a foreign backup; skip rather than
			// reject the whole restore.
			fmt.Fprintf(os.Stderr, "Warning: skipping scheduled notification with key %q\n", key)
			continue
		}
		if _, err := tx.ExecContext(ctx, upsertScheduleStatement, taskID, string(payload)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Close stops every pending timer without touching the mirror.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for taskID, timer := range s.timers {
		timer.Stop()
		delete(s.timers, taskID)
	}
}
