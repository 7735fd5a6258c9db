package backup

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Keys in the settings table. The names match the keys historical
// versions used, so an in-place upgrade keeps its reminder state.
const (
	lastBackupKey  = "lastBackupDate"
	lastDismissKey = "lastBackupReminderDismiss"
)

// ReminderAfterDays is how stale a backup may get before the reminder
// shows.
const ReminderAfterDays = 30

const (
	getSettingStatement = `
	SELECT value FROM settings
	WHERE key = ?
	`

	setSettingStatement = `
	INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()
	`
)

func getSetting(ctx context.Context, db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, getSettingStatement, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func setSetting(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx, setSettingStatement, key, value)
	return err
}

// LastBackupDate returns when the store was last exported. ok is false
// when no backup was ever taken.
func LastBackupDate(ctx context.Context, db *sql.DB) (time.Time, bool, error) {
	value, ok, err := getSetting(ctx, db, lastBackupKey)
	if err != nil || !ok {
		return time.Time{}, false, err
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, nil
	}

	return t, true, nil
}

// SetLastBackupDate records when the store was last exported.
func SetLastBackupDate(ctx context.Context, db *sql.DB, t time.Time) error {
	return setSetting(ctx, db, lastBackupKey, t.UTC().Format(time.RFC3339))
}

// DaysSinceLastBackup returns whole days elapsed since the last export.
// ok is false when no backup was ever taken, which callers treat as
// infinitely long ago.
func DaysSinceLastBackup(ctx context.Context, db *sql.DB, now time.Time) (int, bool, error) {
	last, ok, err := LastBackupDate(ctx, db)
	if err != nil || !ok {
		return 0, false, err
	}

	return int(now.Sub(last).Hours() / 24), true, nil
}

// DismissReminder suppresses the backup reminder for the rest of the
// calendar day.
func DismissReminder(ctx context.Context, db *sql.DB, now time.Time) error {
	return setSetting(ctx, db, lastDismissKey, now.Format(time.RFC3339))
}

// ShouldShowBackupReminder reports whether the periodic backup reminder
// is due: the last backup is at least ReminderAfterDays old (or was
// never taken) and the reminder was not dismissed today.
func ShouldShowBackupReminder(ctx context.Context, db *sql.DB, now time.Time) (bool, error) {
	days, ok, err := DaysSinceLastBackup(ctx, db, now)
	if err != nil {
		return false, err
	}
	if ok && days < ReminderAfterDays {
		return false, nil
	}

	dismissed, ok, err := getSetting(ctx, db, lastDismissKey)
	if err != nil {
		return false, err
	}
	if ok {
		if dismissedAt, err := time.Parse(time.RFC3339, dismissed); err == nil && sameDay(dismissedAt, now) {
			return false, nil
		}
	}

	return true, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
