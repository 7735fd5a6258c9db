package garden

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	createDiaryEntryStatement = `
	INSERT INTO diary_entries (plant_id, date, care_stage, note, year, task_id)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	getDiaryEntryStatement = `
	SELECT id, plant_id, date, care_stage, note, year, task_id
	FROM diary_entries
	WHERE id = ?
	`

	listDiaryEntriesStatement = `
	SELECT id, plant_id, date, care_stage, note, year, task_id
	FROM diary_entries
	WHERE plant_id = ? AND (year = ? OR ? = 0)
	ORDER BY date DESC, id DESC
	`

	updateDiaryEntryStatement = `
	UPDATE diary_entries
	SET date = ?, care_stage = ?, note = ?, year = ?
	WHERE id = ?
	`

	deleteDiaryEntryStatement = `
	DELETE FROM diary_entries
	WHERE id = ?
	`

	detachPhotosFromEntryStatement = `
	UPDATE photos
	SET diary_entry_id = NULL
	WHERE diary_entry_id = ?
	`

	listDiaryYearsStatement = `
	SELECT DISTINCT year FROM diary_entries
	WHERE plant_id = ?
	ORDER BY year DESC
	`
)

// yearOfDate derives the denormalized year column from a calendar date.
// Every write path for diary entries goes through it; nothing else may
// set the year.
func yearOfDate(date string) (int, error) {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.Year(), nil
}

// CreateDiaryEntry appends a diary entry for a plant. taskID of zero
// records no task provenance.
func CreateDiaryEntry(ctx context.Context, db *sql.DB, plantID int64, date, careStage, note string, taskID int64) (DiaryEntry, error) {
	if _, err := GetPlant(ctx, db, plantID); err != nil {
		return DiaryEntry{}, err
	}

	year, err := yearOfDate(date)
	if err != nil {
		return DiaryEntry{}, err
	}

	res, err := db.ExecContext(
		ctx,
		createDiaryEntryStatement,
		plantID,
		date,
		nullIfEmpty(careStage),
		nullIfEmpty(note),
		year,
		nullIfZero(taskID),
	)
	if err != nil {
		return DiaryEntry{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return DiaryEntry{}, err
	}

	return GetDiaryEntry(ctx, db, id)
}

// GetDiaryEntry retrieves a diary entry by id.
func GetDiaryEntry(ctx context.Context, db *sql.DB, id int64) (DiaryEntry, error) {
	return scanDiaryEntry(db.QueryRowContext(ctx, getDiaryEntryStatement, id))
}

func scanDiaryEntry(row rowScanner) (DiaryEntry, error) {
	var entry DiaryEntry
	var careStage, note sql.NullString
	var taskID sql.NullInt64

	err := row.Scan(
		&entry.ID,
		&entry.PlantID,
		&entry.Date,
		&careStage,
		&note,
		&entry.Year,
		&taskID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DiaryEntry{}, ErrEntryNotFound
		}
		return DiaryEntry{}, err
	}

	entry.CareStage = careStage.String
	entry.Note = note.String
	entry.TaskID = taskID.Int64

	return entry, nil
}

// ListDiaryEntries returns a plant's diary, newest first. year of zero
// returns all years.
func ListDiaryEntries(ctx context.Context, db *sql.DB, plantID int64, year int) ([]DiaryEntry, error) {
	if _, err := GetPlant(ctx, db, plantID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, listDiaryEntriesStatement, plantID, year, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []DiaryEntry
	for rows.Next() {
		entry, err := scanDiaryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListDiaryYears returns the distinct years a plant has entries for,
// newest first. Feeds the diary year picker.
func ListDiaryYears(ctx context.Context, db *sql.DB, plantID int64) ([]int, error) {
	rows, err := db.QueryContext(ctx, listDiaryYearsStatement, plantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		years = append(years, year)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return years, nil
}

// UpdateDiaryEntry rewrites an entry's date, care stage and note,
// re-deriving the year. The plant and task links are immutable.
func UpdateDiaryEntry(ctx context.Context, db *sql.DB, id int64, date, careStage, note string) (DiaryEntry, error) {
	year, err := yearOfDate(date)
	if err != nil {
		return DiaryEntry{}, err
	}

	res, err := db.ExecContext(
		ctx,
		updateDiaryEntryStatement,
		date,
		nullIfEmpty(careStage),
		nullIfEmpty(note),
		year,
		id,
	)
	if err != nil {
		return DiaryEntry{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return DiaryEntry{}, err
	}

	if rowsAffected == 0 {
		return DiaryEntry{}, ErrEntryNotFound
	}

	return GetDiaryEntry(ctx, db, id)
}

// DeleteDiaryEntry removes an entry and detaches its photos. The photos
// stay with the plant; only the entry link clears.
func DeleteDiaryEntry(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, detachPhotosFromEntryStatement, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, deleteDiaryEntryStatement, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return tx.Commit()
}

// SearchDiary finds diary entries whose note or care stage contains the
// query, newest first, across all plants.
func SearchDiary(ctx context.Context, db *sql.DB, query string) ([]DiaryEntry, error) {
	if query == "" {
		return []DiaryEntry{}, nil
	}

	searchStatement := `
	SELECT id, plant_id, date, care_stage, note, year, task_id
	FROM diary_entries
	WHERE note LIKE ? OR care_stage LIKE ?
	ORDER BY date DESC, id DESC
	`

	pattern := "%" + query + "%"
	rows, err := db.QueryContext(ctx, searchStatement, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to execute diary search: %w", err)
	}
	defer rows.Close()

	var entries []DiaryEntry
	for rows.Next() {
		entry, err := scanDiaryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
