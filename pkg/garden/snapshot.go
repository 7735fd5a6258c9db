package garden

import (
	"context"
	"database/sql"
)

// Full-collection reads used by the backup codec. Ordered by id so an
// exported document is reproducible for identical store contents.

// ListAllDiaryEntries returns every diary entry across all plants.
func ListAllDiaryEntries(ctx context.Context, db *sql.DB) ([]DiaryEntry, error) {
	rows, err := db.QueryContext(ctx, `
	SELECT id, plant_id, date, care_stage, note, year, task_id
	FROM diary_entries
	ORDER BY id ASC
	`)
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

	return entries, rows.Err()
}

// ListAllPhotos returns every photo across all plants.
func ListAllPhotos(ctx context.Context, db *sql.DB) ([]Photo, error) {
	rows, err := db.QueryContext(ctx, `
	SELECT id, plant_id, diary_entry_id, data_url, is_main_photo, created_at
	FROM photos
	ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}

	return photos, rows.Err()
}

// ListAllCompanions returns every companion edge.
func ListAllCompanions(ctx context.Context, db *sql.DB) ([]CompanionPlanting, error) {
	rows, err := db.QueryContext(ctx, `
	SELECT id, plant_id, companion_plant_id, benefits
	FROM companion_plantings
	ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companions []CompanionPlanting
	for rows.Next() {
		companion, err := scanCompanion(rows)
		if err != nil {
			return nil, err
		}
		companions = append(companions, companion)
	}

	return companions, rows.Err()
}

// ListAllTasks returns every task ordered by id, completed included.
func ListAllTasks(ctx context.Context, db *sql.DB) ([]Task, error) {
	rows, err := db.QueryContext(ctx, `
	SELECT id, description, date, time, plant_ids, completed_plant_ids, completed, created_at
	FROM tasks
	ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}
