// Package backup implements the versioned whole-store backup document:
// export to pretty-printed JSON, structural validation, and destructive
// transactional import. The wire format matches historical backups
// field-for-field, ids carried verbatim in both directions.
package backup

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/seedling-app/seedling/pkg/garden"
)

// FormatVersion is the backup document version this code writes.
const FormatVersion = 1

// requiredTables are the collection keys a valid document must carry,
// in validation order.
var requiredTables = []string{"plants", "diaryEntries", "photos", "tasks", "companionPlantings"}

// ValidationError reports a structurally invalid backup document.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid backup: %s", e.Reason)
}

// ImportError reports a failed import transaction; the store is left in
// its pre-import state.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed: %v", e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ScheduleStore is the notification mirror the codec carries through
// backups as opaque data. Satisfied by *notify.Scheduler.
type ScheduleStore interface {
	Snapshot(ctx context.Context) (map[string]json.RawMessage, error)
	Restore(ctx context.Context, schedules map[string]json.RawMessage) error
}

// Data holds the five collection snapshots plus the notification mirror.
type Data struct {
	Plants                 []garden.Plant             `json:"plants"`
	DiaryEntries           []garden.DiaryEntry        `json:"diaryEntries"`
	Photos                 []garden.Photo             `json:"photos"`
	Tasks                  []garden.Task              `json:"tasks"`
	CompanionPlantings     []garden.CompanionPlanting `json:"companionPlantings"`
	ScheduledNotifications map[string]json.RawMessage `json:"scheduledNotifications"`
}

// Document is the top-level backup file structure.
type Document struct {
	Version    int    `json:"version"`
	ExportDate string `json:"exportDate"`
	Data       Data   `json:"data"`
}

// Export snapshots the entire store into a backup document. The last
// backup timestamp is updated as a best-effort side effect; its failure
// never fails the export.
func Export(ctx context.Context, db *sql.DB, schedules ScheduleStore) (Document, error) {
	plants, err := garden.ListPlants(ctx, db, "")
	if err != nil {
		return Document{}, err
	}
	entries, err := garden.ListAllDiaryEntries(ctx, db)
	if err != nil {
		return Document{}, err
	}
	photos, err := garden.ListAllPhotos(ctx, db)
	if err != nil {
		return Document{}, err
	}
	tasks, err := garden.ListAllTasks(ctx, db)
	if err != nil {
		return Document{}, err
	}
	companions, err := garden.ListAllCompanions(ctx, db)
	if err != nil {
		return Document{}, err
	}

	notifications := map[string]json.RawMessage{}
	if schedules != nil {
		notifications, err = schedules.Snapshot(ctx)
		if err != nil {
			return Document{}, err
		}
	}

	doc := Document{
		Version:    FormatVersion,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Data: Data{
			Plants:                 emptyIfNil(plants),
			DiaryEntries:           emptyIfNil(entries),
			Photos:                 emptyIfNil(photos),
			Tasks:                  emptyIfNil(tasks),
			CompanionPlantings:     emptyIfNil(companions),
			ScheduledNotifications: notifications,
		},
	}

	if err := SetLastBackupDate(ctx, db, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record backup timestamp: %v\n", err)
	}

	return doc, nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Encode renders a document in the wire format: UTF-8 JSON,
// pretty-printed with 2-space indentation.
func Encode(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Filename returns the conventional export filename for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("seedling-backup-%s.json", now.Format("2006-01-02"))
}

// Validate checks a raw backup document's structure. Checks run in
// order and the first failure wins: the document must be a JSON object,
// must carry a data section, and the data section must hold all five
// collection keys, each an array. Empty arrays are valid. Record-level
// schema and foreign-key integrity are not validated.
func Validate(raw []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return &ValidationError{Reason: "Invalid file format"}
	}

	dataRaw, ok := doc["data"]
	if !ok || isJSONNull(dataRaw) {
		return &ValidationError{Reason: "Missing data section"}
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(dataRaw, &data); err != nil {
		data = nil
	}

	for _, table := range requiredTables {
		tableRaw, ok := data[table]
		if !ok || !isJSONArray(tableRaw) {
			return &ValidationError{Reason: fmt.Sprintf("Missing or invalid %s data", table)}
		}
	}

	return nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Decode parses a raw backup file into a document, validating its
// structure first.
func Decode(raw []byte) (Document, error) {
	if err := Validate(raw); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, &ValidationError{Reason: "Invalid file format"}
	}

	return doc, nil
}

const (
	importPlantStatement = `
	INSERT INTO plants (id, name, latin_name, status, lifecycle, sowing_start, sowing_end, harvest_start, harvest_end, frost_tolerance, instructions, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	importDiaryEntryStatement = `
	INSERT INTO diary_entries (id, plant_id, date, care_stage, note, year, task_id)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	importPhotoStatement = `
	INSERT INTO photos (id, plant_id, diary_entry_id, data_url, is_main_photo, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	importTaskStatement = `
	INSERT INTO tasks (id, description, date, time, plant_ids, completed_plant_ids, completed, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	importCompanionStatement = `
	INSERT INTO companion_plantings (id, plant_id, companion_plant_id, benefits)
	VALUES (?, ?, ?, ?)
	`
)

// Import destructively replaces the entire store with the document's
// contents: every collection is cleared and re-populated inside one
// transaction, record ids preserved verbatim so cross-collection
// references in the document stay valid. On any failure the store is
// left untouched and an ImportError is returned.
//
// The notification mirror and the last-backup timestamp are restored
// outside the transaction, best-effort: failures are logged, not
// returned, and a backup with an empty mirror leaves the current one
// alone.
func Import(ctx context.Context, db *sql.DB, schedules ScheduleStore, raw []byte) error {
	doc, err := Decode(raw)
	if err != nil {
		return err
	}

	if err := replaceStore(ctx, db, doc.Data); err != nil {
		return &ImportError{Err: err}
	}

	if schedules != nil && len(doc.Data.ScheduledNotifications) > 0 {
		if err := schedules.Restore(ctx, doc.Data.ScheduledNotifications); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to restore scheduled notifications: %v\n", err)
		}
	}

	if doc.ExportDate != "" {
		if exportedAt, err := time.Parse(time.RFC3339, doc.ExportDate); err == nil {
			if err := SetLastBackupDate(ctx, db, exportedAt); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to record backup timestamp: %v\n", err)
			}
		}
	}

	return nil
}

func replaceStore(ctx context.Context, db *sql.DB, data Data) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"plants", "diary_entries", "photos", "tasks", "companion_plantings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, plant := range data.Plants {
		sowStart, sowEnd := periodColumns(plant.SowingPeriod)
		harvStart, harvEnd := periodColumns(plant.HarvestPeriod)
		_, err := tx.ExecContext(ctx, importPlantStatement,
			plant.ID, plant.Name, nullIfEmpty(plant.LatinName), plant.Status, nullIfEmpty(plant.Lifecycle),
			sowStart, sowEnd, harvStart, harvEnd,
			nullIfEmpty(plant.FrostTolerance), nullIfEmpty(plant.Instructions), plant.CreatedAt)
		if err != nil {
			return err
		}
	}

	for _, entry := range data.DiaryEntries {
		_, err := tx.ExecContext(ctx, importDiaryEntryStatement,
			entry.ID, entry.PlantID, entry.Date, nullIfEmpty(entry.CareStage), nullIfEmpty(entry.Note),
			entry.Year, nullIfZero(entry.TaskID))
		if err != nil {
			return err
		}
	}

	for _, photo := range data.Photos {
		_, err := tx.ExecContext(ctx, importPhotoStatement,
			photo.ID, photo.PlantID, nullIfZero(photo.DiaryEntryID), photo.DataURL, photo.IsMainPhoto, photo.CreatedAt)
		if err != nil {
			return err
		}
	}

	for _, task := range data.Tasks {
		_, err := tx.ExecContext(ctx, importTaskStatement,
			task.ID, task.Description, task.Date, nullIfEmpty(task.Time),
			encodeIDList(task.PlantIDs), encodeIDList(task.CompletedPlantIDs), task.Completed, task.CreatedAt)
		if err != nil {
			return err
		}
	}

	for _, companion := range data.CompanionPlantings {
		_, err := tx.ExecContext(ctx, importCompanionStatement,
			companion.ID, companion.PlantID, companion.CompanionPlantID, nullIfEmpty(companion.Benefits))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

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

func periodColumns(p *garden.Period) (interface{}, interface{}) {
	if p == nil {
		return nil, nil
	}
	return p.Start, p.End
}

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
