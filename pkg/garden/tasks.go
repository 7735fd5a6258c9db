package garden

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	createTaskStatement = `
	INSERT INTO tasks (description, date, time, plant_ids, completed_plant_ids, completed, created_at)
	VALUES (?, ?, ?, ?, ?, 0, ?)
	`

	getTaskStatement = `
	SELECT id, description, date, time, plant_ids, completed_plant_ids, completed, created_at
	FROM tasks
	WHERE id = ?
	`

	listTasksStatement = `
	SELECT id, description, date, time, plant_ids, completed_plant_ids, completed, created_at
	FROM tasks
	WHERE completed = 0 OR ? = true
	ORDER BY date ASC, id ASC
	`

	updateTaskStatement = `
	UPDATE tasks
	SET description = ?, date = ?, time = ?, plant_ids = ?, completed_plant_ids = ?
	WHERE id = ?
	`

	updateTaskListsStatement = `
	UPDATE tasks
	SET plant_ids = ?, completed_plant_ids = ?, completed = ?
	WHERE id = ?
	`

	setTaskDateStatement = `
	UPDATE tasks
	SET date = ?
	WHERE id = ?
	`

	deleteTaskStatement = `
	DELETE FROM tasks
	WHERE id = ?
	`

	syncTaskDiaryNotesStatement = `
	UPDATE diary_entries
	SET note = ?
	WHERE task_id = ? AND care_stage = ?
	`
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, letting the task and
// deletion code run the same statements inside or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// TaskUpdate carries the editable task fields. Nil pointers leave the
// corresponding field untouched; a pointer to the empty string clears
// the reminder time.
type TaskUpdate struct {
	Description *string
	Date        *string
	Time        *string
	PlantIDs    *[]int64
}

// applyCompletion is the task completion state transition for a single
// plant, as a pure function on the Task value.
//
// The last remaining plant transitions the task directly to completed,
// leaving PlantIDs as a historical trace. Any other plant moves from
// PlantIDs to CompletedPlantIDs with the task still pending.
func applyCompletion(task Task, plantID int64) Task {
	if len(task.PlantIDs) == 1 && task.PlantIDs[0] == plantID {
		task.Completed = 1
		return task
	}

	task.PlantIDs = removeID(task.PlantIDs, plantID)
	task.CompletedPlantIDs = appendIfMissing(task.CompletedPlantIDs, plantID)
	return task
}

// applyUncompletion reverses a single plant's completion. The completed
// flag is restored to 0 unconditionally, matching the historical
// behavior: it is not recomputed from PlantIDs emptiness, so reversing
// one plant of a fully-completed multi-plant task reopens the task with
// only that plant pending.
func applyUncompletion(task Task, plantID int64) Task {
	task.Completed = 0
	task.PlantIDs = appendIfMissing(task.PlantIDs, plantID)
	task.CompletedPlantIDs = removeID(task.CompletedPlantIDs, plantID)
	return task
}

// NotifyTime resolves the task's reminder instant in local time.
// Returns false when the task carries no time of day.
func (t Task) NotifyTime() (time.Time, bool) {
	if t.Time == "" || t.Date == "" {
		return time.Time{}, false
	}
	at, err := time.ParseInLocation(DateFormat+" "+TimeFormat, t.Date+" "+t.Time, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// scheduleTask requests a reminder for the task, or cancels any pending
// one when the task carries no time. Best-effort.
func scheduleTask(sched Scheduler, task Task) {
	if sched == nil {
		return
	}
	at, ok := task.NotifyTime()
	if !ok {
		logSchedulerError("cancel", task.ID, sched.Cancel(task.ID))
		return
	}
	logSchedulerError("schedule", task.ID, sched.Schedule(task.ID, at, task.Description))
}

func cancelTask(sched Scheduler, taskID int64) {
	if sched == nil {
		return
	}
	logSchedulerError("cancel", taskID, sched.Cancel(taskID))
}

// CreateTask creates a pending task for the given plants. A reminder is
// requested when a time of day is set; scheduling failures never fail
// task creation.
func CreateTask(ctx context.Context, db *sql.DB, sched Scheduler, description, date, timeOfDay string, plantIDs []int64) (Task, error) {
	if description == "" {
		return Task{}, errors.New("task description is required")
	}
	if _, err := time.Parse(DateFormat, date); err != nil {
		return Task{}, err
	}
	plantIDs = dedupeIDs(plantIDs)
	if len(plantIDs) == 0 {
		return Task{}, errors.New("task requires at least one plant")
	}

	res, err := db.ExecContext(
		ctx,
		createTaskStatement,
		description,
		date,
		nullIfEmpty(timeOfDay),
		encodeIDList(plantIDs),
		encodeIDList(nil),
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return Task{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, err
	}

	task, err := GetTask(ctx, db, id)
	if err != nil {
		return Task{}, err
	}

	if task.Time != "" {
		scheduleTask(sched, task)
	}

	return task, nil
}

// GetTask retrieves a task by id.
func GetTask(ctx context.Context, db *sql.DB, id int64) (Task, error) {
	return getTask(ctx, db, id)
}

func getTask(ctx context.Context, q dbtx, id int64) (Task, error) {
	return scanTask(q.QueryRowContext(ctx, getTaskStatement, id))
}

func scanTask(row rowScanner) (Task, error) {
	var task Task
	var timeOfDay sql.NullString
	var plantIDs, completedPlantIDs string

	err := row.Scan(
		&task.ID,
		&task.Description,
		&task.Date,
		&timeOfDay,
		&plantIDs,
		&completedPlantIDs,
		&task.Completed,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrTaskNotFound
		}
		return Task{}, err
	}

	task.Time = timeOfDay.String
	task.PlantIDs = decodeIDList(plantIDs)
	task.CompletedPlantIDs = decodeIDList(completedPlantIDs)

	return task, nil
}

// ListTasks returns tasks sorted by due date, nearest first. Completed
// tasks are included only when requested.
func ListTasks(ctx context.Context, db *sql.DB, includeCompleted bool) ([]Task, error) {
	return listTasks(ctx, db, includeCompleted)
}

func listTasks(ctx context.Context, q dbtx, includeCompleted bool) ([]Task, error) {
	rows, err := q.QueryContext(ctx, listTasksStatement, includeCompleted)
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

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListTasksForPlant returns every task referencing the plant, whether
// still pending for it or already completed by it.
func ListTasksForPlant(ctx context.Context, db *sql.DB, plantID int64, includeCompleted bool) ([]Task, error) {
	tasks, err := ListTasks(ctx, db, includeCompleted)
	if err != nil {
		return nil, err
	}

	var out []Task
	for _, task := range tasks {
		if containsID(task.PlantIDs, plantID) || containsID(task.CompletedPlantIDs, plantID) {
			out = append(out, task)
		}
	}

	return out, nil
}

// UpdateTask edits a task in place. Diary entries this task produced via
// completion get their note rewritten to the new description, keeping
// the historical log text in sync with the live task definition; other
// diary fields are never synced. The reminder is rescheduled when a time
// remains set, cancelled otherwise.
func UpdateTask(ctx context.Context, db *sql.DB, sched Scheduler, id int64, update TaskUpdate) (Task, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Task{}, err
	}
	defer tx.Rollback()

	task, err := getTask(ctx, tx, id)
	if err != nil {
		return Task{}, err
	}

	if update.Description != nil {
		if *update.Description == "" {
			return Task{}, errors.New("task description is required")
		}
		task.Description = *update.Description
	}
	if update.Date != nil {
		if _, err := time.Parse(DateFormat, *update.Date); err != nil {
			return Task{}, err
		}
		task.Date = *update.Date
	}
	if update.Time != nil {
		task.Time = *update.Time
	}
	if update.PlantIDs != nil {
		task.PlantIDs = dedupeIDs(*update.PlantIDs)
		// A plant re-added to the pending list is pending again; the
		// two lists stay disjoint.
		for _, pid := range task.PlantIDs {
			task.CompletedPlantIDs = removeID(task.CompletedPlantIDs, pid)
		}
	}

	_, err = tx.ExecContext(
		ctx,
		updateTaskStatement,
		task.Description,
		task.Date,
		nullIfEmpty(task.Time),
		encodeIDList(task.PlantIDs),
		encodeIDList(task.CompletedPlantIDs),
		id,
	)
	if err != nil {
		return Task{}, err
	}

	_, err = tx.ExecContext(ctx, syncTaskDiaryNotesStatement, task.Description, id, CareStageTaskCompleted)
	if err != nil {
		return Task{}, err
	}

	if err := tx.Commit(); err != nil {
		return Task{}, err
	}

	scheduleTask(sched, task)

	return task, nil
}

// CompleteTaskForPlant completes a task on behalf of a single plant: the
// plant gets a dated diary entry recording the completion, and the task
// either transitions to completed (when this was the last pending plant)
// or tracks the plant in its completed list. Diary write and task update
// commit together or not at all.
func CompleteTaskForPlant(ctx context.Context, db *sql.DB, sched Scheduler, taskID, plantID int64) (DiaryEntry, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return DiaryEntry{}, err
	}
	defer tx.Rollback()

	task, err := getTask(ctx, tx, taskID)
	if err != nil {
		return DiaryEntry{}, err
	}

	entryID, err := insertCompletionEntry(ctx, tx, plantID, task)
	if err != nil {
		return DiaryEntry{}, err
	}

	task = applyCompletion(task, plantID)

	_, err = tx.ExecContext(
		ctx,
		updateTaskListsStatement,
		encodeIDList(task.PlantIDs),
		encodeIDList(task.CompletedPlantIDs),
		task.Completed,
		taskID,
	)
	if err != nil {
		return DiaryEntry{}, err
	}

	if err := tx.Commit(); err != nil {
		return DiaryEntry{}, err
	}

	if task.Completed == 1 {
		cancelTask(sched, taskID)
	}

	return GetDiaryEntry(ctx, db, entryID)
}

// CompleteTask completes a task for all of its remaining plants at once,
// as the flat to-do list does: one diary entry per pending plant, then
// the task flips to completed and its reminder is cancelled.
//
// Unlike the per-plant path, plants are not moved into
// CompletedPlantIDs here. The asymmetry is long-standing observed
// behavior and backups depend on it staying put.
func CompleteTask(ctx context.Context, db *sql.DB, sched Scheduler, taskID int64) ([]DiaryEntry, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	task, err := getTask(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	entryIDs := make([]int64, 0, len(task.PlantIDs))
	for _, plantID := range task.PlantIDs {
		entryID, err := insertCompletionEntry(ctx, tx, plantID, task)
		if err != nil {
			return nil, err
		}
		entryIDs = append(entryIDs, entryID)
	}

	_, err = tx.ExecContext(
		ctx,
		updateTaskListsStatement,
		encodeIDList(task.PlantIDs),
		encodeIDList(task.CompletedPlantIDs),
		1,
		taskID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	cancelTask(sched, taskID)

	entries := make([]DiaryEntry, 0, len(entryIDs))
	for _, entryID := range entryIDs {
		entry, err := GetDiaryEntry(ctx, db, entryID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// insertCompletionEntry writes the diary record produced by completing
// task for plantID, dated today.
func insertCompletionEntry(ctx context.Context, q dbtx, plantID int64, task Task) (int64, error) {
	today := nowFunc().Format(DateFormat)
	year, err := yearOfDate(today)
	if err != nil {
		return 0, err
	}

	res, err := q.ExecContext(
		ctx,
		createDiaryEntryStatement,
		plantID,
		today,
		CareStageTaskCompleted,
		nullIfEmpty(task.Description),
		year,
		task.ID,
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// UncompleteTaskForPlant reverses a single plant's completion: the task
// reopens with the plant pending again and the completion's diary entry
// is deleted, its photos detached. A missing task or entry makes the
// whole call a silent no-op. The reminder is rescheduled when the task
// carries a time.
func UncompleteTaskForPlant(ctx context.Context, db *sql.DB, sched Scheduler, taskID, diaryEntryID, plantID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	task, err := getTask(ctx, tx, taskID)
	if errors.Is(err, ErrTaskNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	// Same protocol as DeleteDiaryEntry: photos attached to the entry
	// stay with the plant, only the entry link clears. The no-op path
	// returns before commit, rolling the detach back with it.
	if _, err := tx.ExecContext(ctx, detachPhotosFromEntryStatement, diaryEntryID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, deleteDiaryEntryStatement, diaryEntryID)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return nil
	}

	task = applyUncompletion(task, plantID)

	_, err = tx.ExecContext(
		ctx,
		updateTaskListsStatement,
		encodeIDList(task.PlantIDs),
		encodeIDList(task.CompletedPlantIDs),
		task.Completed,
		taskID,
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if task.Time != "" {
		scheduleTask(sched, task)
	}

	return nil
}

// DeleteTask removes a task and cancels its reminder. Diary entries the
// task produced are kept as historical records.
func DeleteTask(ctx context.Context, db *sql.DB, sched Scheduler, id int64) error {
	res, err := db.ExecContext(ctx, deleteTaskStatement, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	cancelTask(sched, id)

	return nil
}

// SnoozeTask pushes a task's due date to tomorrow, relative to the
// moment of the call in local time. The time of day is untouched.
func SnoozeTask(ctx context.Context, db *sql.DB, id int64) (Task, error) {
	tomorrow := nowFunc().AddDate(0, 0, 1).Format(DateFormat)

	res, err := db.ExecContext(ctx, setTaskDateStatement, tomorrow, id)
	if err != nil {
		return Task{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return Task{}, err
	}

	if rowsAffected == 0 {
		return Task{}, ErrTaskNotFound
	}

	return GetTask(ctx, db, id)
}

// RescheduleAllNotifications re-requests reminders for every pending
// timed task, typically after process start. Best-effort per task.
func RescheduleAllNotifications(ctx context.Context, db *sql.DB, sched Scheduler) error {
	if sched == nil {
		return nil
	}

	tasks, err := ListTasks(ctx, db, false)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		if task.Time != "" {
			scheduleTask(sched, task)
		}
	}

	return nil
}
