package garden

import (
	"context"
	"database/sql"
)

const (
	deleteDiaryByPlantStatement = `
	DELETE FROM diary_entries
	WHERE plant_id = ?
	`

	deletePhotosByPlantStatement = `
	DELETE FROM photos
	WHERE plant_id = ?
	`

	deleteCompanionsByPlantStatement = `
	DELETE FROM companion_plantings
	WHERE plant_id = ? OR companion_plant_id = ?
	`

	deletePlantStatement = `
	DELETE FROM plants
	WHERE id = ?
	`
)

// DeletePlant removes a plant and every dependent record in one
// transaction, leaving no dangling references:
//
//  1. all of the plant's diary entries;
//  2. all of the plant's photos;
//  3. tasks the plant is the sole pending member of are deleted
//     outright, tasks shared with other plants just lose this plant
//     from both membership lists;
//  4. completed-membership traces of this plant on any other task are
//     scrubbed as well;
//  5. companion edges touching the plant in either direction;
//  6. the plant row itself, last, so a partially applied run is
//     detectable by the plant still existing.
//
// Deleting a plant that no longer exists is not an error. Reminder
// cancellations for deleted tasks are issued after commit, best-effort.
func DeletePlant(ctx context.Context, db *sql.DB, sched Scheduler, plantID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteDiaryByPlantStatement, plantID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, deletePhotosByPlantStatement, plantID); err != nil {
		return err
	}

	deletedTaskIDs, err := detachPlantFromTasks(ctx, tx, plantID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, deleteCompanionsByPlantStatement, plantID, plantID); err != nil {
		return err
	}

	// Already-deleted is an acceptable outcome, so zero rows here is
	// tolerated rather than surfaced.
	if _, err := tx.ExecContext(ctx, deletePlantStatement, plantID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, taskID := range deletedTaskIDs {
		cancelTask(sched, taskID)
	}

	return nil
}

// detachPlantFromTasks rewrites or removes every task referencing the
// plant and returns the ids of tasks deleted outright.
func detachPlantFromTasks(ctx context.Context, tx dbtx, plantID int64) ([]int64, error) {
	tasks, err := listTasks(ctx, tx, true)
	if err != nil {
		return nil, err
	}

	var deleted []int64
	for _, task := range tasks {
		switch {
		case containsID(task.PlantIDs, plantID):
			if len(task.PlantIDs) == 1 {
				if _, err := tx.ExecContext(ctx, deleteTaskStatement, task.ID); err != nil {
					return nil, err
				}
				deleted = append(deleted, task.ID)
				continue
			}
			task.PlantIDs = removeID(task.PlantIDs, plantID)
			task.CompletedPlantIDs = removeID(task.CompletedPlantIDs, plantID)
			if err := updateTaskLists(ctx, tx, task); err != nil {
				return nil, err
			}
		case containsID(task.CompletedPlantIDs, plantID):
			// Completed-membership trace on a task not otherwise
			// touched, including already-completed tasks.
			task.CompletedPlantIDs = removeID(task.CompletedPlantIDs, plantID)
			if err := updateTaskLists(ctx, tx, task); err != nil {
				return nil, err
			}
		}
	}

	return deleted, nil
}

func updateTaskLists(ctx context.Context, q dbtx, task Task) error {
	_, err := q.ExecContext(
		ctx,
		updateTaskListsStatement,
		encodeIDList(task.PlantIDs),
		encodeIDList(task.CompletedPlantIDs),
		task.Completed,
		task.ID,
	)
	return err
}
