package garden

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	createPlantStatement = `
	INSERT INTO plants (name, latin_name, status, lifecycle, sowing_start, sowing_end, harvest_start, harvest_end, frost_tolerance, instructions, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	getPlantStatement = `
	SELECT id, name, latin_name, status, lifecycle, sowing_start, sowing_end, harvest_start, harvest_end, frost_tolerance, instructions, created_at
	FROM plants
	WHERE id = ?
	`

	listPlantsStatement = `
	SELECT id, name, latin_name, status, lifecycle, sowing_start, sowing_end, harvest_start, harvest_end, frost_tolerance, instructions, created_at
	FROM plants
	WHERE status = ? OR ? = ''
	ORDER BY name COLLATE NOCASE ASC
	`

	updatePlantStatement = `
	UPDATE plants
	SET name = ?, latin_name = ?, lifecycle = ?, sowing_start = ?, sowing_end = ?, harvest_start = ?, harvest_end = ?, frost_tolerance = ?, instructions = ?
	WHERE id = ?
	`

	setPlantStatusStatement = `
	UPDATE plants
	SET status = ?
	WHERE id = ?
	`
)

// CreatePlant inserts a new plant record. The ID, Status (when empty)
// and CreatedAt fields of the argument are ignored and assigned by the
// store.
func CreatePlant(ctx context.Context, db *sql.DB, plant Plant) (Plant, error) {
	if plant.Name == "" {
		return Plant{}, errors.New("plant name is required")
	}

	status := plant.Status
	if status == "" {
		status = PlantStatusActive
	}

	sowStart, sowEnd := nullablePeriod(plant.SowingPeriod)
	harvStart, harvEnd := nullablePeriod(plant.HarvestPeriod)

	res, err := db.ExecContext(
		ctx,
		createPlantStatement,
		plant.Name,
		nullIfEmpty(plant.LatinName),
		status,
		nullIfEmpty(plant.Lifecycle),
		sowStart,
		sowEnd,
		harvStart,
		harvEnd,
		nullIfEmpty(plant.FrostTolerance),
		nullIfEmpty(plant.Instructions),
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return Plant{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Plant{}, err
	}

	return GetPlant(ctx, db, id)
}

// GetPlant retrieves a plant by id.
func GetPlant(ctx context.Context, db *sql.DB, id int64) (Plant, error) {
	return scanPlant(db.QueryRowContext(ctx, getPlantStatement, id))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlant(row rowScanner) (Plant, error) {
	var plant Plant
	var latinName, lifecycle, frostTolerance, instructions sql.NullString
	var sowStart, sowEnd, harvStart, harvEnd sql.NullInt64

	err := row.Scan(
		&plant.ID,
		&plant.Name,
		&latinName,
		&plant.Status,
		&lifecycle,
		&sowStart,
		&sowEnd,
		&harvStart,
		&harvEnd,
		&frostTolerance,
		&instructions,
		&plant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Plant{}, ErrPlantNotFound
		}
		return Plant{}, err
	}

	plant.LatinName = latinName.String
	plant.Lifecycle = lifecycle.String
	plant.FrostTolerance = frostTolerance.String
	plant.Instructions = instructions.String
	plant.SowingPeriod = periodFromColumns(sowStart, sowEnd)
	plant.HarvestPeriod = periodFromColumns(harvStart, harvEnd)

	return plant, nil
}

// ListPlants returns plants ordered by name. status filters to a single
// status; the empty string returns every plant.
func ListPlants(ctx context.Context, db *sql.DB, status string) ([]Plant, error) {
	rows, err := db.QueryContext(ctx, listPlantsStatement, status, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plants []Plant
	for rows.Next() {
		plant, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, plant)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return plants, nil
}

// UpdatePlant rewrites the editable fields of a plant. Status and
// CreatedAt are not touched here; archiving goes through SetPlantStatus.
func UpdatePlant(ctx context.Context, db *sql.DB, id int64, plant Plant) (Plant, error) {
	if plant.Name == "" {
		return Plant{}, errors.New("plant name is required")
	}

	sowStart, sowEnd := nullablePeriod(plant.SowingPeriod)
	harvStart, harvEnd := nullablePeriod(plant.HarvestPeriod)

	res, err := db.ExecContext(
		ctx,
		updatePlantStatement,
		plant.Name,
		nullIfEmpty(plant.LatinName),
		nullIfEmpty(plant.Lifecycle),
		sowStart,
		sowEnd,
		harvStart,
		harvEnd,
		nullIfEmpty(plant.FrostTolerance),
		nullIfEmpty(plant.Instructions),
		id,
	)
	if err != nil {
		return Plant{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return Plant{}, err
	}

	if rowsAffected == 0 {
		return Plant{}, ErrPlantNotFound
	}

	return GetPlant(ctx, db, id)
}

// SetPlantStatus sets a plant active or archived.
func SetPlantStatus(ctx context.Context, db *sql.DB, id int64, status string) (Plant, error) {
	if status != PlantStatusActive && status != PlantStatusArchived {
		return Plant{}, errors.New("status must be active or archived")
	}

	res, err := db.ExecContext(ctx, setPlantStatusStatement, status, id)
	if err != nil {
		return Plant{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return Plant{}, err
	}

	if rowsAffected == 0 {
		return Plant{}, ErrPlantNotFound
	}

	return GetPlant(ctx, db, id)
}

// ToggleArchive flips a plant between active and archived.
func ToggleArchive(ctx context.Context, db *sql.DB, id int64) (Plant, error) {
	plant, err := GetPlant(ctx, db, id)
	if err != nil {
		return Plant{}, err
	}

	status := PlantStatusArchived
	if plant.Status == PlantStatusArchived {
		status = PlantStatusActive
	}

	return SetPlantStatus(ctx, db, id, status)
}
