package garden

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	createCompanionStatement = `
	INSERT INTO companion_plantings (plant_id, companion_plant_id, benefits)
	VALUES (?, ?, ?)
	`

	getCompanionStatement = `
	SELECT id, plant_id, companion_plant_id, benefits
	FROM companion_plantings
	WHERE id = ?
	`

	listCompanionsStatement = `
	SELECT id, plant_id, companion_plant_id, benefits
	FROM companion_plantings
	WHERE plant_id = ? OR companion_plant_id = ?
	ORDER BY id ASC
	`

	deleteCompanionStatement = `
	DELETE FROM companion_plantings
	WHERE id = ?
	`
)

// AddCompanion records a directed helps-relationship: the companion
// plant benefits the target plant. Both plants must exist and differ.
func AddCompanion(ctx context.Context, db *sql.DB, plantID, companionPlantID int64, benefits string) (CompanionPlanting, error) {
	if plantID == companionPlantID {
		return CompanionPlanting{}, fmt.Errorf("%w: a plant cannot be its own companion", ErrConstraintViolation)
	}

	if _, err := GetPlant(ctx, db, plantID); err != nil {
		return CompanionPlanting{}, err
	}
	if _, err := GetPlant(ctx, db, companionPlantID); err != nil {
		return CompanionPlanting{}, err
	}

	res, err := db.ExecContext(
		ctx,
		createCompanionStatement,
		plantID,
		companionPlantID,
		nullIfEmpty(benefits),
	)
	if err != nil {
		return CompanionPlanting{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return CompanionPlanting{}, err
	}

	return GetCompanion(ctx, db, id)
}

// GetCompanion retrieves a companion edge by id.
func GetCompanion(ctx context.Context, db *sql.DB, id int64) (CompanionPlanting, error) {
	return scanCompanion(db.QueryRowContext(ctx, getCompanionStatement, id))
}

func scanCompanion(row rowScanner) (CompanionPlanting, error) {
	var companion CompanionPlanting
	var benefits sql.NullString

	err := row.Scan(
		&companion.ID,
		&companion.PlantID,
		&companion.CompanionPlantID,
		&benefits,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CompanionPlanting{}, ErrCompanionNotFound
		}
		return CompanionPlanting{}, err
	}

	companion.Benefits = benefits.String

	return companion, nil
}

// ListCompanionsForPlant returns every edge touching the plant, as
// either beneficiary or helper.
func ListCompanionsForPlant(ctx context.Context, db *sql.DB, plantID int64) ([]CompanionPlanting, error) {
	rows, err := db.QueryContext(ctx, listCompanionsStatement, plantID, plantID)
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

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return companions, nil
}

// DeleteCompanion removes a companion edge.
func DeleteCompanion(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, deleteCompanionStatement, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrCompanionNotFound
	}

	return nil
}
