package garden

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	insertPhotoStatement = `
	INSERT INTO photos (plant_id, diary_entry_id, data_url, is_main_photo, created_at)
	VALUES (?, ?, ?, ?, ?)
	`

	getPhotoStatement = `
	SELECT id, plant_id, diary_entry_id, data_url, is_main_photo, created_at
	FROM photos
	WHERE id = ?
	`

	listPhotosStatement = `
	SELECT id, plant_id, diary_entry_id, data_url, is_main_photo, created_at
	FROM photos
	WHERE plant_id = ?
	ORDER BY created_at DESC, id DESC
	`

	getMainPhotoStatement = `
	SELECT id, plant_id, diary_entry_id, data_url, is_main_photo, created_at
	FROM photos
	WHERE plant_id = ? AND is_main_photo = 1
	`

	clearMainPhotoStatement = `
	UPDATE photos
	SET is_main_photo = 0
	WHERE plant_id = ? AND is_main_photo = 1
	`

	setMainPhotoStatement = `
	UPDATE photos
	SET is_main_photo = 1
	WHERE id = ?
	`

	deletePhotoStatement = `
	DELETE FROM photos
	WHERE id = ?
	`
)

// AddPhoto stores a photo for a plant. diaryEntryID of zero attaches the
// photo to no entry (a profile picture). When isMain is set the previous
// main photo, if any, is demoted inside the same transaction so a plant
// never holds two main photos.
func AddPhoto(ctx context.Context, db *sql.DB, plantID, diaryEntryID int64, dataURL string, isMain bool) (Photo, error) {
	if dataURL == "" {
		return Photo{}, errors.New("photo data is required")
	}

	if _, err := GetPlant(ctx, db, plantID); err != nil {
		return Photo{}, err
	}

	if diaryEntryID != 0 {
		if _, err := GetDiaryEntry(ctx, db, diaryEntryID); err != nil {
			return Photo{}, err
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Photo{}, err
	}
	defer tx.Rollback()

	if isMain {
		if _, err := tx.ExecContext(ctx, clearMainPhotoStatement, plantID); err != nil {
			return Photo{}, err
		}
	}

	res, err := tx.ExecContext(
		ctx,
		insertPhotoStatement,
		plantID,
		nullIfZero(diaryEntryID),
		dataURL,
		isMain,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return Photo{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Photo{}, err
	}

	if err := tx.Commit(); err != nil {
		return Photo{}, err
	}

	return GetPhoto(ctx, db, id)
}

// GetPhoto retrieves a photo by id.
func GetPhoto(ctx context.Context, db *sql.DB, id int64) (Photo, error) {
	return scanPhoto(db.QueryRowContext(ctx, getPhotoStatement, id))
}

func scanPhoto(row rowScanner) (Photo, error) {
	var photo Photo
	var diaryEntryID sql.NullInt64

	err := row.Scan(
		&photo.ID,
		&photo.PlantID,
		&diaryEntryID,
		&photo.DataURL,
		&photo.IsMainPhoto,
		&photo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Photo{}, ErrPhotoNotFound
		}
		return Photo{}, err
	}

	photo.DiaryEntryID = diaryEntryID.Int64

	return photo, nil
}

// ListPhotos returns a plant's photos, newest first.
func ListPhotos(ctx context.Context, db *sql.DB, plantID int64) ([]Photo, error) {
	rows, err := db.QueryContext(ctx, listPhotosStatement, plantID)
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

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return photos, nil
}

// GetMainPhoto returns a plant's profile photo, or ErrPhotoNotFound when
// none is designated.
func GetMainPhoto(ctx context.Context, db *sql.DB, plantID int64) (Photo, error) {
	return scanPhoto(db.QueryRowContext(ctx, getMainPhotoStatement, plantID))
}

// SetMainPhoto designates a photo as its plant's profile image, demoting
// the previous one in the same transaction.
func SetMainPhoto(ctx context.Context, db *sql.DB, id int64) (Photo, error) {
	photo, err := GetPhoto(ctx, db, id)
	if err != nil {
		return Photo{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Photo{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, clearMainPhotoStatement, photo.PlantID); err != nil {
		return Photo{}, err
	}

	if _, err := tx.ExecContext(ctx, setMainPhotoStatement, id); err != nil {
		return Photo{}, err
	}

	if err := tx.Commit(); err != nil {
		return Photo{}, err
	}

	return GetPhoto(ctx, db, id)
}

// DeletePhoto removes a photo.
func DeletePhoto(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, deletePhotoStatement, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPhotoNotFound
	}

	return nil
}
