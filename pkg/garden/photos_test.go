package garden

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func countMainPhotos(t *testing.T, testDB *sql.DB, plantID int64) int {
	t.Helper()

	var count int
	err := testDB.QueryRow("SELECT COUNT(*) FROM photos WHERE plant_id = ? AND is_main_photo = 1", plantID).Scan(&count)
	if err != nil {
		t.Fatalf("main photo count query failed: %v", err)
	}
	return count
}

func TestAddPhotoMainReplacesPrevious(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	plant := mustCreatePlant(t, testDB, "Oregano")

	first, err := AddPhoto(ctx, testDB, plant.ID, 0, "data:image/png;base64,AAAA", true)
	if err != nil {
		t.Fatalf("AddPhoto(first) failed: %v", err)
	}
	if !first.IsMainPhoto {
		t.Errorf("Expected first photo marked main")
	}

	second, err := AddPhoto(ctx, testDB, plant.ID, 0, "data:image/png;base64,BBBB", true)
	if err != nil {
		t.Fatalf("AddPhoto(second) failed: %v", err)
	}
	if !second.IsMainPhoto {
		t.Errorf("Expected second photo marked main")
	}

	if got := countMainPhotos(t, testDB, plant.ID); got != 1 {
		t.Errorf("Expected exactly one main photo per plant, got %d", got)
	}

	demoted, err := GetPhoto(ctx, testDB, first.ID)
	if err != nil {
		t.Fatalf("GetPhoto failed: %v", err)
	}
	if demoted.IsMainPhoto {
		t.Errorf("Expected first photo demoted")
	}
}

func TestSetMainPhoto(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	plant := mustCreatePlant(t, testDB, "Parsley")

	first, err := AddPhoto(ctx, testDB, plant.ID, 0, "data:image/png;base64,AAAA", true)
	if err != nil {
		t.Fatalf("AddPhoto failed: %v", err)
	}
	second, err := AddPhoto(ctx, testDB, plant.ID, 0, "data:image/png;base64,BBBB", false)
	if err != nil {
		t.Fatalf("AddPhoto failed: %v", err)
	}

	promoted, err := SetMainPhoto(ctx, testDB, second.ID)
	if err != nil {
		t.Fatalf("SetMainPhoto failed: %v", err)
	}
	if !promoted.IsMainPhoto {
		t.Errorf("Expected photo promoted to main")
	}
	if got := countMainPhotos(t, testDB, plant.ID); got != 1 {
		t.Errorf("Expected exactly one main photo, got %d", got)
	}

	main, err := GetMainPhoto(ctx, testDB, plant.ID)
	if err != nil {
		t.Fatalf("GetMainPhoto failed: %v", err)
	}
	if main.ID != second.ID {
		t.Errorf("Expected photo %d as main, got %d", second.ID, main.ID)
	}

	demoted, err := GetPhoto(ctx, testDB, first.ID)
	if err != nil {
		t.Fatalf("GetPhoto failed: %v", err)
	}
	if demoted.IsMainPhoto {
		t.Errorf("Expected previous main photo demoted")
	}

	if _, err := SetMainPhoto(ctx, testDB, 9999); !errors.Is(err, ErrPhotoNotFound) {
		t.Errorf("Expected ErrPhotoNotFound, got %v", err)
	}
}

func TestMainPhotosIndependentAcrossPlants(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	plantA := mustCreatePlant(t, testDB, "Quince")
	plantB := mustCreatePlant(t, testDB, "Radish")

	if _, err := AddPhoto(ctx, testDB, plantA.ID, 0, "data:image/png;base64,AAAA", true); err != nil {
		t.Fatalf("AddPhoto failed: %v", err)
	}
	if _, err := AddPhoto(ctx, testDB, plantB.ID, 0, "data:image/png;base64,BBBB", true); err != nil {
		t.Fatalf("AddPhoto failed: %v", err)
	}

	if got := countMainPhotos(t, testDB, plantA.ID); got != 1 {
		t.Errorf("Expected plant A to keep its main photo, got %d", got)
	}
	if got := countMainPhotos(t, testDB, plantB.ID); got != 1 {
		t.Errorf("Expected plant B to keep its main photo, got %d", got)
	}
}

func TestDeletePhoto(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	plant := mustCreatePlant(t, testDB, "Sage")

	photo, err := AddPhoto(ctx, testDB, plant.ID, 0, "data:image/png;base64,AAAA", false)
	if err != nil {
		t.Fatalf("AddPhoto failed: %v", err)
	}

	if err := DeletePhoto(ctx, testDB, photo.ID); err != nil {
		t.Fatalf("DeletePhoto failed: %v", err)
	}
	if _, err := GetPhoto(ctx, testDB, photo.ID); !errors.Is(err, ErrPhotoNotFound) {
		t.Errorf("Expected photo gone, got %v", err)
	}
	if err := DeletePhoto(ctx, testDB, photo.ID); !errors.Is(err, ErrPhotoNotFound) {
		t.Errorf("Expected ErrPhotoNotFound on double delete, got %v", err)
	}
}
