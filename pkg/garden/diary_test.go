package garden

import (
	"context"
	"errors"
	"testing"
)

func TestCreateDiaryEntryDerivesYear(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	plant := mustCreatePlant(t, testDB, "Lettuce")

	entry, err := CreateDiaryEntry(ctx, testDB, plant.ID, "2025-04-12", "sowed", "First sowing of the year", 0)
	if err != nil {
		t.Fatalf("CreateDiaryEntry failed: %v", err)
	}

	if entry.Year != 2025 {
		t.Errorf("Expected year 2025 derived from date, got %d", entry.Year)
	}
	if entry.PlantID != plant.ID {
		t.Errorf("Expected entry bound to plant %d, got %d", plant.ID, entry.PlantID)
	}
	if entry.TaskID != 0 {
		t.Errorf("Expected no task link, got %d", entry.TaskID)
	}
}

func TestCreateDiaryEntryRejectsBadDate(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	plant := mustCreatePlant(t, testDB, "Lettuce")

	if _, err := CreateDiaryEntry(context.Background(), testDB, plant.ID, "12/04/2025", "sowed", "", 0); err == nil {
		t.Fatalf("CreateDiaryEntry should reject a date not in YYYY-MM-DD form")
	}
}

func TestCreateDiaryEntryUnknownPlant(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	_, err := CreateDiaryEntry(context.Background(), testDB, 42, "2025-04-12", "sowed", "", 0)
	if !errors.Is(err, ErrPlantNotFound) {
		t.Errorf("Expected ErrPlantNotFound, got %v", err)
	}
}

func TestListDiaryEntriesYearFilter(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	plant := mustCreatePlant(t, testDB, "Rhubarb")

	for _, date := range []string{"2024-05-01", "2024-06-10", "2025-03-15"} {
		if _, err := CreateDiaryEntry(ctx, testDB, plant.ID, date, "watered", "", 0); err != nil {
			t.Fatalf("CreateDiaryEntry(%s) failed: %v", date, err)
		}
	}

	all, err := ListDiaryEntries(ctx, testDB, plant.ID, 0)
	if err != nil {
		t.Fatalf("ListDiaryEntries(all years) failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 entries across all years, got %d", len(all))
	}
	// Newest first
	if all[0].Date != "2025-03-15" {
		t.Errorf("Expected newest entry first, got %s", all[0].Date)
	}

	only2024, err := ListDiaryEntries(ctx, testDB, plant.ID, 2024)
	if err != nil {
		t.Fatalf("ListDiaryEntries(2024) failed: %v", err)
	}
	if len(only2024) != 2 {
		t.Errorf("Expected 2 entries for 2024, got %d", len(only2024))
	}

	years, err := ListDiaryYears(ctx, testDB, plant.ID)
	if err != nil {
		t.Fatalf("ListDiaryYears failed: %v", err)
	}
	if len(years) != 2 || years[0] != 2025 || years[1] != 2024 {
		t.Errorf("Expected years [2025, 2024], got %v", years)
	}
}

func TestUpdateDiaryEntryRederivesYear(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	plant := mustCreatePlant(t, testDB, "Kale")

	entry, err := CreateDiaryEntry(ctx, testDB, plant.ID, "2024-11-02", "planted", "", 0)
	if err != nil {
		t.Fatalf("CreateDiaryEntry failed: %v", err)
	}

	updated, err := UpdateDiaryEntry(ctx, testDB, entry.ID, "2025-01-05", "transplanted", "Moved to the greenhouse")
	if err != nil {
		t.Fatalf("UpdateDiaryEntry failed: %v", err)
	}

	if updated.Year != 2025 {
		t.Errorf("Expected year re-derived to 2025, got %d", updated.Year)
	}
	if updated.CareStage != "transplanted" {
		t.Errorf("Expected care stage updated, got %s", updated.CareStage)
	}
	if updated.PlantID != plant.ID {
		t.Errorf("Plant link must be immutable")
	}
}

func TestDeleteDiaryEntryDetachesPhotos(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	plant := mustCreatePlant(t, testDB, "Squash")

	entry, err := CreateDiaryEntry(ctx, testDB, plant.ID, "2025-06-01", "harvested", "", 0)
	if err != nil {
		t.Fatalf("CreateDiaryEntry failed: %v", err)
	}

	photo, err := AddPhoto(ctx, testDB, plant.ID, entry.ID, "data:image/png;base64,AAAA", false)
	if err != nil {
		t.Fatalf("AddPhoto failed: %v", err)
	}
	if photo.DiaryEntryID != entry.ID {
		t.Fatalf("Expected photo linked to entry %d, got %d", entry.ID, photo.DiaryEntryID)
	}

	if err := DeleteDiaryEntry(ctx, testDB, entry.ID); err != nil {
		t.Fatalf("DeleteDiaryEntry failed: %v", err)
	}

	if _, err := GetDiaryEntry(ctx, testDB, entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected entry to be gone, got %v", err)
	}

	// Photo survives with the entry link cleared
	kept, err := GetPhoto(ctx, testDB, photo.ID)
	if err != nil {
		t.Fatalf("GetPhoto after entry deletion failed: %v", err)
	}
	if kept.DiaryEntryID != 0 {
		t.Errorf("Expected photo detached from the deleted entry, got link to %d", kept.DiaryEntryID)
	}
	if kept.PlantID != plant.ID {
		t.Errorf("Photo must stay with the plant")
	}
}

func TestSearchDiary(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	plantA := mustCreatePlant(t, testDB, "Rosemary")
	plantB := mustCreatePlant(t, testDB, "Thyme")

	if _, err := CreateDiaryEntry(ctx, testDB, plantA.ID, "2025-05-01", "pruned", "Cut back the woody stems", 0); err != nil {
		t.Fatalf("CreateDiaryEntry failed: %v", err)
	}
	if _, err := CreateDiaryEntry(ctx, testDB, plantB.ID, "2025-05-02", "watered", "Light watering", 0); err != nil {
		t.Fatalf("CreateDiaryEntry failed: %v", err)
	}

	// Matches note text across plants
	matches, err := SearchDiary(ctx, testDB, "woody")
	if err != nil {
		t.Fatalf("SearchDiary failed: %v", err)
	}
	if len(matches) != 1 || matches[0].PlantID != plantA.ID {
		t.Errorf("Expected one match on plant %d, got %+v", plantA.ID, matches)
	}

	// Matches care stage text too
	matches, err = SearchDiary(ctx, testDB, "watered")
	if err != nil {
		t.Fatalf("SearchDiary failed: %v", err)
	}
	if len(matches) != 1 || matches[0].PlantID != plantB.ID {
		t.Errorf("Expected one care-stage match on plant %d, got %+v", plantB.ID, matches)
	}

	// Empty query matches nothing
	matches, err = SearchDiary(ctx, testDB, "")
	if err != nil {
		t.Fatalf("SearchDiary with empty query failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Expected no matches for empty query, got %d", len(matches))
	}
}
