package garden

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDeletePlantCascadesEverything(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	pinNow(t, time.Date(2025, 6, 20, 9, 0, 0, 0, time.Local))

	ctx := context.Background()
	doomed := mustCreatePlant(t, testDB, "Marrow")
	survivor := mustCreatePlant(t, testDB, "Nasturtium")

	// Diary and photos for the doomed plant
	if _, err := CreateDiaryEntry(ctx, testDB, doomed.ID, "2025-06-01", "sowed", "", 0); err != nil {
		t.Fatalf("CreateDiaryEntry failed: %v", err)
	}
	if _, err := AddPhoto(ctx, testDB, doomed.ID, 0, "data:image/png;base64,AAAA", true); err != nil {
		t.Fatalf("AddPhoto failed: %v", err)
	}

	// One task solely for the doomed plant, one shared
	solo := mustCreateTask(t, testDB, "Pinch out", "2025-06-21", []int64{doomed.ID})
	shared := mustCreateTask(t, testDB, "Water both", "2025-06-22", []int64{doomed.ID, survivor.ID})

	// A completed-membership trace on a task otherwise untouched
	traced := mustCreateTask(t, testDB, "Mulch", "2025-06-23", []int64{doomed.ID, survivor.ID})
	if _, err := CompleteTaskForPlant(ctx, testDB, nil, traced.ID, doomed.ID); err != nil {
		t.Fatalf("CompleteTaskForPlant failed: %v", err)
	}

	// Companion edges in both directions
	if _, err := AddCompanion(ctx, testDB, doomed.ID, survivor.ID, "shade"); err != nil {
		t.Fatalf("AddCompanion failed: %v", err)
	}
	if _, err := AddCompanion(ctx, testDB, survivor.ID, doomed.ID, "pest control"); err != nil {
		t.Fatalf("AddCompanion failed: %v", err)
	}

	if err := DeletePlant(ctx, testDB, nil, doomed.ID); err != nil {
		t.Fatalf("DeletePlant failed: %v", err)
	}

	// The plant row is gone
	if _, err := GetPlant(ctx, testDB, doomed.ID); !errors.Is(err, ErrPlantNotFound) {
		t.Errorf("Expected plant gone, got %v", err)
	}

	// No diary entries or photos reference it anymore
	var count int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM diary_entries WHERE plant_id = ?", doomed.ID).Scan(&count); err != nil {
		t.Fatalf("diary count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no diary entries for the deleted plant, got %d", count)
	}
	if err := testDB.QueryRow("SELECT COUNT(*) FROM photos WHERE plant_id = ?", doomed.ID).Scan(&count); err != nil {
		t.Fatalf("photo count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no photos for the deleted plant, got %d", count)
	}

	// The solo task is deleted outright
	if _, err := GetTask(ctx, testDB, solo.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected solo task deleted, got %v", err)
	}

	// The shared task survives without the plant in either list
	kept, err := GetTask(ctx, testDB, shared.ID)
	if err != nil {
		t.Fatalf("GetTask(shared) failed: %v", err)
	}
	if containsID(kept.PlantIDs, doomed.ID) || containsID(kept.CompletedPlantIDs, doomed.ID) {
		t.Errorf("Shared task still references the deleted plant: %+v", kept)
	}
	if !containsID(kept.PlantIDs, survivor.ID) {
		t.Errorf("Shared task lost the surviving plant: %+v", kept)
	}

	// The completed-membership trace is scrubbed too
	scrubbed, err := GetTask(ctx, testDB, traced.ID)
	if err != nil {
		t.Fatalf("GetTask(traced) failed: %v", err)
	}
	if containsID(scrubbed.CompletedPlantIDs, doomed.ID) {
		t.Errorf("Completed-membership trace not scrubbed: %+v", scrubbed)
	}

	// Companion edges are gone in both directions
	companions, err := ListCompanionsForPlant(ctx, testDB, survivor.ID)
	if err != nil {
		t.Fatalf("ListCompanionsForPlant failed: %v", err)
	}
	if len(companions) != 0 {
		t.Errorf("Expected no companion edges after deletion, got %+v", companions)
	}

	// The survivor and its data are untouched
	if _, err := GetPlant(ctx, testDB, survivor.ID); err != nil {
		t.Errorf("Survivor plant must be untouched: %v", err)
	}
}

func TestDeletePlantMissingIsNoError(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	if err := DeletePlant(context.Background(), testDB, nil, 9999); err != nil {
		t.Errorf("Deleting a missing plant must not error, got %v", err)
	}
}
