package garden

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/seedling-app/seedling/pkg/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use OpenDBConnection to get an in-memory DB for testing
	testDB, err := db.OpenDBConnection(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	// Initialize the database schema
	if err := db.InitializeSchema(testDB, db.TargetSchemaVersion); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	return testDB
}

func mustCreatePlant(t *testing.T, testDB *sql.DB, name string) Plant {
	t.Helper()

	plant, err := CreatePlant(context.Background(), testDB, Plant{Name: name})
	if err != nil {
		t.Fatalf("CreatePlant(%q) failed: %v", name, err)
	}
	return plant
}

func TestCreatePlant(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()

	plant, err := CreatePlant(ctx, testDB, Plant{
		Name:           "Tomato",
		LatinName:      "Solanum lycopersicum",
		Lifecycle:      LifecycleAnnual,
		SowingPeriod:   &Period{Start: 3, End: 5},
		HarvestPeriod:  &Period{Start: 7, End: 9},
		FrostTolerance: FrostToleranceTender,
		Instructions:   "Start indoors, transplant after last frost.",
	})
	if err != nil {
		t.Fatalf("CreatePlant failed: %v", err)
	}

	if plant.ID == 0 {
		t.Errorf("Expected plant ID to be assigned, got 0")
	}
	if plant.Name != "Tomato" {
		t.Errorf("Expected plant name Tomato, got %s", plant.Name)
	}
	if plant.Status != PlantStatusActive {
		t.Errorf("Expected new plant to be active, got %s", plant.Status)
	}
	if plant.SowingPeriod == nil || plant.SowingPeriod.Start != 3 || plant.SowingPeriod.End != 5 {
		t.Errorf("Sowing period not round-tripped: %+v", plant.SowingPeriod)
	}
	if plant.CreatedAt == "" {
		t.Errorf("Expected CreatedAt to be set")
	}

	// Verify the plant was actually stored in the database
	var storedName, storedStatus string
	err = testDB.QueryRow("SELECT name, status FROM plants WHERE id = ?", plant.ID).Scan(&storedName, &storedStatus)
	if err != nil {
		t.Fatalf("Failed to query database for stored plant: %v", err)
	}
	if storedName != "Tomato" || storedStatus != PlantStatusActive {
		t.Errorf("Stored plant data doesn't match created plant: %s/%s", storedName, storedStatus)
	}
}

func TestCreatePlantRequiresName(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	if _, err := CreatePlant(context.Background(), testDB, Plant{}); err == nil {
		t.Fatalf("CreatePlant should fail without a name")
	}
}

func TestGetPlantNotFound(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	_, err := GetPlant(context.Background(), testDB, 9999)
	if !errors.Is(err, ErrPlantNotFound) {
		t.Errorf("Expected ErrPlantNotFound, got %v", err)
	}
}

func TestListPlantsStatusFilter(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()

	active := mustCreatePlant(t, testDB, "Basil")
	archived := mustCreatePlant(t, testDB, "Carrot")
	if _, err := SetPlantStatus(ctx, testDB, archived.ID, PlantStatusArchived); err != nil {
		t.Fatalf("SetPlantStatus failed: %v", err)
	}

	all, err := ListPlants(ctx, testDB, "")
	if err != nil {
		t.Fatalf("ListPlants(all) failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 plants in unfiltered listing, got %d", len(all))
	}

	actives, err := ListPlants(ctx, testDB, PlantStatusActive)
	if err != nil {
		t.Fatalf("ListPlants(active) failed: %v", err)
	}
	if len(actives) != 1 || actives[0].ID != active.ID {
		t.Errorf("Expected only plant %d in active listing, got %+v", active.ID, actives)
	}

	archives, err := ListPlants(ctx, testDB, PlantStatusArchived)
	if err != nil {
		t.Fatalf("ListPlants(archived) failed: %v", err)
	}
	if len(archives) != 1 || archives[0].ID != archived.ID {
		t.Errorf("Expected only plant %d in archived listing, got %+v", archived.ID, archives)
	}
}

func TestUpdatePlantClearsOmittedOptionals(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()

	plant, err := CreatePlant(ctx, testDB, Plant{
		Name:         "Pepper",
		LatinName:    "Capsicum annuum",
		SowingPeriod: &Period{Start: 2, End: 4},
	})
	if err != nil {
		t.Fatalf("CreatePlant failed: %v", err)
	}

	updated, err := UpdatePlant(ctx, testDB, plant.ID, Plant{Name: "Chili Pepper"})
	if err != nil {
		t.Fatalf("UpdatePlant failed: %v", err)
	}

	if updated.Name != "Chili Pepper" {
		t.Errorf("Expected updated name, got %s", updated.Name)
	}
	if updated.LatinName != "" {
		t.Errorf("Expected latin name to be cleared, got %s", updated.LatinName)
	}
	if updated.SowingPeriod != nil {
		t.Errorf("Expected sowing period to be cleared, got %+v", updated.SowingPeriod)
	}
	if updated.CreatedAt != plant.CreatedAt {
		t.Errorf("UpdatePlant must not touch CreatedAt")
	}
}

func TestToggleArchive(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	plant := mustCreatePlant(t, testDB, "Mint")

	archived, err := ToggleArchive(ctx, testDB, plant.ID)
	if err != nil {
		t.Fatalf("ToggleArchive failed: %v", err)
	}
	if archived.Status != PlantStatusArchived {
		t.Errorf("Expected archived status, got %s", archived.Status)
	}

	restored, err := ToggleArchive(ctx, testDB, plant.ID)
	if err != nil {
		t.Fatalf("ToggleArchive (restore) failed: %v", err)
	}
	if restored.Status != PlantStatusActive {
		t.Errorf("Expected active status after second toggle, got %s", restored.Status)
	}
}

func TestPeriodContainsWrapsYearBoundary(t *testing.T) {
	p := Period{Start: 10, End: 3}

	for _, month := range []int{10, 11, 12, 1, 2, 3} {
		if !p.Contains(month) {
			t.Errorf("Expected Oct-Mar period to contain month %d", month)
		}
	}
	for _, month := range []int{4, 9} {
		if p.Contains(month) {
			t.Errorf("Expected Oct-Mar period to exclude month %d", month)
		}
	}
}
