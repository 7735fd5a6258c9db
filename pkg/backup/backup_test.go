package backup

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/seedling-app/seedling/pkg/db"
	"github.com/seedling-app/seedling/pkg/garden"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.OpenDBConnection(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if err := db.InitializeSchema(testDB, db.TargetSchemaVersion); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	return testDB
}

func validationReason(t *testing.T, err error) string {
	t.Helper()

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected a ValidationError, got %v", err)
	}
	return validationErr.Reason
}

func TestValidate(t *testing.T) {
	valid := `{"version":1,"exportDate":"2025-01-01T00:00:00Z","data":{"plants":[],"diaryEntries":[],"photos":[],"tasks":[],"companionPlantings":[]}}`
	if err := Validate([]byte(valid)); err != nil {
		t.Errorf("Expected an empty backup to validate, got %v", err)
	}

	cases := []struct {
		name   string
		raw    string
		reason string
	}{
		{"not JSON", `this is not json`, "Invalid file format"},
		{"JSON array", `[1, 2, 3]`, "Invalid file format"},
		{"JSON null", `null`, "Invalid file format"},
		{"no data key", `{"version":1}`, "Missing data section"},
		{"null data", `{"version":1,"data":null}`, "Missing data section"},
		{"empty data", `{"data":{}}`, "Missing or invalid plants data"},
		{"data not an object", `{"data":"plants"}`, "Missing or invalid plants data"},
		{"null table", `{"data":{"plants":null,"diaryEntries":[],"photos":[],"tasks":[],"companionPlantings":[]}}`, "Missing or invalid plants data"},
		{"table not an array", `{"data":{"plants":[],"diaryEntries":{},"photos":[],"tasks":[],"companionPlantings":[]}}`, "Missing or invalid diaryEntries data"},
		{"missing later table", `{"data":{"plants":[],"diaryEntries":[],"photos":[],"tasks":[]}}`, "Missing or invalid companionPlantings data"},
	}

	for _, tc := range cases {
		err := Validate([]byte(tc.raw))
		if err == nil {
			t.Errorf("%s: expected validation failure", tc.name)
			continue
		}
		if reason := validationReason(t, err); reason != tc.reason {
			t.Errorf("%s: expected reason %q, got %q", tc.name, tc.reason, reason)
		}
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2025, 3, 7, 15, 4, 5, 0, time.UTC)
	if got := Filename(at); got != "seedling-backup-2025-03-07.json" {
		t.Errorf("Unexpected backup filename: %s", got)
	}
}

// populateStore builds a small garden exercising every collection and
// returns it for comparison after a round trip.
func populateStore(t *testing.T, testDB *sql.DB) {
	t.Helper()

	ctx := context.Background()

	tomato, err := garden.CreatePlant(ctx, testDB, garden.Plant{
		Name:          "Tomato",
		LatinName:     "Solanum lycopersicum",
		Lifecycle:     garden.LifecycleAnnual,
		SowingPeriod:  &garden.Period{Start: 3, End: 5},
		HarvestPeriod: &garden.Period{Start: 7, End: 9},
	})
	if err != nil {
		t.Fatalf("CreatePlant failed: %v", err)
	}
	basil, err := garden.CreatePlant(ctx, testDB, garden.Plant{Name: "Basil"})
	if err != nil {
		t.Fatalf("CreatePlant failed: %v", err)
	}

	entry, err := garden.CreateDiaryEntry(ctx, testDB, tomato.ID, "2025-04-10", "sowed", "Six modules", 0)
	if err != nil {
		t.Fatalf("CreateDiaryEntry failed: %v", err)
	}
	if _, err := garden.AddPhoto(ctx, testDB, tomato.ID, entry.ID, "data:image/png;base64,AAAA", true); err != nil {
		t.Fatalf("AddPhoto failed: %v", err)
	}

	task, err := garden.CreateTask(ctx, testDB, nil, "Water both", "2025-04-12", "08:00", []int64{tomato.ID, basil.ID})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	// A partially completed task exercises both membership lists
	if _, err := garden.CompleteTaskForPlant(ctx, testDB, nil, task.ID, tomato.ID); err != nil {
		t.Fatalf("CompleteTaskForPlant failed: %v", err)
	}

	if _, err := garden.AddCompanion(ctx, testDB, tomato.ID, basil.ID, "repels aphids"); err != nil {
		t.Fatalf("AddCompanion failed: %v", err)
	}
}

func snapshotCollections(t *testing.T, testDB *sql.DB) Data {
	t.Helper()

	ctx := context.Background()
	plants, err := garden.ListPlants(ctx, testDB, "")
	if err != nil {
		t.Fatalf("ListPlants failed: %v", err)
	}
	entries, err := garden.ListAllDiaryEntries(ctx, testDB)
	if err != nil {
		t.Fatalf("ListAllDiaryEntries failed: %v", err)
	}
	photos, err := garden.ListAllPhotos(ctx, testDB)
	if err != nil {
		t.Fatalf("ListAllPhotos failed: %v", err)
	}
	tasks, err := garden.ListAllTasks(ctx, testDB)
	if err != nil {
		t.Fatalf("ListAllTasks failed: %v", err)
	}
	companions, err := garden.ListAllCompanions(ctx, testDB)
	if err != nil {
		t.Fatalf("ListAllCompanions failed: %v", err)
	}

	return Data{
		Plants:             plants,
		DiaryEntries:       entries,
		Photos:             photos,
		Tasks:              tasks,
		CompanionPlantings: companions,
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source := setupTestDB(t)
	defer source.Close()
	populateStore(t, source)

	before := snapshotCollections(t, source)

	doc, err := Export(context.Background(), source, nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if doc.Version != FormatVersion {
		t.Errorf("Expected document version %d, got %d", FormatVersion, doc.Version)
	}

	raw, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Import into a fresh store
	target := setupTestDB(t)
	defer target.Close()

	if err := Import(context.Background(), target, nil, raw); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	after := snapshotCollections(t, target)

	if !reflect.DeepEqual(before.Plants, after.Plants) {
		t.Errorf("Plants did not round-trip.\nBefore: %+v\nAfter:  %+v", before.Plants, after.Plants)
	}
	if !reflect.DeepEqual(before.DiaryEntries, after.DiaryEntries) {
		t.Errorf("Diary entries did not round-trip.\nBefore: %+v\nAfter:  %+v", before.DiaryEntries, after.DiaryEntries)
	}
	if !reflect.DeepEqual(before.Photos, after.Photos) {
		t.Errorf("Photos did not round-trip.\nBefore: %+v\nAfter:  %+v", before.Photos, after.Photos)
	}
	if !reflect.DeepEqual(before.Tasks, after.Tasks) {
		t.Errorf("Tasks did not round-trip.\nBefore: %+v\nAfter:  %+v", before.Tasks, after.Tasks)
	}
	if !reflect.DeepEqual(before.CompanionPlantings, after.CompanionPlantings) {
		t.Errorf("Companions did not round-trip.\nBefore: %+v\nAfter:  %+v", before.CompanionPlantings, after.CompanionPlantings)
	}

	// Importing records the document's export date as the last backup
	last, ok, err := LastBackupDate(context.Background(), target)
	if err != nil || !ok {
		t.Fatalf("Expected last backup date recorded after import (ok=%t, err=%v)", ok, err)
	}
	exportedAt, _ := time.Parse(time.RFC3339, doc.ExportDate)
	if !last.Equal(exportedAt) {
		t.Errorf("Expected last backup %v, got %v", exportedAt, last)
	}
}

func TestImportInvalidLeavesStoreUntouched(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()
	populateStore(t, testDB)

	before := snapshotCollections(t, testDB)

	err := Import(context.Background(), testDB, nil, []byte(`{"data":{"plants":[]}}`))
	if err == nil {
		t.Fatalf("Import should reject a structurally invalid document")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("Expected a ValidationError, got %v", err)
	}

	after := snapshotCollections(t, testDB)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Rejected import modified the store")
	}
}

func TestImportReplacesExistingData(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()
	populateStore(t, testDB)

	empty := `{"version":1,"exportDate":"2025-01-01T00:00:00Z","data":{"plants":[],"diaryEntries":[],"photos":[],"tasks":[],"companionPlantings":[]}}`
	if err := Import(context.Background(), testDB, nil, []byte(empty)); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	after := snapshotCollections(t, testDB)
	if len(after.Plants) != 0 || len(after.DiaryEntries) != 0 || len(after.Photos) != 0 || len(after.Tasks) != 0 || len(after.CompanionPlantings) != 0 {
		t.Errorf("Import must replace existing data, got %+v", after)
	}
}

func TestExportRecordsBackupTimestamp(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	if _, err := Export(context.Background(), testDB, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	_, ok, err := LastBackupDate(context.Background(), testDB)
	if err != nil {
		t.Fatalf("LastBackupDate failed: %v", err)
	}
	if !ok {
		t.Errorf("Expected export to record the backup timestamp")
	}
}

func TestShouldShowBackupReminder(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

	// Never backed up: reminder shows
	show, err := ShouldShowBackupReminder(ctx, testDB, now)
	if err != nil {
		t.Fatalf("ShouldShowBackupReminder failed: %v", err)
	}
	if !show {
		t.Errorf("Expected reminder for a store never backed up")
	}

	// Fresh backup: no reminder
	if err := SetLastBackupDate(ctx, testDB, now.AddDate(0, 0, -1)); err != nil {
		t.Fatalf("SetLastBackupDate failed: %v", err)
	}
	show, err = ShouldShowBackupReminder(ctx, testDB, now)
	if err != nil {
		t.Fatalf("ShouldShowBackupReminder failed: %v", err)
	}
	if show {
		t.Errorf("Expected no reminder one day after a backup")
	}

	// Stale backup: reminder shows again
	if err := SetLastBackupDate(ctx, testDB, now.AddDate(0, 0, -31)); err != nil {
		t.Fatalf("SetLastBackupDate failed: %v", err)
	}
	show, err = ShouldShowBackupReminder(ctx, testDB, now)
	if err != nil {
		t.Fatalf("ShouldShowBackupReminder failed: %v", err)
	}
	if !show {
		t.Errorf("Expected reminder 31 days after the last backup")
	}

	// Dismissal suppresses it for the rest of the day
	if err := DismissReminder(ctx, testDB, now); err != nil {
		t.Fatalf("DismissReminder failed: %v", err)
	}
	show, err = ShouldShowBackupReminder(ctx, testDB, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("ShouldShowBackupReminder failed: %v", err)
	}
	if show {
		t.Errorf("Expected no reminder after dismissing today")
	}

	// The next day it comes back
	show, err = ShouldShowBackupReminder(ctx, testDB, now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ShouldShowBackupReminder failed: %v", err)
	}
	if !show {
		t.Errorf("Expected reminder to return the day after dismissal")
	}
}

func TestDaysSinceLastBackup(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

	if _, ok, err := DaysSinceLastBackup(ctx, testDB, now); err != nil || ok {
		t.Errorf("Expected no elapsed days before any backup (ok=%t, err=%v)", ok, err)
	}

	if err := SetLastBackupDate(ctx, testDB, now.AddDate(0, 0, -10)); err != nil {
		t.Fatalf("SetLastBackupDate failed: %v", err)
	}
	days, ok, err := DaysSinceLastBackup(ctx, testDB, now)
	if err != nil || !ok {
		t.Fatalf("DaysSinceLastBackup failed (ok=%t, err=%v)", ok, err)
	}
	if days != 10 {
		t.Errorf("Expected 10 days since last backup, got %d", days)
	}
}
