package main

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/seedling-app/seedling/pkg/db"
	"github.com/seedling-app/seedling/pkg/garden"
	"github.com/seedling-app/seedling/pkg/notify"
	"github.com/seedling-app/seedling/pkg/utils"
)

var (
	dbPath          string
	walMode         bool
	syncMode        string
	notificationsOn bool
)

// openDB resolves the database path (falling back to the system default
// location), opens the connection and initializes the schema on first use.
func openDB() (*sql.DB, error) {
	resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.OpenDBConnection(resolvedPath, walMode, syncMode)
	if err != nil {
		return nil, err
	}

	version, err := db.GetComponentSchemaVersion(dbConn, db.GardenDBComponent)
	if err != nil {
		dbConn.Close()
		return nil, err
	}
	if version == 0 {
		if err := db.UpgradeDB(dbConn, resolvedPath, db.TargetSchemaVersion); err != nil {
			dbConn.Close()
			return nil, err
		}
	}

	return dbConn, nil
}

// newScheduler builds the reminder scheduler for a command invocation,
// or nil when notifications are turned off.
func newScheduler(dbConn *sql.DB) garden.Scheduler {
	if !notificationsOn {
		return nil
	}
	return notify.NewScheduler(dbConn, notify.StderrNotifier)
}

func formatPeriod(p *garden.Period) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%s-%s", garden.Months[p.Start-1], garden.Months[p.End-1])
}

func formatIDList(ids []int64) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}

func printPlant(plant garden.Plant) {
	fmt.Println("Plant Details:")
	fmt.Printf("ID:              %d\n", plant.ID)
	fmt.Printf("Name:            %s\n", plant.Name)
	if plant.LatinName != "" {
		fmt.Printf("Latin Name:      %s\n", plant.LatinName)
	}
	fmt.Printf("Status:          %s\n", plant.Status)
	if plant.Lifecycle != "" {
		fmt.Printf("Lifecycle:       %s\n", plant.Lifecycle)
	}
	fmt.Printf("Sowing Period:   %s\n", formatPeriod(plant.SowingPeriod))
	fmt.Printf("Harvest Period:  %s\n", formatPeriod(plant.HarvestPeriod))
	if plant.FrostTolerance != "" {
		fmt.Printf("Frost Tolerance: %s\n", plant.FrostTolerance)
	}
	if plant.Instructions != "" {
		fmt.Println("\nInstructions:")
		fmt.Println("------------------------------------------------------------")
		fmt.Println(plant.Instructions)
		fmt.Println("------------------------------------------------------------")
	}
	fmt.Printf("Created At:      %s\n", plant.CreatedAt)
}

func printTask(task garden.Task) {
	fmt.Println("Task Details:")
	fmt.Printf("ID:               %d\n", task.ID)
	fmt.Printf("Description:      %s\n", task.Description)
	fmt.Printf("Date:             %s\n", task.Date)
	if task.Time != "" {
		fmt.Printf("Time:             %s\n", task.Time)
	}
	fmt.Printf("Completed:        %t\n", task.Completed == 1)
	fmt.Printf("Pending Plants:   %s\n", formatIDList(task.PlantIDs))
	fmt.Printf("Completed Plants: %s\n", formatIDList(task.CompletedPlantIDs))
	fmt.Printf("Created At:       %s\n", task.CreatedAt)
}

func printDiaryEntry(entry garden.DiaryEntry) {
	fmt.Println("Diary Entry:")
	fmt.Printf("ID:         %d\n", entry.ID)
	fmt.Printf("Plant ID:   %d\n", entry.PlantID)
	fmt.Printf("Date:       %s\n", entry.Date)
	if entry.CareStage != "" {
		fmt.Printf("Care Stage: %s\n", entry.CareStage)
	}
	if entry.Note != "" {
		fmt.Printf("Note:       %s\n", entry.Note)
	}
	if entry.TaskID != 0 {
		fmt.Printf("Task ID:    %d\n", entry.TaskID)
	}
}
