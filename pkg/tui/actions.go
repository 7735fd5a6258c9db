package tui

import (
	"context"
	"database/sql"

	"github.com/seedling-app/seedling/pkg/garden"

	tea "github.com/charmbracelet/bubbletea"
)

// List active plants from the store and return tea data
func listPlants(db *sql.DB) tea.Cmd {
	return func() tea.Msg {
		plants, err := garden.ListPlants(context.Background(), db, garden.PlantStatusActive)
		if err != nil {
			return err
		}
		return plants
	}
}

// List pending tasks sorted by due date and return tea data
func listTasks(db *sql.DB) tea.Cmd {
	return func() tea.Msg {
		tasks, err := garden.ListTasks(context.Background(), db, false)
		if err != nil {
			return err
		}
		return tasks
	}
}

type plantDetailsMsg struct {
	plant   garden.Plant
	entries []garden.DiaryEntry
}

// Get a combined message with the plant and its most recent diary entries
func getPlantDetails(db *sql.DB, plantID int64) tea.Cmd {
	return func() tea.Msg {
		plant, err := garden.GetPlant(context.Background(), db, plantID)
		if err != nil {
			return err
		}
		entries, err := garden.ListDiaryEntries(context.Background(), db, plant.ID, 0)
		if err != nil {
			return err
		}
		return plantDetailsMsg{plant: plant, entries: entries}
	}
}

type taskChangedMsg struct{}

// Complete a task for every plant still waiting on it, then trigger a reload
func completeTask(db *sql.DB, sched garden.Scheduler, taskID int64) tea.Cmd {
	return func() tea.Msg {
		if _, err := garden.CompleteTask(context.Background(), db, sched, taskID); err != nil {
			return err
		}
		return taskChangedMsg{}
	}
}

// Push a task's due date to tomorrow, then trigger a reload
func snoozeTask(db *sql.DB, taskID int64) tea.Cmd {
	return func() tea.Msg {
		if _, err := garden.SnoozeTask(context.Background(), db, taskID); err != nil {
			return err
		}
		return taskChangedMsg{}
	}
}

// Get database name and file path
func getDbPragmaList(db *sql.DB) (string, string) {
	var name, file string
	err := db.QueryRow(`PRAGMA database_list`).Scan(new(int), &name, &file)
	if err != nil {
		return name, file
	}
	return name, file
}
