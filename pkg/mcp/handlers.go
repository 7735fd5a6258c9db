package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/seedling-app/seedling/pkg/backup"
	"github.com/seedling-app/seedling/pkg/garden"
)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Seedling MCP server is alive."),
	)
	s.AddTool(pingTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("pong_seedling"), nil
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// RegisterCreatePlantTool registers the create_plant tool.
func RegisterCreatePlantTool(s *server.MCPServer, db *sql.DB) {
	createPlant := mcp.NewTool("create_plant",
		mcp.WithDescription("Adds a plant to the garden catalog."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name for the new plant.")),
		mcp.WithString("latin_name", mcp.Description("Optional botanical name.")),
		mcp.WithString("lifecycle", mcp.Description("Annual, Biennial or Perennial.")),
		mcp.WithString("instructions", mcp.Description("Optional growing instructions.")),
	)
	s.AddTool(createPlant, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		name := stringArg(args, "name")
		if name == "" {
			return mcp.NewToolResultError("'name' parameter is required and must be a non-empty string."), nil
		}

		plant, err := garden.CreatePlant(ctx, db, garden.Plant{
			Name:         name,
			LatinName:    stringArg(args, "latin_name"),
			Lifecycle:    stringArg(args, "lifecycle"),
			Instructions: stringArg(args, "instructions"),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create plant: %v", err)), nil
		}

		return jsonResult(plant)
	})
}

// RegisterListPlantsTool registers the list_plants tool.
func RegisterListPlantsTool(s *server.MCPServer, db *sql.DB) {
	listPlants := mcp.NewTool("list_plants",
		mcp.WithDescription("Lists plants in the garden catalog."),
		mcp.WithString("status", mcp.Description("Filter by status: active or archived. Omit for all plants.")),
	)
	s.AddTool(listPlants, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		plants, err := garden.ListPlants(ctx, db, stringArg(args, "status"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list plants: %v", err)), nil
		}

		if len(plants) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}

		return jsonResult(plants)
	})
}

// RegisterGetPlantTool registers the get_plant tool.
func RegisterGetPlantTool(s *server.MCPServer, db *sql.DB) {
	getPlant := mcp.NewTool("get_plant",
		mcp.WithDescription("Retrieves a plant by name, with its diary, photos count and companions."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name of the plant to retrieve.")),
	)
	s.AddTool(getPlant, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		name := stringArg(args, "name")
		if name == "" {
			return mcp.NewToolResultError("'name' parameter is required and must be a non-empty string."), nil
		}

		plant, err := getPlantByName(ctx, db, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error retrieving plant '%s': %v", name, err)), nil
		}
		if plant == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Plant with name '%s' not found.", name)), nil
		}

		entries, err := garden.ListDiaryEntries(ctx, db, plant.ID, 0)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load diary for plant '%s': %v", name, err)), nil
		}
		companions, err := garden.ListCompanionsForPlant(ctx, db, plant.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load companions for plant '%s': %v", name, err)), nil
		}

		return jsonResult(map[string]interface{}{
			"plant":      plant,
			"diary":      entries,
			"companions": companions,
		})
	})
}

// RegisterCreateTaskTool registers the create_task tool.
func RegisterCreateTaskTool(s *server.MCPServer, db *sql.DB, sched garden.Scheduler) {
	createTask := mcp.NewTool("create_task",
		mcp.WithDescription("Creates a care task for one or more plants, by plant name."),
		mcp.WithString("description", mcp.Required(), mcp.Description("What needs doing.")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Due date, YYYY-MM-DD.")),
		mcp.WithString("time", mcp.Description("Optional reminder time of day, HH:MM.")),
		mcp.WithString("plants", mcp.Required(), mcp.Description("Comma-separated plant names.")),
	)
	s.AddTool(createTask, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		description := stringArg(args, "description")
		date := stringArg(args, "date")
		if description == "" || date == "" {
			return mcp.NewToolResultError("'description' and 'date' parameters are required."), nil
		}

		var plantIDs []int64
		for _, name := range splitAndTrim(stringArg(args, "plants")) {
			plant, err := getPlantByName(ctx, db, name)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Error resolving plant '%s': %v", name, err)), nil
			}
			if plant == nil {
				return mcp.NewToolResultError(fmt.Sprintf("Plant with name '%s' not found.", name)), nil
			}
			plantIDs = append(plantIDs, plant.ID)
		}

		task, err := garden.CreateTask(ctx, db, sched, description, date, stringArg(args, "time"), plantIDs)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
		}

		return jsonResult(task)
	})
}

// RegisterListTasksTool registers the list_tasks tool.
func RegisterListTasksTool(s *server.MCPServer, db *sql.DB) {
	listTasks := mcp.NewTool("list_tasks",
		mcp.WithDescription("Lists care tasks sorted by due date, nearest first."),
		mcp.WithBoolean("include_completed", mcp.Description("Include completed tasks. Defaults to false.")),
	)
	s.AddTool(listTasks, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		tasks, err := garden.ListTasks(ctx, db, boolArg(args, "include_completed"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
		}

		if len(tasks) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}

		return jsonResult(tasks)
	})
}

// RegisterCompleteTaskTool registers the complete_task tool.
func RegisterCompleteTaskTool(s *server.MCPServer, db *sql.DB, sched garden.Scheduler) {
	completeTask := mcp.NewTool("complete_task",
		mcp.WithDescription("Completes a task. With 'plant', completes it for that plant only; otherwise for all its remaining plants."),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("The id of the task to complete.")),
		mcp.WithString("plant", mcp.Description("Optional plant name to complete on behalf of.")),
	)
	s.AddTool(completeTask, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		taskID, ok := intArg(args, "task_id")
		if !ok {
			return mcp.NewToolResultError("'task_id' parameter is required and must be a number."), nil
		}

		plantName := stringArg(args, "plant")
		if plantName == "" {
			entries, err := garden.CompleteTask(ctx, db, sched, taskID)
			if errors.Is(err, garden.ErrTaskNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Task %d not found.", taskID)), nil
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to complete task: %v", err)), nil
			}
			return jsonResult(entries)
		}

		plant, err := getPlantByName(ctx, db, plantName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error resolving plant '%s': %v", plantName, err)), nil
		}
		if plant == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Plant with name '%s' not found.", plantName)), nil
		}

		entry, err := garden.CompleteTaskForPlant(ctx, db, sched, taskID, plant.ID)
		if errors.Is(err, garden.ErrTaskNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Task %d not found.", taskID)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to complete task: %v", err)), nil
		}

		return jsonResult(entry)
	})
}

// RegisterSnoozeTaskTool registers the snooze_task tool.
func RegisterSnoozeTaskTool(s *server.MCPServer, db *sql.DB) {
	snoozeTask := mcp.NewTool("snooze_task",
		mcp.WithDescription("Pushes a task's due date to tomorrow."),
		mcp.WithNumber("task_id", mcp.Required(), mcp.Description("The id of the task to snooze.")),
	)
	s.AddTool(snoozeTask, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		taskID, ok := intArg(args, "task_id")
		if !ok {
			return mcp.NewToolResultError("'task_id' parameter is required and must be a number."), nil
		}

		task, err := garden.SnoozeTask(ctx, db, taskID)
		if errors.Is(err, garden.ErrTaskNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Task %d not found.", taskID)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to snooze task: %v", err)), nil
		}

		return jsonResult(task)
	})
}

// RegisterAddDiaryEntryTool registers the add_diary_entry tool.
func RegisterAddDiaryEntryTool(s *server.MCPServer, db *sql.DB) {
	addEntry := mcp.NewTool("add_diary_entry",
		mcp.WithDescription("Appends a care-diary entry for a plant."),
		mcp.WithString("plant", mcp.Required(), mcp.Description("Plant name.")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Entry date, YYYY-MM-DD.")),
		mcp.WithString("care_stage", mcp.Description("Optional care stage id, e.g. watered, pruned.")),
		mcp.WithString("note", mcp.Description("Optional note text.")),
	)
	s.AddTool(addEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		plantName := stringArg(args, "plant")
		date := stringArg(args, "date")
		if plantName == "" || date == "" {
			return mcp.NewToolResultError("'plant' and 'date' parameters are required."), nil
		}

		plant, err := getPlantByName(ctx, db, plantName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error resolving plant '%s': %v", plantName, err)), nil
		}
		if plant == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Plant with name '%s' not found.", plantName)), nil
		}

		entry, err := garden.CreateDiaryEntry(ctx, db, plant.ID, date, stringArg(args, "care_stage"), stringArg(args, "note"), 0)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create diary entry: %v", err)), nil
		}

		return jsonResult(entry)
	})
}

// RegisterListDiaryEntriesTool registers the list_diary_entries tool.
func RegisterListDiaryEntriesTool(s *server.MCPServer, db *sql.DB) {
	listEntries := mcp.NewTool("list_diary_entries",
		mcp.WithDescription("Lists a plant's care-diary entries, newest first."),
		mcp.WithString("plant", mcp.Required(), mcp.Description("Plant name.")),
		mcp.WithNumber("year", mcp.Description("Optional year filter, e.g. 2025.")),
	)
	s.AddTool(listEntries, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		plantName := stringArg(args, "plant")
		if plantName == "" {
			return mcp.NewToolResultError("'plant' parameter is required."), nil
		}

		plant, err := getPlantByName(ctx, db, plantName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error resolving plant '%s': %v", plantName, err)), nil
		}
		if plant == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Plant with name '%s' not found.", plantName)), nil
		}

		year, _ := intArg(args, "year")

		entries, err := garden.ListDiaryEntries(ctx, db, plant.ID, int(year))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list diary entries: %v", err)), nil
		}

		if len(entries) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}

		return jsonResult(entries)
	})
}

// RegisterListCompanionsTool registers the list_companions tool.
func RegisterListCompanionsTool(s *server.MCPServer, db *sql.DB) {
	listCompanions := mcp.NewTool("list_companions",
		mcp.WithDescription("Lists companion plantings involving a plant, in either direction."),
		mcp.WithString("plant", mcp.Required(), mcp.Description("Plant name.")),
	)
	s.AddTool(listCompanions, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		plantName := stringArg(args, "plant")
		if plantName == "" {
			return mcp.NewToolResultError("'plant' parameter is required."), nil
		}

		plant, err := getPlantByName(ctx, db, plantName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error resolving plant '%s': %v", plantName, err)), nil
		}
		if plant == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Plant with name '%s' not found.", plantName)), nil
		}

		companions, err := garden.ListCompanionsForPlant(ctx, db, plant.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list companion plantings: %v", err)), nil
		}

		if len(companions) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}

		return jsonResult(companions)
	})
}

// RegisterSearchDiaryTool registers the search_diary tool.
func RegisterSearchDiaryTool(s *server.MCPServer, db *sql.DB) {
	searchDiary := mcp.NewTool("search_diary",
		mcp.WithDescription("Searches diary entries by note or care stage text, newest first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for.")),
	)
	s.AddTool(searchDiary, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := toolArgs(request)

		query := stringArg(args, "query")
		if query == "" {
			return mcp.NewToolResultError("'query' parameter is required and must be a non-empty string."), nil
		}

		entries, err := garden.SearchDiary(ctx, db, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search diary: %v", err)), nil
		}

		if len(entries) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}

		return jsonResult(entries)
	})
}

// RegisterExportBackupTool registers the export_backup tool.
func RegisterExportBackupTool(s *server.MCPServer, db *sql.DB, schedules backup.ScheduleStore) {
	exportBackup := mcp.NewTool("export_backup",
		mcp.WithDescription("Exports the full store as a backup document (JSON)."),
	)
	s.AddTool(exportBackup, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := backup.Export(ctx, db, schedules)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to export backup: %v", err)), nil
		}

		encoded, err := backup.Encode(doc)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to encode backup: %v", err)), nil
		}

		return mcp.NewToolResultText(string(encoded)), nil
	})
}
