package main

import (
	"fmt"
	"os"

	"github.com/seedling-app/seedling/pkg/garden"
	"github.com/seedling-app/seedling/pkg/mcp"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Seedling MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes plants, tasks,
the care diary and backups as MCP tools via STDIO.

The --db flag is optional. If not provided, a system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\seedling\seedling.db
- macOS: ~/Library/Application Support/seedling/seedling.db
- Linux: ~/.local/share/seedling/seedling.db

Example (Server Mode):
  seedling mcp
  seedling mcp --db seedling.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create server wrapper.
		srv, err := mcp.NewSeedlingMCPServer(dbPath, walMode, syncMode)
		if err != nil {
			return err
		}
		defer srv.Close()

		// Register all standard tools.
		db := srv.DB()
		s := srv.MCPRawServer()
		scheduler := srv.Scheduler()

		mcp.RegisterPingTool(s)
		mcp.RegisterCreatePlantTool(s, db)
		mcp.RegisterListPlantsTool(s, db)
		mcp.RegisterGetPlantTool(s, db)

		mcp.RegisterCreateTaskTool(s, db, scheduler)
		mcp.RegisterListTasksTool(s, db)
		mcp.RegisterCompleteTaskTool(s, db, scheduler)
		mcp.RegisterSnoozeTaskTool(s, db)

		mcp.RegisterAddDiaryEntryTool(s, db)
		mcp.RegisterListDiaryEntriesTool(s, db)
		mcp.RegisterSearchDiaryTool(s, db)
		mcp.RegisterListCompanionsTool(s, db)
		mcp.RegisterExportBackupTool(s, db, scheduler)

		// Arm reminder timers for every pending task with a time of day.
		if err := garden.RescheduleAllNotifications(cmd.Context(), db, scheduler); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to restore reminder schedules: %v\n", err)
		}

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "Seedling MCP server started. DB: %s (WAL: %t, Sync: %s)\n", srv.DbPath, walMode, syncMode)
		fmt.Fprintln(os.Stderr, "Available tools: ping, create_plant, list_plants, get_plant, create_task, list_tasks, complete_task, snooze_task, add_diary_entry, list_diary_entries, search_diary, list_companions, export_backup")
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		// Run the server (blocks until stdio closes).
		return srv.Start()
	},
}
