package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	seedling "github.com/seedling-app/seedling/pkg"
	"github.com/seedling-app/seedling/pkg/config"
	pkgdb "github.com/seedling-app/seedling/pkg/db"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "seedling",
	Short:   "A local garden tracker: plants, care diary, tasks and companion plantings.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", seedling.Version),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for seedling.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(seedling completion bash)

  Bash (persist):
    $ seedling completion bash > /etc/bash_completion.d/seedling

  Zsh:
    $ seedling completion zsh > "${fpath[1]}/_seedling"

  Fish:
    $ seedling completion fish | source
    $ seedling completion fish > ~/.config/fish/completions/seedling.fish

  PowerShell:
    PS> seedling completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of seedling",
	Long:  `All software has versions. This is seedling's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(seedling.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the seedling database",
	Long:  `Provides commands for managing the Seedling SQLite database, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the Seedling database schema to the latest version for the gardendb component",
	Long: `Connects to the SQLite database at the specified path (provided with the --db flag) and applies any necessary
schema migrations to bring the gardendb component up to the current application schema version.
If the database does not exist or is uninitialized for this component, it will be created
and initialized with the latest schema for the gardendb component.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dbPath == "" {
			return errors.New("database path is required")
		}

		fmt.Printf("Attempting to upgrade gardendb component in database at: %s (WAL: %t, Sync: %s)\n", dbPath, walMode, syncMode)

		dbConn, err := pkgdb.OpenDBConnection(dbPath, walMode, syncMode)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, dbPath, pkgdb.TargetSchemaVersion)
	},
}

func initCmd() {
	// Config file and environment provide flag defaults; flags win.
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		cfg = config.Default()
	}
	notificationsOn = cfg.Notifications

	// Define persistent DB flags on rootCmd so all commands can use them
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "Path to the database file (uses system-specific default if not provided)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", cfg.WAL, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", cfg.Sync, "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	rootCmd.PersistentFlags().BoolVar(&notificationsOn, "notifications", cfg.Notifications, "Maintain task reminder schedules")

	dbUpgradeCmd.MarkFlagRequired("db")

	dbCmd.AddCommand(dbUpgradeCmd)

	initPlantsCmd()
	initDiaryCmd()
	initTasksCmd()
	initPhotosCmd()
	initCompanionsCmd()
	initBackupCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, plantsCmd, diaryCmd, tasksCmd, photosCmd, companionsCmd, calendarCmd, backupCmd, mcpCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
